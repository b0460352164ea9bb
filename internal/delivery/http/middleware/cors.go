package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/maps-proxy/internal/config"
)

const allowedMethods = "GET,POST,HEAD,PUT,DELETE,PATCH,OPTIONS"

// CORS - Cross-Origin Resource Sharing driven by the configured allow-list.
// Request headers are reflected, so any header is accepted.
func CORS(cfg config.CORSConfig) fiber.Handler {
	if cfg.AllowsAnyOrigin() {
		if !cfg.AllowCredentials {
			return cors.New(cors.Config{
				AllowOrigins: "*",
				AllowMethods: allowedMethods,
			})
		}
		// a literal "*" cannot be combined with credentials, so the origin is echoed back
		return cors.New(cors.Config{
			AllowOriginsFunc: func(string) bool { return true },
			AllowMethods:     allowedMethods,
			AllowCredentials: true,
		})
	}

	return cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.AllowedOrigins, ","),
		AllowMethods:     allowedMethods,
		AllowCredentials: cfg.AllowCredentials,
	})
}
