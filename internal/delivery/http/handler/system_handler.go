package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maps-proxy/internal/usecase/dto"
)

// SystemHandler serves the endpoints that never reach the provider.
type SystemHandler struct{}

func NewSystemHandler() *SystemHandler {
	return &SystemHandler{}
}

// Root godoc
// @Summary Service banner
// @Tags System
// @Produce json
// @Success 200 {object} dto.RootResponse
// @Router / [get]
func (h *SystemHandler) Root(c *fiber.Ctx) error {
	return c.JSON(dto.RootResponse{
		Status:  "OK",
		Message: "Google Maps Proxy API funcionando",
		Endpoints: []string{
			"/api/maps/search-places",
			"/api/maps/place-details",
		},
	})
}

// Health godoc
// @Summary Health check
// @Tags System
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (h *SystemHandler) Health(c *fiber.Ctx) error {
	return c.JSON(dto.HealthResponse{Status: "healthy"})
}
