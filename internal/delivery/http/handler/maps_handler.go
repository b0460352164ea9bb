package handler

import (
	stderrors "errors"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/maps-proxy/internal/pkg/errors"
	"github.com/maps-proxy/internal/pkg/utils"
	"github.com/maps-proxy/internal/pkg/validator"
	"github.com/maps-proxy/internal/usecase"
	"github.com/maps-proxy/internal/usecase/dto"
	"go.uber.org/zap"
)

// MapsHandler - relays place search, place details and geocoding requests
type MapsHandler struct {
	mapsUC *usecase.MapsUseCase
	logger *zap.Logger
}

// NewMapsHandler - create a new MapsHandler
func NewMapsHandler(mapsUC *usecase.MapsUseCase, logger *zap.Logger) *MapsHandler {
	return &MapsHandler{
		mapsUC: mapsUC,
		logger: logger,
	}
}

// SearchPlaces godoc
// @Summary Place autocomplete
// @Description Searches places in Mexico through Google Places Autocomplete. With a location the results are biased within 50 km.
// @Tags Maps
// @Produce json
// @Param query query string true "Search text (at least 3 characters)"
// @Param location query string false "Latitude,longitude for nearby search"
// @Success 200 {object} map[string]interface{} "Provider autocomplete response"
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/maps/search-places [get]
func (h *MapsHandler) SearchPlaces(c *fiber.Ctx) error {
	req := dto.SearchPlacesRequest{
		Query:    c.Query("query"),
		Location: c.Query("location"),
	}

	if err := validator.Validate(&req); err != nil {
		return h.sendError(c, validationError(err))
	}

	result, err := h.mapsUC.SearchPlaces(c.UserContext(), req)
	if err != nil {
		return h.sendError(c, err)
	}

	return utils.SendRaw(c, result)
}

// PlaceDetails godoc
// @Summary Place details
// @Description Returns geometry, name, formatted address and address components of a place.
// @Tags Maps
// @Produce json
// @Param place_id query string true "Google Places place id"
// @Success 200 {object} map[string]interface{} "Provider place details response"
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/maps/place-details [get]
func (h *MapsHandler) PlaceDetails(c *fiber.Ctx) error {
	req := dto.PlaceDetailsRequest{PlaceID: c.Query("place_id")}

	if err := validator.Validate(&req); err != nil {
		return h.sendError(c, validationError(err))
	}

	result, err := h.mapsUC.PlaceDetails(c.UserContext(), req)
	if err != nil {
		return h.sendError(c, err)
	}

	return utils.SendRaw(c, result)
}

// Geocode godoc
// @Summary Geocode an address
// @Description Converts a free-text address in Mexico into coordinates.
// @Tags Maps
// @Produce json
// @Param address query string true "Address to geocode"
// @Success 200 {object} map[string]interface{} "Provider geocoding response"
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/maps/geocode [get]
func (h *MapsHandler) Geocode(c *fiber.Ctx) error {
	req := dto.GeocodeRequest{Address: c.Query("address")}

	if err := validator.Validate(&req); err != nil {
		return h.sendError(c, validationError(err))
	}

	result, err := h.mapsUC.Geocode(c.UserContext(), req)
	if err != nil {
		return h.sendError(c, err)
	}

	return utils.SendRaw(c, result)
}

func (h *MapsHandler) sendError(c *fiber.Ctx, err error) error {
	appErr := errors.From(err)
	h.logger.Warn("Request failed",
		zap.String("path", c.Path()),
		zap.String("kind", appErr.Kind.String()),
		zap.Int("status", appErr.StatusCode),
		zap.String("message", appErr.Message))
	return utils.SendError(c, appErr)
}

// validationError maps validator field errors onto a validation AppError
func validationError(err error) *errors.AppError {
	var fieldErrs govalidator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return errors.NewValidation(err.Error())
	}

	details := make(map[string]interface{}, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fe.Field()] = fe.Tag()
	}

	first := fieldErrs[0]
	switch {
	case first.Field() == "Query" && first.Tag() == "min":
		return errors.ErrQueryTooShort.WithDetails(details)
	case first.Field() == "Location":
		return errors.ErrInvalidLocation.WithDetails(details)
	}

	return errors.NewValidation("invalid request parameters").WithDetails(details)
}
