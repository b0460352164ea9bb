package usecase

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/maps-proxy/internal/config"
	"github.com/maps-proxy/internal/domain"
	"github.com/maps-proxy/internal/domain/repository"
	"github.com/maps-proxy/internal/pkg/errors"
	"github.com/maps-proxy/internal/pkg/utils"
	"github.com/maps-proxy/internal/usecase/dto"
)

const (
	minQueryLength = 3

	searchErrorPrefix  = "Error al consultar Google Maps: "
	geocodeErrorPrefix = "Error al geocodificar: "
)

// MapsUseCase - composes provider parameters for each endpoint and relays the answer
type MapsUseCase struct {
	mapsRepo     repository.MapsRepository
	logger       *zap.Logger
	language     string
	components   string
	searchRadius int
}

// NewMapsUseCase - create a new MapsUseCase
func NewMapsUseCase(mapsRepo repository.MapsRepository, cfg *config.MapsConfig, logger *zap.Logger) *MapsUseCase {
	return &MapsUseCase{
		mapsRepo:     mapsRepo,
		logger:       logger,
		language:     cfg.Language,
		components:   cfg.Components,
		searchRadius: cfg.SearchRadius,
	}
}

// SearchPlaces - place autocomplete, optionally biased around a location
func (uc *MapsUseCase) SearchPlaces(ctx context.Context, req dto.SearchPlacesRequest) (json.RawMessage, error) {
	if utf8.RuneCountInString(req.Query) < minQueryLength {
		return nil, errors.ErrQueryTooShort
	}

	params := url.Values{}
	params.Set("input", req.Query)
	params.Set("language", uc.language)
	params.Set("components", uc.components)

	if req.Location != "" {
		if _, err := utils.ParseLocation(req.Location); err != nil {
			return nil, errors.ErrInvalidLocation.WithDetails(map[string]interface{}{
				"location": req.Location,
			})
		}
		params.Set("location", utils.NormalizeLocation(req.Location))
		params.Set("radius", strconv.Itoa(uc.searchRadius))
	}

	uc.logger.Info("Searching places",
		zap.String("query", req.Query),
		zap.String("location", req.Location))

	data, err := uc.mapsRepo.Autocomplete(ctx, params)
	if err != nil {
		return nil, uc.translate("search places", searchErrorPrefix, err)
	}

	uc.logger.Info("Places found", zap.Int("results", countPredictions(data)))

	return data, nil
}

// PlaceDetails - details of a single place by its provider id
func (uc *MapsUseCase) PlaceDetails(ctx context.Context, req dto.PlaceDetailsRequest) (json.RawMessage, error) {
	if strings.TrimSpace(req.PlaceID) == "" {
		return nil, errors.ErrPlaceIDRequired
	}

	params := url.Values{}
	params.Set("place_id", req.PlaceID)
	params.Set("language", uc.language)
	params.Set("fields", domain.PlaceDetailsFields)

	uc.logger.Info("Fetching place details", zap.String("place_id", req.PlaceID))

	data, err := uc.mapsRepo.PlaceDetails(ctx, params)
	if err != nil {
		return nil, uc.translate("place details", searchErrorPrefix, err)
	}

	uc.logger.Info("Place details fetched", zap.String("name", placeName(data)))

	return data, nil
}

// Geocode - convert a free-text address into coordinates
func (uc *MapsUseCase) Geocode(ctx context.Context, req dto.GeocodeRequest) (json.RawMessage, error) {
	if strings.TrimSpace(req.Address) == "" {
		return nil, errors.ErrAddressRequired
	}

	params := url.Values{}
	params.Set("address", req.Address)
	params.Set("language", uc.language)
	params.Set("components", uc.components)

	uc.logger.Info("Geocoding address", zap.String("address", req.Address))

	data, err := uc.mapsRepo.Geocode(ctx, params)
	if err != nil {
		return nil, uc.translate("geocode", geocodeErrorPrefix, err)
	}

	uc.logger.Info("Geocoding successful")

	return data, nil
}

// translate tags a repository failure as upstream or internal
func (uc *MapsUseCase) translate(op, prefix string, err error) error {
	if stderrors.Is(err, domain.ErrUpstream) {
		uc.logger.Error("Upstream request failed", zap.String("operation", op), zap.Error(err))
		return errors.NewUpstream(prefix, err)
	}

	uc.logger.Error("Request failed", zap.String("operation", op), zap.Error(err))
	return errors.NewInternal(err)
}

func countPredictions(data json.RawMessage) int {
	var payload struct {
		Predictions []json.RawMessage `json:"predictions"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return 0
	}
	return len(payload.Predictions)
}

func placeName(data json.RawMessage) string {
	var payload struct {
		Result struct {
			Name string `json:"name"`
		} `json:"result"`
	}
	if err := json.Unmarshal(data, &payload); err != nil || payload.Result.Name == "" {
		return "N/A"
	}
	return payload.Result.Name
}
