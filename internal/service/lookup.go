package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexivanou/geocity-weather/internal/model"
	"go.uber.org/zap"
)

var (
	// ErrEmptyLookup is returned when a by-name lookup carries no text
	ErrEmptyLookup = errors.New("lookup text is empty")
	// ErrInvalidCoordinates is returned for positions outside lat/lon range
	ErrInvalidCoordinates = errors.New("invalid coordinates range")
)

// Suggest returns the candidate list for query. The result list is never nil.
func (s *Service) Suggest(ctx context.Context, query string) *model.SuggestResponse {
	results := s.GetSuggestions(ctx, query)
	if results == nil {
		results = []model.Candidate{}
	}
	return &model.SuggestResponse{Results: results}
}

// GetSuggestions delegates to the suggestion engine
func (s *Service) GetSuggestions(ctx context.Context, query string) []model.Candidate {
	return s.suggester.GetSuggestions(ctx, query)
}

// Resolve validates res and fetches the weather it names
func (s *Service) Resolve(ctx context.Context, res model.Resolution) (model.WeatherRecord, error) {
	switch res.Kind {
	case model.ResolutionByName:
		res.Name = strings.TrimSpace(res.Name)
		if res.Name == "" {
			return model.WeatherRecord{}, ErrEmptyLookup
		}
	case model.ResolutionByCoordinates:
		if res.Coordinate == nil {
			return model.WeatherRecord{}, fmt.Errorf("%w: missing coordinate", ErrInvalidCoordinates)
		}
		if !ValidCoordinate(*res.Coordinate) {
			return model.WeatherRecord{}, ErrInvalidCoordinates
		}
	default:
		return model.WeatherRecord{}, fmt.Errorf("unknown resolution kind %q", res.Kind)
	}

	record, err := s.resolver.Resolve(ctx, res)
	if err != nil {
		s.logger.Debug("Weather lookup failed", zap.Stringer("resolution", res), zap.Error(err))
		return model.WeatherRecord{}, err
	}
	return record, nil
}

// ValidCoordinate reports whether c lies within latitude and longitude range
func ValidCoordinate(c model.Coordinate) bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}
