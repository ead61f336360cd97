package service

import (
	"context"

	"github.com/alexivanou/geocity-weather/internal/model"
)

// ServiceInterface defines the service interface for testing
type ServiceInterface interface {
	Suggest(ctx context.Context, query string) *model.SuggestResponse
	GetSuggestions(ctx context.Context, query string) []model.Candidate
	Resolve(ctx context.Context, res model.Resolution) (model.WeatherRecord, error)
	SourceName() string
}
