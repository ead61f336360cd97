package service

import (
	"context"

	"github.com/alexivanou/geocity-weather/internal/model"
	"go.uber.org/zap"
)

// Suggester is the suggestion engine as seen by the service
type Suggester interface {
	GetSuggestions(ctx context.Context, query string) []model.Candidate
}

// Resolver is the weather fetcher as seen by the service
type Resolver interface {
	Resolve(ctx context.Context, res model.Resolution) (model.WeatherRecord, error)
}

// Service ties the suggestion engine and the weather fetcher together for
// the HTTP and WebSocket surfaces
type Service struct {
	suggester  Suggester
	resolver   Resolver
	sourceName string
	logger     *zap.Logger
}

// NewService creates a new service instance
func NewService(suggester Suggester, resolver Resolver, sourceName string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		suggester:  suggester,
		resolver:   resolver,
		sourceName: sourceName,
		logger:     logger,
	}
}

// SourceName reports which suggestion source is configured
func (s *Service) SourceName() string {
	return s.sourceName
}
