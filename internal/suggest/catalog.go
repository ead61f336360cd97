package suggest

import (
	"context"
	"fmt"

	"github.com/alexivanou/geocity-weather/internal/model"
	"github.com/alexivanou/geocity-weather/internal/repository"
)

// CatalogSource searches the city catalog database
type CatalogSource struct {
	cities repository.CityRepository
}

func NewCatalogSource(cities repository.CityRepository) *CatalogSource {
	return &CatalogSource{cities: cities}
}

func (s *CatalogSource) Name() string { return "catalog" }

func (s *CatalogSource) Limit() int { return StaticLimit }

func (s *CatalogSource) Suggest(ctx context.Context, query string) ([]model.Candidate, error) {
	entries, err := s.cities.SearchCities(ctx, query, StaticLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search catalog: %w", err)
	}

	out := make([]model.Candidate, 0, len(entries))
	for _, e := range entries {
		out = append(out, model.Candidate{
			Label:      e.Label(),
			Resolution: model.ByCoordinates(e.Lat, e.Lon),
		})
	}
	return out, nil
}
