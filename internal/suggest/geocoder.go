package suggest

import (
	"context"
	"fmt"

	"github.com/alexivanou/geocity-weather/internal/model"
	"github.com/alexivanou/geocity-weather/internal/owm"
)

// Geocoder is the direct-geocoding slice of the OpenWeatherMap client
type Geocoder interface {
	Direct(ctx context.Context, query string, limit int) ([]owm.Place, error)
}

// GeocoderSource asks a live geocoding endpoint for places
type GeocoderSource struct {
	geocoder Geocoder
}

func NewGeocoderSource(g Geocoder) *GeocoderSource {
	return &GeocoderSource{geocoder: g}
}

func (s *GeocoderSource) Name() string { return "geocoder" }

func (s *GeocoderSource) Limit() int { return GeocoderLimit }

// Suggest labels places "name[, state], country"; candidates resolve by coordinates
func (s *GeocoderSource) Suggest(ctx context.Context, query string) ([]model.Candidate, error) {
	places, err := s.geocoder.Direct(ctx, query, GeocoderLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to geocode %q: %w", query, err)
	}

	out := make([]model.Candidate, 0, len(places))
	for _, p := range places {
		if p.Name == "" {
			return nil, fmt.Errorf("geocoder returned a place without a name")
		}
		out = append(out, model.Candidate{
			Label:      PlaceLabel(p),
			Resolution: model.ByCoordinates(p.Lat, p.Lon),
		})
	}
	return out, nil
}

// PlaceLabel formats a geocoded place for display
func PlaceLabel(p owm.Place) string {
	label := p.Name
	if p.State != "" {
		label += ", " + p.State
	}
	if p.Country != "" {
		label += ", " + p.Country
	}
	return label
}
