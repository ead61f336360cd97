package suggest

import (
	"context"
	"strings"

	"github.com/alexivanou/geocity-weather/internal/model"
)

const (
	// StaticLimit bounds results from the built-in and catalog lists
	StaticLimit = 6
	// GeocoderLimit is the most the direct-geocoding endpoint returns
	GeocoderLimit = 5
)

// Source produces candidates for a non-empty, trimmed query
type Source interface {
	Name() string
	Limit() int
	Suggest(ctx context.Context, query string) ([]model.Candidate, error)
}

// StaticSource matches against a fixed list of labels
type StaticSource struct {
	labels []string
}

// NewStaticSource creates a source over labels; nil selects model.KnownCities
func NewStaticSource(labels []string) *StaticSource {
	if labels == nil {
		for _, c := range model.KnownCities {
			labels = append(labels, c.Label)
		}
	}
	return &StaticSource{labels: labels}
}

func (s *StaticSource) Name() string { return "static" }

func (s *StaticSource) Limit() int { return StaticLimit }

// Suggest returns labels containing query case-insensitively, in list order.
// Candidates resolve by name.
func (s *StaticSource) Suggest(_ context.Context, query string) ([]model.Candidate, error) {
	q := strings.ToLower(query)
	var out []model.Candidate
	for _, label := range s.labels {
		if !strings.Contains(strings.ToLower(label), q) {
			continue
		}
		out = append(out, model.Candidate{Label: label, Resolution: model.ByName(label)})
		if len(out) == StaticLimit {
			break
		}
	}
	return out, nil
}
