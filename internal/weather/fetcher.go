package weather

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexivanou/geocity-weather/internal/metrics"
	"github.com/alexivanou/geocity-weather/internal/model"
	"github.com/alexivanou/geocity-weather/internal/owm"
	"go.uber.org/zap"
)

// Provider is the slice of the OpenWeatherMap client the fetcher needs
type Provider interface {
	CurrentByName(ctx context.Context, name string) (*owm.Current, error)
	CurrentByCoordinates(ctx context.Context, lat, lon float64) (*owm.Current, error)
}

// Fetcher resolves places to normalized weather records. It holds no state
// between calls and never touches a display.
type Fetcher struct {
	provider Provider
	iconURL  string
	logger   *zap.Logger
}

// NewFetcher creates a fetcher; an empty iconURL selects DefaultIconURL
func NewFetcher(provider Provider, iconURL string, logger *zap.Logger) *Fetcher {
	if iconURL == "" {
		iconURL = DefaultIconURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{provider: provider, iconURL: iconURL, logger: logger}
}

// ByName resolves weather for a place name. Disambiguation is left to the endpoint.
func (f *Fetcher) ByName(ctx context.Context, cityLabel string) (model.WeatherRecord, error) {
	cur, err := f.provider.CurrentByName(ctx, cityLabel)
	if err != nil {
		return f.fail(model.ResolutionByName, cityLabel, err)
	}

	record, err := Normalize(cur, f.iconURL, "")
	if err != nil {
		return f.fail(model.ResolutionByName, cityLabel, err)
	}

	metrics.WeatherFetches.WithLabelValues(string(model.ResolutionByName), "ok").Inc()
	return record, nil
}

// ByCoordinates resolves weather for a point. Coordinates go to the endpoint
// unmodified; only the fallback place label is rounded.
func (f *Fetcher) ByCoordinates(ctx context.Context, lat, lon float64) (model.WeatherRecord, error) {
	label := CoordinateLabel(lat, lon)

	cur, err := f.provider.CurrentByCoordinates(ctx, lat, lon)
	if err != nil {
		return f.fail(model.ResolutionByCoordinates, label, err)
	}

	place := cur.Name
	if place == "" {
		place = label
	}

	record, err := Normalize(cur, f.iconURL, place)
	if err != nil {
		return f.fail(model.ResolutionByCoordinates, label, err)
	}

	metrics.WeatherFetches.WithLabelValues(string(model.ResolutionByCoordinates), "ok").Inc()
	return record, nil
}

// Resolve dispatches on the resolution kind of a committed candidate
func (f *Fetcher) Resolve(ctx context.Context, res model.Resolution) (model.WeatherRecord, error) {
	switch res.Kind {
	case model.ResolutionByCoordinates:
		if res.Coordinate == nil {
			return model.WeatherRecord{}, fmt.Errorf("coordinate resolution without coordinates")
		}
		return f.ByCoordinates(ctx, res.Coordinate.Lat, res.Coordinate.Lon)
	case model.ResolutionByName:
		return f.ByName(ctx, res.Name)
	default:
		return model.WeatherRecord{}, fmt.Errorf("unknown resolution kind %q", res.Kind)
	}
}

func (f *Fetcher) fail(kind model.ResolutionKind, query string, err error) (model.WeatherRecord, error) {
	outcome := "error"
	if errors.Is(err, context.Canceled) {
		outcome = "canceled"
	}
	metrics.WeatherFetches.WithLabelValues(string(kind), outcome).Inc()

	rerr := &ResolutionError{Query: query, Err: err}
	var se *owm.StatusError
	if errors.As(err, &se) {
		rerr.Status = se.Status
	}

	f.logger.Warn("Weather fetch failed",
		zap.String("kind", string(kind)),
		zap.String("query", query),
		zap.Int("status", rerr.Status),
		zap.Error(err),
	)
	return model.WeatherRecord{}, rerr
}
