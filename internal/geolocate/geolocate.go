package geolocate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexivanou/geocity-weather/internal/model"
)

var (
	// ErrUnsupported means the environment has no geolocation capability
	ErrUnsupported = errors.New("geolocation not supported")
	// ErrDenied means the user refused to share a position
	ErrDenied = errors.New("geolocation permission denied")
	// ErrUnavailable means a position could not be determined, including timeouts
	ErrUnavailable = errors.New("position unavailable")
)

// DefaultTimeout bounds a single position request
const DefaultTimeout = 10 * time.Second

// Locator is a single-shot position request
type Locator interface {
	Locate(ctx context.Context) (model.Coordinate, error)
}

// LocatorFunc adapts a function to Locator
type LocatorFunc func(ctx context.Context) (model.Coordinate, error)

func (f LocatorFunc) Locate(ctx context.Context) (model.Coordinate, error) { return f(ctx) }

// Fixed always reports the same position
type Fixed model.Coordinate

func (f Fixed) Locate(context.Context) (model.Coordinate, error) {
	return model.Coordinate(f), nil
}

// Unsupported is the locator for environments without geolocation
type Unsupported struct{}

func (Unsupported) Locate(context.Context) (model.Coordinate, error) {
	return model.Coordinate{}, ErrUnsupported
}

// Reported replays a position or error code sent by a remote client.
// Codes follow the browser API: "denied", "unavailable", "timeout", "unsupported".
func Reported(pos *model.Coordinate, code string) Locator {
	return LocatorFunc(func(context.Context) (model.Coordinate, error) {
		switch code {
		case "":
		case "unsupported":
			return model.Coordinate{}, ErrUnsupported
		case "denied":
			return model.Coordinate{}, ErrDenied
		case "unavailable", "timeout":
			return model.Coordinate{}, ErrUnavailable
		default:
			return model.Coordinate{}, fmt.Errorf("%w: %s", ErrUnavailable, code)
		}
		if pos == nil {
			return model.Coordinate{}, ErrUnavailable
		}
		if pos.Lat < -90 || pos.Lat > 90 || pos.Lon < -180 || pos.Lon > 180 {
			return model.Coordinate{}, fmt.Errorf("%w: coordinates out of range", ErrUnavailable)
		}
		return *pos, nil
	})
}

// WithTimeout fails with ErrUnavailable if loc does not answer within d.
// A non-positive d selects DefaultTimeout.
func WithTimeout(loc Locator, d time.Duration) Locator {
	if d <= 0 {
		d = DefaultTimeout
	}
	return LocatorFunc(func(ctx context.Context) (model.Coordinate, error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()

		type result struct {
			pos model.Coordinate
			err error
		}
		done := make(chan result, 1)
		go func() {
			pos, err := loc.Locate(ctx)
			done <- result{pos, err}
		}()

		select {
		case r := <-done:
			return r.pos, r.err
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return model.Coordinate{}, fmt.Errorf("%w: timed out after %s", ErrUnavailable, d)
			}
			return model.Coordinate{}, ctx.Err()
		}
	})
}
