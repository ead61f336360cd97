package geolocate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexivanou/geocity-weather/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixed(t *testing.T) {
	pos, err := Fixed{Lat: 28.61, Lon: 77.21}.Locate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.Coordinate{Lat: 28.61, Lon: 77.21}, pos)
}

func TestUnsupported(t *testing.T) {
	_, err := Unsupported{}.Locate(context.Background())
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestReported(t *testing.T) {
	pos := &model.Coordinate{Lat: 51.5, Lon: -0.12}

	tests := []struct {
		name     string
		pos      *model.Coordinate
		code     string
		expected error
	}{
		{name: "position", pos: pos},
		{name: "denied", code: "denied", expected: ErrDenied},
		{name: "unavailable", code: "unavailable", expected: ErrUnavailable},
		{name: "timeout", code: "timeout", expected: ErrUnavailable},
		{name: "unsupported", code: "unsupported", expected: ErrUnsupported},
		{name: "unknown code", code: "gremlins", expected: ErrUnavailable},
		{name: "no position", expected: ErrUnavailable},
		{name: "out of range", pos: &model.Coordinate{Lat: 91}, expected: ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Reported(tt.pos, tt.code).Locate(context.Background())
			if tt.expected != nil {
				assert.ErrorIs(t, err, tt.expected)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, *tt.pos, got)
		})
	}
}

func TestWithTimeout(t *testing.T) {
	t.Run("answers in time", func(t *testing.T) {
		loc := WithTimeout(Fixed{Lat: 1, Lon: 2}, time.Second)
		pos, err := loc.Locate(context.Background())
		require.NoError(t, err)
		assert.Equal(t, model.Coordinate{Lat: 1, Lon: 2}, pos)
	})

	t.Run("hangs", func(t *testing.T) {
		release := make(chan struct{})
		defer close(release)
		hang := LocatorFunc(func(ctx context.Context) (model.Coordinate, error) {
			<-release
			return model.Coordinate{}, nil
		})

		_, err := WithTimeout(hang, 20*time.Millisecond).Locate(context.Background())
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("error passes through", func(t *testing.T) {
		_, err := WithTimeout(Unsupported{}, time.Second).Locate(context.Background())
		assert.True(t, errors.Is(err, ErrUnsupported))
	})

	t.Run("caller cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		hang := LocatorFunc(func(ctx context.Context) (model.Coordinate, error) {
			<-ctx.Done()
			return model.Coordinate{}, ctx.Err()
		})
		_, err := WithTimeout(hang, time.Second).Locate(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
