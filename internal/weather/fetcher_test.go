package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexivanou/geocity-weather/internal/model"
	"github.com/alexivanou/geocity-weather/internal/owm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockProvider implements Provider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) CurrentByName(ctx context.Context, name string) (*owm.Current, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*owm.Current), args.Error(1)
}

func (m *MockProvider) CurrentByCoordinates(ctx context.Context, lat, lon float64) (*owm.Current, error) {
	args := m.Called(ctx, lat, lon)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*owm.Current), args.Error(1)
}

func sampleCurrent(name string) *owm.Current {
	return &owm.Current{
		Name:     name,
		Main:     &owm.MainBlock{Temp: 28.4, FeelsLike: 30.1, Humidity: 68},
		Weather:  []owm.Condition{{Main: "Clouds", Description: "scattered clouds", Icon: "03d"}},
		Wind:     &owm.WindBlock{Speed: 3.6},
		Dt:       1700000000,
		Timezone: 19800,
	}
}

func TestFetcher_ByName_RoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Delhi, India", r.URL.Query().Get("q"))
		w.Write([]byte(`{
			"name": "Delhi",
			"main": {"temp": 28.4, "feels_like": 30.1, "humidity": 68},
			"weather": [
				{"main": "Haze", "description": "haze", "icon": "50d"},
				{"main": "Clouds", "description": "few clouds", "icon": "02d"}
			],
			"wind": {"speed": 14},
			"dt": 1700000000,
			"timezone": 19800
		}`))
	}))
	defer srv.Close()

	client := owm.New(owm.Options{APIKey: "k", WeatherURL: srv.URL})
	f := NewFetcher(client, "", zap.NewNop())

	rec, err := f.ByName(context.Background(), "Delhi, India")
	require.NoError(t, err)

	assert.Equal(t, model.WeatherRecord{
		Place:      "Delhi",
		TempC:      28,
		FeelsLikeC: 30,
		Condition:  "haze",
		Icon:       "https://openweathermap.org/img/wn/50d@2x.png",
		Wind:       14,
		WindLabel:  "14 kph",
		Humidity:   68,
		LocalTime:  time.Unix(1700019800, 0).UTC().Format("15:04"),
		LocalDate:  "Wed, 15 Nov 2023",
		Category:   model.CategoryOther,
	}, rec)
	assert.Equal(t, "03:43", rec.LocalTime)
}

func TestFetcher_ByName_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"cod":"404","message":"city not found"}`))
	}))
	defer srv.Close()

	f := NewFetcher(owm.New(owm.Options{WeatherURL: srv.URL}), "", nil)

	rec, err := f.ByName(context.Background(), "Atlantis")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrResolution))
	assert.Equal(t, model.WeatherRecord{}, rec)

	var rerr *ResolutionError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, http.StatusNotFound, rerr.Status)
	assert.Equal(t, "Atlantis", rerr.Query)
}

func TestFetcher_ByCoordinates(t *testing.T) {
	tests := []struct {
		name          string
		current       *owm.Current
		expectedPlace string
	}{
		{
			name:          "endpoint names the place",
			current:       sampleCurrent("Shuzenji"),
			expectedPlace: "Shuzenji",
		},
		{
			name:          "synthesized label when unnamed",
			current:       sampleCurrent(""),
			expectedPlace: "Lat 12.35, Lon 56.78",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := new(MockProvider)
			p.On("CurrentByCoordinates", mock.Anything, 12.3456, 56.7789).Return(tt.current, nil)

			f := NewFetcher(p, "", zap.NewNop())
			rec, err := f.ByCoordinates(context.Background(), 12.3456, 56.7789)
			require.NoError(t, err)

			assert.Equal(t, tt.expectedPlace, rec.Place)
			assert.Equal(t, model.CategoryCloudy, rec.Category)
			p.AssertExpectations(t)
		})
	}
}

func TestFetcher_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		current *owm.Current
	}{
		{name: "missing main", current: &owm.Current{Name: "X", Weather: []owm.Condition{{Description: "clear"}}}},
		{name: "no conditions", current: &owm.Current{Name: "X", Main: &owm.MainBlock{Temp: 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := new(MockProvider)
			p.On("CurrentByName", mock.Anything, "X").Return(tt.current, nil)

			f := NewFetcher(p, "", zap.NewNop())
			_, err := f.ByName(context.Background(), "X")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed))
			assert.True(t, errors.Is(err, ErrResolution))
		})
	}
}

func TestFetcher_TransportError(t *testing.T) {
	p := new(MockProvider)
	p.On("CurrentByName", mock.Anything, "Delhi").Return(nil, errors.New("connection refused"))

	f := NewFetcher(p, "", zap.NewNop())
	_, err := f.ByName(context.Background(), "Delhi")

	var rerr *ResolutionError
	require.True(t, errors.As(err, &rerr))
	assert.Zero(t, rerr.Status)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestFetcher_Resolve(t *testing.T) {
	p := new(MockProvider)
	p.On("CurrentByName", mock.Anything, "London, UK").Return(sampleCurrent("London"), nil)
	p.On("CurrentByCoordinates", mock.Anything, 51.5, -0.12).Return(sampleCurrent("London"), nil)

	f := NewFetcher(p, "https://icons.example/%s.svg", zap.NewNop())

	rec, err := f.Resolve(context.Background(), model.ByName("London, UK"))
	require.NoError(t, err)
	assert.Equal(t, "https://icons.example/03d.svg", rec.Icon)

	_, err = f.Resolve(context.Background(), model.ByCoordinates(51.5, -0.12))
	require.NoError(t, err)

	_, err = f.Resolve(context.Background(), model.Resolution{Kind: model.ResolutionByCoordinates})
	assert.Error(t, err)

	_, err = f.Resolve(context.Background(), model.Resolution{Kind: "telepathy"})
	assert.Error(t, err)

	p.AssertExpectations(t)
}
