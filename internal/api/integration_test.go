package api

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alexivanou/geocity-weather/internal/config"
	"github.com/alexivanou/geocity-weather/internal/database"
	"github.com/alexivanou/geocity-weather/internal/model"
	"github.com/alexivanou/geocity-weather/internal/owm"
	"github.com/alexivanou/geocity-weather/internal/repository"
	"github.com/alexivanou/geocity-weather/internal/service"
	"github.com/alexivanou/geocity-weather/internal/stats"
	"github.com/alexivanou/geocity-weather/internal/suggest"
	"github.com/alexivanou/geocity-weather/internal/weather"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const dublinWeather = `{
	"name": "Dublin",
	"main": {"temp": 11.5, "feels_like": 9.4, "humidity": 81},
	"weather": [{"main": "Rain", "description": "light rain", "icon": "10d"}],
	"wind": {"speed": 6.2},
	"dt": 1700000000,
	"timezone": 0
}`

// fakeOpenWeatherMap answers weather lookups for Dublin only
func fakeOpenWeatherMap(t *testing.T) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("lat") != "" || strings.HasPrefix(q.Get("q"), "Dublin") {
			w.Write([]byte(dublinWeather))
			return
		}
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"cod":"404","message":"city not found"}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func setupIntegrationStack(t *testing.T) http.Handler {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	dbName := fmt.Sprintf("testdb_%d", rng.Int())

	cfg := config.DBConfig{
		Type: config.DBTypeMemory,
		Name: dbName,
	}

	db, err := database.Connect(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	driver, err := sqlite3.WithInstance(db.DB, &sqlite3.Config{})
	require.NoError(t, err)

	// Point to the sqlite migrations folder
	m, err := migrate.NewWithDatabaseInstance(
		"file://../../migrations/sqlite",
		"sqlite3",
		driver,
	)
	require.NoError(t, err)
	err = m.Up()
	require.NoError(t, err)

	ctx := context.Background()
	_, err = db.ExecContext(ctx, "INSERT INTO countries (code, name_default) VALUES ('IE', 'Ireland')")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, "INSERT INTO cities (id, country_code, name_default, population, lat, lon) VALUES (1, 'IE', 'Dublin', 544000, 53.3498, -6.2603)")
	require.NoError(t, err)

	repos := repository.NewRepositories(db, config.DBTypeMemory)
	source := suggest.NewCatalogSource(repos.City)
	engine := suggest.NewEngine(source, zap.NewNop())

	client := owm.New(owm.Options{APIKey: "test", WeatherURL: fakeOpenWeatherMap(t).URL})
	fetcher := weather.NewFetcher(client, "", zap.NewNop())

	svc := service.NewService(engine, fetcher, source.Name(), zap.NewNop())
	statsCollector := stats.NewCollector(db, cfg, source.Name())

	return NewRouter(svc, statsCollector, SessionOptions{GeolocationTimeout: time.Second}, zap.NewNop())
}

func TestAPI_Integration_Suggest(t *testing.T) {
	handler := setupIntegrationStack(t)

	req := httptest.NewRequest("GET", "/api/v1/suggest?q=Dub", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp model.SuggestResponse
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Dublin, Ireland", resp.Results[0].Label)
	assert.Equal(t, model.ResolutionByCoordinates, resp.Results[0].Resolution.Kind)
}

func TestAPI_Integration_Weather(t *testing.T) {
	handler := setupIntegrationStack(t)

	req := httptest.NewRequest("GET", "/api/v1/weather?city=Dublin", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var rec model.WeatherRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rec))
	assert.Equal(t, "Dublin", rec.Place)
	assert.Equal(t, 12, rec.TempC)
	assert.Equal(t, 9, rec.FeelsLikeC)
	assert.Equal(t, "22:13", rec.LocalTime)
	assert.Equal(t, model.CategoryRainy, rec.Category)

	req = httptest.NewRequest("GET", "/api/v1/weather?city=Atlantis", nil)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAPI_Integration_Stats(t *testing.T) {
	handler := setupIntegrationStack(t)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/api/v1/stats", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var got stats.Stats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "catalog", got.Suggest.Source)
	require.NotNil(t, got.Database)
	assert.Equal(t, int64(2), got.Database.TotalRecords)
}

func TestAPI_Integration_Metrics(t *testing.T) {
	handler := setupIntegrationStack(t)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/api/v1/suggest?q=Dub", nil))
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "weather_lookup_suggestion_lookups_total")
}

type frame struct {
	Type       string              `json:"type"`
	Candidates []model.Candidate   `json:"candidates"`
	Cursor     int                 `json:"cursor"`
	Weather    model.WeatherRecord `json:"weather"`
	Busy       bool                `json:"busy"`
	Error      string              `json:"error"`
	Notice     struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	} `json:"notice"`
}

// readUntil returns the first frame of the given type
func readUntil(t *testing.T, conn *websocket.Conn, typ string) frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var f frame
		require.NoError(t, conn.ReadJSON(&f))
		if f.Type == typ {
			return f
		}
	}
}

func dialSession(t *testing.T) *websocket.Conn {
	srv := httptest.NewServer(setupIntegrationStack(t))
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/session"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestAPI_Integration_Session(t *testing.T) {
	conn := dialSession(t)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "query", "text": "dub"}))
	f := readUntil(t, conn, "candidates")
	require.Len(t, f.Candidates, 1)
	assert.Equal(t, "Dublin, Ireland", f.Candidates[0].Label)
	assert.Equal(t, -1, f.Cursor)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "key", "key": "ArrowDown"}))
	f = readUntil(t, conn, "candidates")
	assert.Equal(t, 0, f.Cursor)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "key", "key": "Enter"}))
	f = readUntil(t, conn, "weather")
	assert.Equal(t, "Dublin", f.Weather.Place)
	f = readUntil(t, conn, "busy")
	assert.False(t, f.Busy)
}

func TestAPI_Integration_SessionGeolocation(t *testing.T) {
	conn := dialSession(t)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "locate", "error": "denied"}))
	f := readUntil(t, conn, "notice")
	assert.Equal(t, "geolocation_denied", f.Notice.Kind)

	// No default position is configured
	require.NoError(t, conn.WriteJSON(map[string]any{"type": "locate"}))
	f = readUntil(t, conn, "notice")
	assert.Equal(t, "geolocation_unsupported", f.Notice.Kind)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "locate", "lat": 53.35, "lon": -6.26}))
	f = readUntil(t, conn, "weather")
	assert.Equal(t, "Dublin", f.Weather.Place)
}

func TestAPI_Integration_SessionRejectsUnknownIntent(t *testing.T) {
	conn := dialSession(t)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "teleport"}))
	f := readUntil(t, conn, "error")
	assert.Contains(t, f.Error, "teleport")

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "click", "index": 4}))
	f = readUntil(t, conn, "error")
	assert.Contains(t, f.Error, "no candidate")

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "key", "key": "PageDown"}))
	f = readUntil(t, conn, "error")
	assert.Equal(t, "unknown key: PageDown", f.Error)
}

func TestAPI_Integration_SessionClickRequiresIndex(t *testing.T) {
	conn := dialSession(t)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "query", "text": "dub"}))
	f := readUntil(t, conn, "candidates")
	require.Len(t, f.Candidates, 1)

	// Without an index nothing is committed
	require.NoError(t, conn.WriteJSON(map[string]any{"type": "click"}))
	f = readUntil(t, conn, "error")
	assert.Equal(t, "click intent requires an index", f.Error)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "hover"}))
	f = readUntil(t, conn, "error")
	assert.Equal(t, "hover intent requires an index", f.Error)

	// An explicit zero is still a valid position
	require.NoError(t, conn.WriteJSON(map[string]any{"type": "click", "index": 0}))
	f = readUntil(t, conn, "weather")
	assert.Equal(t, "Dublin", f.Weather.Place)
}
