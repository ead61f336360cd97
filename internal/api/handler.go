package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/alexivanou/geocity-weather/internal/model"
	"github.com/alexivanou/geocity-weather/internal/service"
	"github.com/alexivanou/geocity-weather/internal/weather"
	"go.uber.org/zap"
)

// Handler handles HTTP requests
type Handler struct {
	service service.ServiceInterface
	logger  *zap.Logger
}

// NewHandler creates a new handler instance
func NewHandler(service service.ServiceInterface, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, logger: logger}
}

// SuggestCities handles GET /api/v1/suggest. An empty query yields an empty list.
func (h *Handler) SuggestCities(w http.ResponseWriter, r *http.Request) {
	response := h.service.Suggest(r.Context(), r.URL.Query().Get("q"))
	h.writeJSON(w, http.StatusOK, response)
}

// GetWeather handles GET /api/v1/weather?city= or ?lat=&lon=
func (h *Handler) GetWeather(w http.ResponseWriter, r *http.Request) {
	res, err := resolutionFromQuery(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	record, err := h.service.Resolve(r.Context(), res)
	if err != nil {
		status, msg := weatherErrorStatus(err)
		if status >= http.StatusInternalServerError {
			h.logger.Warn("Weather lookup failed", zap.Stringer("resolution", res), zap.Error(err))
		}
		h.writeError(w, status, msg)
		return
	}

	h.writeJSON(w, http.StatusOK, record)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func resolutionFromQuery(r *http.Request) (model.Resolution, error) {
	q := r.URL.Query()
	if city := q.Get("city"); city != "" {
		return model.ByName(city), nil
	}

	latStr, lonStr := q.Get("lat"), q.Get("lon")
	if latStr == "" || lonStr == "" {
		return model.Resolution{}, errors.New("parameter 'city' or parameters 'lat' and 'lon' are required")
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return model.Resolution{}, errors.New("invalid lat parameter")
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return model.Resolution{}, errors.New("invalid lon parameter")
	}

	return model.ByCoordinates(lat, lon), nil
}

// weatherErrorStatus maps a lookup failure to an HTTP status and client message
func weatherErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrEmptyLookup), errors.Is(err, service.ErrInvalidCoordinates):
		return http.StatusBadRequest, err.Error()
	}

	var rerr *weather.ResolutionError
	if errors.As(err, &rerr) {
		if rerr.Status == http.StatusNotFound {
			return http.StatusNotFound, "place not found: " + rerr.Query
		}
		return http.StatusBadGateway, "weather provider failure"
	}
	return http.StatusInternalServerError, "internal server error"
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Error encoding response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}
