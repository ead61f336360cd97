package api

import (
	"github.com/alexivanou/geocity-weather/internal/metrics"
	"github.com/alexivanou/geocity-weather/internal/service"
	"github.com/alexivanou/geocity-weather/internal/stats"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// NewRouter creates a new HTTP router
func NewRouter(service service.ServiceInterface, statsCollector *stats.Collector, opts SessionOptions, logger *zap.Logger) *mux.Router {
	handler := NewHandler(service, logger)
	statsHandler := NewStatsHandler(statsCollector, logger)
	sessionHandler := NewSessionHandler(service, statsCollector, opts, logger)

	router := mux.NewRouter()

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")
	router.Handle("/metrics", metrics.Handler()).Methods("GET")

	// API v1
	v1 := router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/suggest", handler.SuggestCities).Methods("GET")
	v1.HandleFunc("/weather", handler.GetWeather).Methods("GET")
	v1.Handle("/session", sessionHandler).Methods("GET")
	v1.HandleFunc("/stats", statsHandler.GetStats).Methods("GET")

	return router
}
