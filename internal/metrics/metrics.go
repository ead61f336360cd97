package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SuggestionLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_lookup_suggestion_lookups_total",
			Help: "Suggestion lookups by source and outcome.",
		},
		[]string{"source", "outcome"},
	)

	WeatherFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_lookup_weather_fetches_total",
			Help: "Weather fetches by resolution kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)

	StaleResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_lookup_stale_results_total",
			Help: "Async results discarded because a newer request was issued.",
		},
		[]string{"operation"},
	)

	Sessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "weather_lookup_sessions_active",
			Help: "Open interactive sessions.",
		},
	)
)

func init() {
	prometheus.MustRegister(SuggestionLookups, WeatherFetches, StaleResults, Sessions)
}

// Handler exposes the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
