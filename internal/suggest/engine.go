package suggest

import (
	"context"
	"errors"
	"strings"

	"github.com/alexivanou/geocity-weather/internal/metrics"
	"github.com/alexivanou/geocity-weather/internal/model"
	"go.uber.org/zap"
)

// Engine turns free-text queries into candidate lists. It keeps no state;
// callers own the installed list and the selection cursor.
type Engine struct {
	source Source
	logger *zap.Logger
}

// NewEngine creates an engine over source
func NewEngine(source Source, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{source: source, logger: logger}
}

// Source returns the configured source
func (e *Engine) Source() Source { return e.source }

// GetSuggestions returns at most the source's limit of candidates for query.
// An empty or whitespace-only query returns nil without consulting the source.
// Source failures are logged and reported as an empty result.
func (e *Engine) GetSuggestions(ctx context.Context, query string) []model.Candidate {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil
	}

	candidates, err := e.source.Suggest(ctx, q)
	if err != nil {
		outcome := "error"
		if errors.Is(err, context.Canceled) {
			outcome = "canceled"
		} else {
			e.logger.Warn("Suggestion source failed",
				zap.String("source", e.source.Name()),
				zap.String("query", q),
				zap.Error(err),
			)
		}
		metrics.SuggestionLookups.WithLabelValues(e.source.Name(), outcome).Inc()
		return nil
	}

	if limit := e.source.Limit(); limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	metrics.SuggestionLookups.WithLabelValues(e.source.Name(), "ok").Inc()
	return candidates
}
