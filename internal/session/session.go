package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/alexivanou/geocity-weather/internal/geolocate"
	"github.com/alexivanou/geocity-weather/internal/metrics"
	"github.com/alexivanou/geocity-weather/internal/model"
	"github.com/alexivanou/geocity-weather/internal/suggest"
	"github.com/alexivanou/geocity-weather/internal/weather"
	"go.uber.org/zap"
)

// Key is a navigation key forwarded from the display surface
type Key string

const (
	KeyDown   Key = "ArrowDown"
	KeyUp     Key = "ArrowUp"
	KeyEnter  Key = "Enter"
	KeyEscape Key = "Escape"
)

// Valid reports whether k is one of the navigation keys
func (k Key) Valid() bool {
	switch k {
	case KeyDown, KeyUp, KeyEnter, KeyEscape:
		return true
	}
	return false
}

const (
	msgGeoUnsupported = "Geolocation is not supported by this environment."
	msgGeoDenied      = "Could not get your location. Please allow location access or try again."
	msgLocationFetch  = "Unable to fetch weather for your location."
)

// ErrNoCandidate is returned when a click names a position outside the list
var ErrNoCandidate = errors.New("no candidate at index")

// Suggester produces candidate lists
type Suggester interface {
	GetSuggestions(ctx context.Context, query string) []model.Candidate
}

// Resolver fetches weather for a committed resolution
type Resolver interface {
	Resolve(ctx context.Context, res model.Resolution) (model.WeatherRecord, error)
}

// State is a snapshot of the interaction state
type State struct {
	Query      string
	Candidates []model.Candidate
	Cursor     int
	Record     *model.WeatherRecord
	Busy       bool
}

// Session holds one user's interaction state. Intents may be delivered from
// several goroutines; lookups run outside the lock and their results are
// applied only if no newer lookup of the same kind was issued meanwhile.
type Session struct {
	suggester Suggester
	resolver  Resolver
	display   Display
	logger    *zap.Logger

	mu         sync.Mutex
	query      string
	cursor     *suggest.Cursor
	record     *model.WeatherRecord
	busy       bool
	suggestSeq uint64
	weatherSeq uint64
}

// New creates a session rendering to display
func New(suggester Suggester, resolver Resolver, display Display, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		suggester: suggester,
		resolver:  resolver,
		display:   display,
		logger:    logger,
		cursor:    suggest.NewCursor(),
	}
}

// State returns a snapshot
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		Query:      s.query,
		Candidates: append([]model.Candidate(nil), s.cursor.Candidates()...),
		Cursor:     s.cursor.Index(),
		Busy:       s.busy,
	}
	if s.record != nil {
		rec := *s.record
		st.Record = &rec
	}
	return st
}

// Pending is the blocking remainder of an intent. The state change and
// sequence number of the intent are claimed before it is returned, so
// continuations may run on any goroutine in any order.
type Pending func(ctx context.Context)

func noop(context.Context) {}

// QueryChanged records the new query text and installs its suggestions.
// It reports whether the result was applied (false if superseded).
func (s *Session) QueryChanged(ctx context.Context, text string) bool {
	return s.PrepareQuery(text)(ctx)
}

// PrepareQuery records text and claims a suggestion sequence number. The
// returned function performs the lookup and reports whether it was applied.
func (s *Session) PrepareQuery(text string) func(ctx context.Context) bool {
	s.mu.Lock()
	s.query = text
	s.suggestSeq++
	seq := s.suggestSeq
	s.mu.Unlock()

	return func(ctx context.Context) bool {
		candidates := s.suggester.GetSuggestions(ctx, text)

		s.mu.Lock()
		defer s.mu.Unlock()
		if seq != s.suggestSeq {
			metrics.StaleResults.WithLabelValues("suggest").Inc()
			s.logger.Debug("Discarding stale suggestions", zap.String("query", text))
			return false
		}
		s.installLocked(candidates)
		return true
	}
}

// KeyPressed applies a navigation key. Enter commits and fetches weather.
func (s *Session) KeyPressed(ctx context.Context, key Key) {
	s.PrepareKey(key)(ctx)
}

// PrepareKey applies key to the selection state. Only Enter leaves work
// pending.
func (s *Session) PrepareKey(key Key) Pending {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch key {
	case KeyDown:
		s.cursor.MoveDown()
		s.display.ShowCandidates(s.cursor.Candidates(), s.cursor.Index())
	case KeyUp:
		s.cursor.MoveUp()
		s.display.ShowCandidates(s.cursor.Candidates(), s.cursor.Index())
	case KeyEscape:
		s.suggestSeq++
		s.installLocked(nil)
	case KeyEnter:
		label, res, ok := s.cursor.Commit(s.query)
		if !ok {
			return noop
		}
		return s.commitLocked(label, res)
	}
	return noop
}

// CandidateHovered highlights a candidate without committing it
func (s *Session) CandidateHovered(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursor.Highlight(index) {
		s.display.ShowCandidates(s.cursor.Candidates(), s.cursor.Index())
	}
}

// CandidateClicked commits the candidate at index and fetches its weather
func (s *Session) CandidateClicked(ctx context.Context, index int) error {
	pending, err := s.PrepareClick(index)
	if err != nil {
		return err
	}
	pending(ctx)
	return nil
}

// PrepareClick commits the candidate at index and returns its weather fetch
func (s *Session) PrepareClick(index int) (Pending, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.cursor.Highlight(index) {
		return nil, fmt.Errorf("%w %d", ErrNoCandidate, index)
	}
	label, res, _ := s.cursor.Commit(s.query)
	return s.commitLocked(label, res), nil
}

// UseLocation asks loc for a position and fetches weather for it. Geolocation
// failures are surfaced as notices and no fetch is made.
func (s *Session) UseLocation(ctx context.Context, loc geolocate.Locator) {
	s.PrepareLocation(loc)(ctx)
}

// PrepareLocation claims a weather sequence number for a geolocated fetch
func (s *Session) PrepareLocation(loc geolocate.Locator) Pending {
	s.mu.Lock()
	seq := s.beginWeatherLocked()
	s.mu.Unlock()

	return func(ctx context.Context) {
		pos, err := loc.Locate(ctx)
		if err != nil {
			notice := Notice{Kind: NoticeGeolocationDenied, Message: msgGeoDenied}
			if errors.Is(err, geolocate.ErrUnsupported) {
				notice = Notice{Kind: NoticeGeolocationUnsupported, Message: msgGeoUnsupported}
			}
			s.logger.Info("Geolocation failed", zap.Error(err))

			s.mu.Lock()
			defer s.mu.Unlock()
			if s.isLatestLocked(seq) {
				s.display.ShowNotice(notice)
				s.clearBusyLocked()
			}
			return
		}

		s.fetch(ctx, seq, "", model.ByCoordinates(pos.Lat, pos.Lon))
	}
}

func (s *Session) fetch(ctx context.Context, seq uint64, label string, res model.Resolution) {
	record, err := s.resolver.Resolve(ctx, res)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isLatestLocked(seq) {
		return
	}
	defer s.clearBusyLocked()
	if err != nil {
		// The previous record stays on display
		s.display.ShowNotice(weatherNotice(label, err))
		return
	}
	s.record = &record
	s.display.ShowWeather(record)
}

// commitLocked replaces the query with the committed label, drops the
// candidate list and any lookup still in flight, and claims a weather fetch.
func (s *Session) commitLocked(label string, res model.Resolution) Pending {
	s.query = label
	s.suggestSeq++
	s.installLocked(nil)
	seq := s.beginWeatherLocked()
	return func(ctx context.Context) {
		s.fetch(ctx, seq, label, res)
	}
}

func (s *Session) installLocked(candidates []model.Candidate) {
	s.cursor.Install(candidates)
	s.display.ShowCandidates(candidates, s.cursor.Index())
}

func (s *Session) beginWeatherLocked() uint64 {
	s.weatherSeq++
	if !s.busy {
		s.busy = true
		s.display.ShowBusy(true)
	}
	return s.weatherSeq
}

// isLatestLocked reports whether seq is the latest weather fetch
func (s *Session) isLatestLocked(seq uint64) bool {
	if seq != s.weatherSeq {
		metrics.StaleResults.WithLabelValues("weather").Inc()
		return false
	}
	return true
}

func (s *Session) clearBusyLocked() {
	s.busy = false
	s.display.ShowBusy(false)
}

// weatherNotice words a fetch failure; an empty label means the user's own position
func weatherNotice(label string, err error) Notice {
	if label == "" {
		return Notice{Kind: NoticeWeatherFailure, Message: msgLocationFetch}
	}
	var rerr *weather.ResolutionError
	if errors.As(err, &rerr) && rerr.Status == http.StatusNotFound {
		return Notice{Kind: NoticeWeatherFailure, Message: fmt.Sprintf("City not found: %s.", label)}
	}
	return Notice{Kind: NoticeWeatherFailure, Message: fmt.Sprintf("Unable to fetch weather for %s.", label)}
}
