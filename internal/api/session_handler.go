package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/alexivanou/geocity-weather/internal/geolocate"
	"github.com/alexivanou/geocity-weather/internal/metrics"
	"github.com/alexivanou/geocity-weather/internal/model"
	"github.com/alexivanou/geocity-weather/internal/service"
	"github.com/alexivanou/geocity-weather/internal/session"
	"github.com/alexivanou/geocity-weather/internal/stats"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	sessionReadLimit   = 4096
	sessionIdleTimeout = 60 * time.Second
	sessionPingPeriod  = 25 * time.Second
	sessionWriteWait   = 5 * time.Second
	sessionSendBuffer  = 64
)

// Intent types accepted on the session socket
const (
	intentQuery  = "query"
	intentKey    = "key"
	intentClick  = "click"
	intentHover  = "hover"
	intentLocate = "locate"
)

// intent is one client message. Locate carries either a position or a
// geolocation error code ("denied", "unavailable", "timeout", "unsupported");
// with neither, the server's default position is used if one is configured.
type intent struct {
	Type  string   `json:"type"`
	Text  string   `json:"text,omitempty"`
	Key   string   `json:"key,omitempty"`
	Index *int     `json:"index,omitempty"`
	Lat   *float64 `json:"lat,omitempty"`
	Lon   *float64 `json:"lon,omitempty"`
	Error string   `json:"error,omitempty"`
}

// SessionOptions configures the interactive session endpoint
type SessionOptions struct {
	GeolocationTimeout time.Duration
	// DefaultLocation answers locate intents that carry no position. Nil
	// means such requests are reported as unsupported.
	DefaultLocation *model.Coordinate
}

// SessionHandler hosts one session.Session per WebSocket connection
type SessionHandler struct {
	service   service.ServiceInterface
	collector *stats.Collector
	opts      SessionOptions
	logger    *zap.Logger
	upgrader  websocket.Upgrader
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(svc service.ServiceInterface, collector *stats.Collector, opts SessionOptions, logger *zap.Logger) *SessionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionHandler{
		service:   svc,
		collector: collector,
		opts:      opts,
		logger:    logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},
	}
}

// ServeHTTP handles GET /api/v1/session
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("WebSocket upgrade failed", zap.Error(err))
		return
	}

	metrics.Sessions.Inc()
	if h.collector != nil {
		h.collector.SessionOpened()
	}
	defer func() {
		metrics.Sessions.Dec()
		if h.collector != nil {
			h.collector.SessionClosed()
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	display := newSocketDisplay(conn, cancel, h.logger)
	sess := session.New(h.service, h.service, display, h.logger)

	go display.writePump(ctx)

	var wg sync.WaitGroup
	h.readPump(ctx, conn, sess, display, &wg)

	cancel()
	wg.Wait()
	display.close()
}

func (h *SessionHandler) readPump(ctx context.Context, conn *websocket.Conn, sess *session.Session, display *socketDisplay, wg *sync.WaitGroup) {
	conn.SetReadLimit(sessionReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(sessionIdleTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(sessionIdleTimeout))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Debug("Session socket closed", zap.Error(err))
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(sessionIdleTimeout))

		var in intent
		if err := json.Unmarshal(data, &in); err != nil {
			display.sendError("malformed intent")
			continue
		}

		// Each intent claims its place in the session synchronously; only
		// the blocking remainder runs on its own goroutine.
		switch in.Type {
		case intentHover:
			if in.Index == nil {
				display.sendError("hover intent requires an index")
				continue
			}
			sess.CandidateHovered(*in.Index)
		case intentKey:
			key := session.Key(in.Key)
			if !key.Valid() {
				display.sendError("unknown key: " + in.Key)
				continue
			}
			h.async(ctx, wg, sess.PrepareKey(key))
		case intentQuery:
			lookup := sess.PrepareQuery(in.Text)
			h.async(ctx, wg, func(ctx context.Context) { lookup(ctx) })
		case intentClick:
			if in.Index == nil {
				display.sendError("click intent requires an index")
				continue
			}
			pending, err := sess.PrepareClick(*in.Index)
			if err != nil {
				display.sendError(err.Error())
				continue
			}
			h.async(ctx, wg, pending)
		case intentLocate:
			h.async(ctx, wg, sess.PrepareLocation(h.locator(in)))
		default:
			display.sendError("unknown intent type: " + in.Type)
		}
	}
}

// async runs the blocking part of an intent off the read loop so later
// intents can supersede it
func (h *SessionHandler) async(ctx context.Context, wg *sync.WaitGroup, pending session.Pending) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		pending(ctx)
	}()
}

func (h *SessionHandler) locator(in intent) geolocate.Locator {
	var loc geolocate.Locator
	switch {
	case in.Lat != nil && in.Lon != nil:
		loc = geolocate.Reported(&model.Coordinate{Lat: *in.Lat, Lon: *in.Lon}, "")
	case in.Error != "":
		loc = geolocate.Reported(nil, in.Error)
	case h.opts.DefaultLocation != nil:
		loc = geolocate.Fixed(*h.opts.DefaultLocation)
	default:
		loc = geolocate.Unsupported{}
	}
	return geolocate.WithTimeout(loc, h.opts.GeolocationTimeout)
}

// socketDisplay renders session updates as JSON frames. Frames are queued
// so that session callbacks never block on the network.
type socketDisplay struct {
	conn   *websocket.Conn
	cancel context.CancelFunc
	logger *zap.Logger

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

func newSocketDisplay(conn *websocket.Conn, cancel context.CancelFunc, logger *zap.Logger) *socketDisplay {
	return &socketDisplay{
		conn:   conn,
		cancel: cancel,
		logger: logger,
		send:   make(chan []byte, sessionSendBuffer),
	}
}

func (d *socketDisplay) ShowCandidates(candidates []model.Candidate, cursor int) {
	if candidates == nil {
		candidates = []model.Candidate{}
	}
	d.enqueue(struct {
		Type       string            `json:"type"`
		Candidates []model.Candidate `json:"candidates"`
		Cursor     int               `json:"cursor"`
	}{"candidates", candidates, cursor})
}

func (d *socketDisplay) ShowWeather(record model.WeatherRecord) {
	d.enqueue(struct {
		Type    string              `json:"type"`
		Weather model.WeatherRecord `json:"weather"`
	}{"weather", record})
}

func (d *socketDisplay) ShowNotice(notice session.Notice) {
	d.enqueue(struct {
		Type   string         `json:"type"`
		Notice session.Notice `json:"notice"`
	}{"notice", notice})
}

func (d *socketDisplay) ShowBusy(busy bool) {
	d.enqueue(struct {
		Type string `json:"type"`
		Busy bool   `json:"busy"`
	}{"busy", busy})
}

func (d *socketDisplay) sendError(msg string) {
	d.enqueue(struct {
		Type  string `json:"type"`
		Error string `json:"error"`
	}{"error", msg})
}

func (d *socketDisplay) enqueue(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		d.logger.Error("Failed to encode session frame", zap.Error(err))
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	select {
	case d.send <- b:
	default:
		// Slow client; drop it.
		d.logger.Warn("Session client too slow, closing")
		d.closed = true
		close(d.send)
		d.cancel()
		_ = d.conn.Close()
	}
}

func (d *socketDisplay) close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.closed {
		d.closed = true
		close(d.send)
	}
}

func (d *socketDisplay) writePump(ctx context.Context) {
	ticker := time.NewTicker(sessionPingPeriod)
	defer ticker.Stop()
	defer d.conn.Close()

	for {
		select {
		case msg, ok := <-d.send:
			if !ok {
				_ = d.conn.SetWriteDeadline(time.Now().Add(sessionWriteWait))
				_ = d.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			_ = d.conn.SetWriteDeadline(time.Now().Add(sessionWriteWait))
			if err := d.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				d.cancel()
				return
			}
		case <-ticker.C:
			_ = d.conn.SetWriteDeadline(time.Now().Add(sessionWriteWait))
			if err := d.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				d.cancel()
				return
			}
		case <-ctx.Done():
			// Flush whatever is already queued before closing
			for {
				select {
				case msg, ok := <-d.send:
					if !ok {
						return
					}
					_ = d.conn.SetWriteDeadline(time.Now().Add(sessionWriteWait))
					if err := d.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
						return
					}
				default:
					return
				}
			}
		}
	}
}
