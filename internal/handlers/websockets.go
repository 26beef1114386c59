package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"quote_server/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Feed timing and message size limits.
const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 5 * time.Second
	minInterval      = 500 * time.Millisecond
	maxInterval      = 60 * time.Second
	maxIntervalMilli = 60_000

	envelopeQuote = "quote"
	envelopeError = "error"
)

// wsEnvelope is the frame written to feed subscribers.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// @Summary      Random quote feed
// @Description  WebSocket stream that pushes a random quote every interval (?interval=5s or ?interval_ms=5000).
// @Tags         quotes
// @Param        interval     query  string  false  "Go duration between quotes"
// @Param        interval_ms  query  int     false  "Milliseconds between quotes"
// @Router       /ws/random [get]
func (h *Handler) wsRandomFeed(c *gin.Context) {
	interval := h.parseInterval(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go h.startReader(conn, done)

	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
	}()

	ctx := c.Request.Context()
	if err := h.sendRandomQuote(ctx, conn); err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "err", err)
		}
		return
	}

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case <-ticker.C:
			if err := h.sendRandomQuote(ctx, conn); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err)
				}
				return
			}
		}
	}
}

// parseInterval reads ?interval=2s or ?interval_ms=2000 within bounds.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d >= minInterval && d <= maxInterval {
			return d
		}
	}

	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v >= int(minInterval/time.Millisecond) && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}

	return defaultInterval
}

// startReader drains incoming frames to service control messages and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Debugw("ws_read_closed", "err", err)
			}
			return
		}
	}
}

// sendRandomQuote writes one random quote. An empty store is reported to
// the subscriber as an error frame and keeps the feed open; other store
// failures are sent the same way. Only write failures end the feed.
func (h *Handler) sendRandomQuote(ctx context.Context, conn *websocket.Conn) error {
	env := wsEnvelope{Type: envelopeQuote}
	q, err := h.services.PickRandom(ctx)
	switch {
	case err == nil:
		env.Data = q
	case errors.Is(err, service.ErrNotFound):
		env = wsEnvelope{Type: envelopeError, Error: errNoQuotes}
	default:
		if h.log != nil {
			h.log.Errorw("ws_random_quote_failed", "err", err)
		}
		env = wsEnvelope{Type: envelopeError, Error: errInternal}
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(env)
}
