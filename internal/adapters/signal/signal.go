package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/dkeye/Webinar/internal/app/orch"
	"github.com/dkeye/Webinar/internal/core"
	"github.com/dkeye/Webinar/internal/domain"
	"github.com/dkeye/Webinar/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrClosed       = errors.New("connection closed")
)

type Options struct {
	ReadLimit  int64
	PingPeriod time.Duration
	PongWait   time.Duration
	WriteWait  time.Duration
	SendBuffer int
}

type SignalWSController struct {
	Orch    *orch.Orchestrator
	Limiter *RateLimiter
	Metrics *metrics.Metrics
	opts    Options
}

func NewSignalWSController(o *orch.Orchestrator, limiter *RateLimiter, m *metrics.Metrics, opts Options) *SignalWSController {
	return &SignalWSController{
		Orch:    o,
		Limiter: limiter,
		Metrics: m,
		opts:    opts,
	}
}

// WsSignalConn is the transport endpoint of one connection. Close only
// stops accepting frames; the write pump flushes what is queued and then
// closes the socket.
type WsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func newWsSignalConn(ws *websocket.Conn, buffer int) *WsSignalConn {
	return &WsSignalConn{conn: ws, send: make(chan core.Frame, buffer)}
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClosed
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleSignal is the connection gatekeeper: a blocked origin is refused
// before the upgrade and never sees a single event.
func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	addr := domain.Address(c.ClientIP())
	if ctl.Orch.IsBlocked(addr) {
		ctl.Metrics.Rejected()
		log.Info().Str("module", "signal").Str("addr", string(addr)).Msg("blocked origin refused before upgrade")
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	sid := core.SessionID(uuid.NewString())
	conn := newWsSignalConn(ws, ctl.opts.SendBuffer)
	ctx, cancel := context.WithCancel(ctx)

	// The block may have landed between the check above and now.
	if err := ctl.Orch.Admit(sid, addr, conn, cancel); err != nil {
		cancel()
		_ = ws.Close()
		return
	}
	context.AfterFunc(ctx, conn.Close)

	log.Info().
		Str("module", "signal").
		Str("sid", string(sid)).
		Str("addr", string(addr)).
		Str("client_token", c.GetString("client_token")).
		Msg("new WS connection")

	go ctl.writePump(conn)
	go ctl.readPump(ctx, sid, conn)
}
