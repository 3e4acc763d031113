package signal

import (
	"context"
	"time"

	"github.com/dkeye/Webinar/internal/app/orch"
	"github.com/dkeye/Webinar/internal/core"
	"github.com/dkeye/Webinar/internal/protocol"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) writePump(c *WsSignalConn) {
	ticker := time.NewTicker(ctl.opts.PingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.opts.WriteWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				log.Debug().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.opts.WriteWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Warn().Err(err).Str("module", "signal").Msg("writePump ping error")
				return
			}
		}
	}
}

func (ctl *SignalWSController) readPump(ctx context.Context, sid core.SessionID, c *WsSignalConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump closing")
		ctl.Orch.OnDisconnect(sid)
		ctl.Limiter.Forget(sid)
		c.Close()
	}()

	c.conn.SetReadLimit(ctl.opts.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(ctl.opts.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(ctl.opts.PongWait))
	})

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("readPump read error")
				}
				return
			}
			ctl.handleSignal(sid, c, data)
		}
	}
}

// handleSignal decodes one frame into its typed event and dispatches it.
// A malformed frame only ever affects its own connection.
func (ctl *SignalWSController) handleSignal(sid core.SessionID, c *WsSignalConn, data []byte) {
	in, typ, err := protocol.Decode(data)
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("bad frame")
		if typ == protocol.TypeJoin {
			ctl.sendEvent(c, protocol.TypeError, orch.JoinRejectedMessage)
		}
		return
	}
	ctl.Metrics.Event(string(in.Kind()))

	switch ev := in.(type) {
	case protocol.Join:
		ctl.handleJoin(sid, ev)
	case protocol.CameraStatus:
		ctl.handleCamera(sid, ev)
	case protocol.SendMessage:
		ctl.handleSendMessage(sid, ev)
	case protocol.MakeAdmin:
		ctl.Orch.GrantAdmin(sid, ev.TargetID)
	case protocol.MuteUser:
		ctl.Orch.RequestMute(sid, ev.TargetID)
	case protocol.RemoveUser:
		ctl.Orch.RemoveParticipant(sid, ev.TargetID)
	case protocol.BlockIP:
		ctl.Orch.BlockAddress(sid, ev.IP)
	case protocol.Relay:
		ctl.handleRelay(sid, ev)
	case protocol.Ping:
		ctl.handlePing(c)
	default:
		log.Warn().Str("module", "signal").Str("type", string(typ)).Msg("unhandled signal")
	}
}

func (ctl *SignalWSController) sendEvent(c *WsSignalConn, t protocol.EventType, data any) {
	b, err := protocol.Encode(t, data)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendEvent encode")
		return
	}
	_ = c.TrySend(b)
}
