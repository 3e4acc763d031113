package signal

import (
	"github.com/dkeye/Webinar/internal/core"
	"github.com/dkeye/Webinar/internal/protocol"
	"github.com/rs/zerolog/log"
)

// handleRelay passes offers, answers and candidates through untouched; the
// browsers build the peer connection between themselves.
func (ctl *SignalWSController) handleRelay(sid core.SessionID, r protocol.Relay) {
	log.Debug().
		Str("module", "signal").
		Str("kind", string(r.Kind())).
		Str("from", string(sid)).
		Str("to", r.To).
		Int("bytes", len(r.Payload)).
		Msg("relay")
	ctl.Orch.Relay(r.Kind(), sid, core.SessionID(r.To), r.Payload)
}
