package orch

import (
	"encoding/json"

	"github.com/dkeye/Webinar/internal/core"
	"github.com/dkeye/Webinar/internal/protocol"
	"github.com/rs/zerolog/log"
)

// Relay forwards an offer, answer or ICE candidate to another connection
// without looking at the payload. Unknown recipients are dropped.
func (o *Orchestrator) Relay(kind protocol.EventType, from, to core.SessionID, payload json.RawMessage) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.registry.GetSignal(from); !ok {
		return
	}
	if _, ok := o.registry.GetSignal(to); !ok {
		log.Debug().Str("module", "orch").Str("kind", string(kind)).Str("from", string(from)).Str("to", string(to)).Msg("relay target gone")
		return
	}
	o.send(to, kind, protocol.RelayedSignal{From: string(from), Payload: payload})
}
