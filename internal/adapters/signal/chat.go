package signal

import (
	"github.com/dkeye/Webinar/internal/core"
	"github.com/dkeye/Webinar/internal/protocol"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handleSendMessage(sid core.SessionID, p protocol.SendMessage) {
	if ctl.Limiter != nil && !ctl.Limiter.Allow(sid) {
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Msg("chat rate limit hit, message dropped")
		return
	}
	ctl.Orch.SendMessage(sid, p.Message, p.TargetID)
}
