package signal

import (
	"errors"

	"github.com/dkeye/Webinar/internal/app/orch"
	"github.com/dkeye/Webinar/internal/core"
	"github.com/dkeye/Webinar/internal/domain"
	"github.com/dkeye/Webinar/internal/protocol"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handleJoin(sid core.SessionID, p protocol.Join) {
	err := ctl.Orch.Join(sid, p.Username, p.AdminKey)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrUsernameEmpty):
		log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("join rejected: empty username")
	case errors.Is(err, orch.ErrBlockedOrigin):
		log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("join refused: origin blocked")
	default:
		log.Error().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("join")
	}
}

func (ctl *SignalWSController) handleCamera(sid core.SessionID, p protocol.CameraStatus) {
	log.Debug().Str("module", "signal").Str("sid", string(sid)).Bool("on", p.On).Msg("camera status")
	ctl.Orch.SetCamera(sid, p.On)
}
