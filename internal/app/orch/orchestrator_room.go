package orch

import (
	"errors"
	"fmt"

	"github.com/dkeye/Webinar/internal/core"
	"github.com/dkeye/Webinar/internal/domain"
	"github.com/dkeye/Webinar/internal/protocol"
	"github.com/rs/zerolog/log"
)

// JoinRejectedMessage is the error text sent for a blank username.
const JoinRejectedMessage = "Username required"

func (o *Orchestrator) Join(sid core.SessionID, username, adminKey string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	addr, ok := o.registry.AddrOf(sid)
	if !ok {
		return ErrUnknownConnection
	}
	if o.blocked.Contains(addr) {
		return ErrBlockedOrigin
	}
	p, err := domain.NewParticipant(sid.Participant(), username)
	if err != nil {
		if errors.Is(err, domain.ErrUsernameEmpty) {
			o.send(sid, protocol.TypeError, JoinRejectedMessage)
		}
		return fmt.Errorf("join: %w", err)
	}

	if prev, ok := o.leave(sid); ok {
		log.Info().Str("module", "orch").Str("sid", string(sid)).Str("prev", prev.Username).Msg("rejoin, previous participant left")
	}

	p.IsAdmin = o.admins.Grants(o.room.MemberCount() == 0, adminKey)
	sig, _ := o.registry.GetSignal(sid)
	o.registry.Attach(sid, p)
	o.room.AddMember(sid, core.NewMemberSession(p, sig))

	o.broadcast(protocol.TypeUserJoined, protocol.UserJoined{ID: p.ID, Username: p.Username}, sid)
	o.send(sid, protocol.TypeUserList, o.room.MembersSnapshot())
	o.broadcast(protocol.TypeAdminUpdate, protocol.AdminUpdate{ID: p.ID, IsAdmin: p.IsAdmin})
	o.observe()

	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("username", p.Username).Bool("admin", p.IsAdmin).Msg("joined")
	return nil
}

// SetCamera treats a disabled camera as leaving the room: clients rely on
// the user-left / redirect-home pair that follows.
func (o *Orchestrator) SetCamera(sid core.SessionID, on bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	p, ok := o.registry.Participant(sid)
	if !ok {
		return
	}
	p.CameraOn = on
	if on {
		return
	}
	o.leave(sid)
	o.send(sid, protocol.TypeRedirectHome, nil)
	o.observe()
	log.Info().Str("module", "orch").Str("sid", string(sid)).Msg("camera off, participant left")
}
