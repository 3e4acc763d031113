package orch

import (
	"strings"

	"github.com/dkeye/Webinar/internal/core"
	"github.com/dkeye/Webinar/internal/domain"
	"github.com/dkeye/Webinar/internal/protocol"
	"github.com/rs/zerolog/log"
)

// Privileged actions from a non-admin are ignored without any reply.

func (o *Orchestrator) isAdmin(sid core.SessionID, action string) bool {
	if p, ok := o.registry.Participant(sid); ok && p.IsAdmin {
		return true
	}
	log.Debug().Str("module", "orch").Str("sid", string(sid)).Str("action", action).Msg("unauthorized action ignored")
	return false
}

func (o *Orchestrator) GrantAdmin(caller core.SessionID, target domain.ParticipantID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.isAdmin(caller, "make-admin") {
		return
	}
	p, ok := o.registry.Participant(core.SessionID(target))
	if !ok {
		return
	}
	p.IsAdmin = true
	o.broadcast(protocol.TypeAdminUpdate, protocol.AdminUpdate{ID: p.ID, IsAdmin: true})
	log.Info().Str("module", "orch").Str("by", string(caller)).Str("target", string(target)).Msg("admin granted")
}

// RequestMute only carries the request; the target's media pipeline is
// trusted to act on it.
func (o *Orchestrator) RequestMute(caller core.SessionID, target domain.ParticipantID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.isAdmin(caller, "mute-user") {
		return
	}
	tsid := core.SessionID(target)
	if _, ok := o.registry.Participant(tsid); !ok {
		return
	}
	o.send(tsid, protocol.TypeMuteRequest, nil)
}

// RemoveParticipant sends the target home but keeps its connection open,
// so it may join again. user-left goes to every remaining member, the
// calling admin included, so its roster drops the target too.
func (o *Orchestrator) RemoveParticipant(caller core.SessionID, target domain.ParticipantID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.isAdmin(caller, "remove-user") {
		return
	}
	tsid := core.SessionID(target)
	if _, ok := o.leave(tsid); !ok {
		return
	}
	o.send(tsid, protocol.TypeRedirectHome, nil)
	o.observe()
	log.Info().Str("module", "orch").Str("by", string(caller)).Str("target", string(target)).Msg("participant removed")
}

// BlockAddress bans addr for the rest of the process lifetime and closes
// every connection coming from it, joined or not.
func (o *Orchestrator) BlockAddress(caller core.SessionID, addr domain.Address) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.isAdmin(caller, "block-ip") {
		return
	}
	if strings.TrimSpace(string(addr)) == "" {
		return
	}
	added := o.blocked.Add(addr)

	// Detach everyone first so evicted participants never hear about each
	// other leaving.
	var evicted []domain.ParticipantID
	for _, sid := range o.registry.FromAddr(addr) {
		if p, ok := o.registry.Detach(sid); ok {
			o.room.RemoveMember(sid)
			o.send(sid, protocol.TypeRedirectHome, nil)
			evicted = append(evicted, p.ID)
		}
		o.registry.Cancel(sid)
		o.registry.Unbind(sid)
	}
	for _, id := range evicted {
		o.broadcast(protocol.TypeUserLeft, id)
	}
	o.observe()
	log.Info().
		Str("module", "orch").
		Str("by", string(caller)).
		Str("addr", string(addr)).
		Bool("new", added).
		Int("evicted", len(evicted)).
		Msg("address blocked")
}
