package app

import (
	"context"
	"slices"

	"github.com/dkeye/Webinar/internal/core"
	"github.com/dkeye/Webinar/internal/domain"
	"github.com/rs/zerolog/log"
)

type connEntry struct {
	Addr        domain.Address
	Signal      core.SignalConnection
	Cancel      context.CancelFunc
	Participant *domain.Participant
	Canceled    bool
}

// Registry maps each live connection to at most one participant.
// It is not safe for concurrent use; the orchestrator owns it together with
// the room and the block list.
type Registry struct {
	conns map[core.SessionID]*connEntry
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[core.SessionID]*connEntry)}
}

func (r *Registry) BindSignal(sid core.SessionID, addr domain.Address, sig core.SignalConnection, cancel context.CancelFunc) {
	r.conns[sid] = &connEntry{Addr: addr, Signal: sig, Cancel: cancel}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("addr", string(addr)).Msg("bound signal")
}

// Unbind drops the connection and returns the participant it still carried.
func (r *Registry) Unbind(sid core.SessionID) (*domain.Participant, bool) {
	e, ok := r.conns[sid]
	if !ok {
		return nil, false
	}
	delete(r.conns, sid)
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("unbind session")
	return e.Participant, e.Participant != nil
}

func (r *Registry) GetSignal(sid core.SessionID) (core.SignalConnection, bool) {
	if e, ok := r.conns[sid]; ok {
		return e.Signal, true
	}
	return nil, false
}

func (r *Registry) AddrOf(sid core.SessionID) (domain.Address, bool) {
	if e, ok := r.conns[sid]; ok {
		return e.Addr, true
	}
	return "", false
}

func (r *Registry) Attach(sid core.SessionID, p *domain.Participant) bool {
	e, ok := r.conns[sid]
	if !ok {
		return false
	}
	e.Participant = p
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("username", p.Username).Msg("participant attached")
	return true
}

func (r *Registry) Detach(sid core.SessionID) (*domain.Participant, bool) {
	e, ok := r.conns[sid]
	if !ok || e.Participant == nil {
		return nil, false
	}
	p := e.Participant
	e.Participant = nil
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("participant detached")
	return p, true
}

func (r *Registry) Participant(sid core.SessionID) (*domain.Participant, bool) {
	e, ok := r.conns[sid]
	if !ok || e.Participant == nil {
		return nil, false
	}
	return e.Participant, true
}

// FromAddr lists every connection whose origin is addr, joined or not.
func (r *Registry) FromAddr(addr domain.Address) []core.SessionID {
	var out []core.SessionID
	for sid, e := range r.conns {
		if e.Addr == addr {
			out = append(out, sid)
		}
	}
	slices.Sort(out)
	return out
}

// Cancel stops the connection's pumps and closes its transport. It reports
// false for an unknown or already canceled connection.
func (r *Registry) Cancel(sid core.SessionID) bool {
	e, ok := r.conns[sid]
	if !ok || e.Canceled {
		return false
	}
	e.Canceled = true
	e.Signal.Close()
	if e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("canceled session")
	return true
}

// Canceled reports whether sid was canceled and is only waiting for its
// transport to unbind it.
func (r *Registry) Canceled(sid core.SessionID) bool {
	e, ok := r.conns[sid]
	return ok && e.Canceled
}

func (r *Registry) ConnectionCount() int { return len(r.conns) }

func (r *Registry) ParticipantCount() int {
	n := 0
	for _, e := range r.conns {
		if e.Participant != nil {
			n++
		}
	}
	return n
}
