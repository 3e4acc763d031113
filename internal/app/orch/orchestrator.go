// Package orch is the session coordinator. Every operation runs to
// completion under one mutex that guards the registry, the room and the
// block list together, so no handler ever sees another one half done.
package orch

import (
	"context"
	"errors"
	"sync"

	"github.com/dkeye/Webinar/internal/app"
	"github.com/dkeye/Webinar/internal/core"
	"github.com/dkeye/Webinar/internal/domain"
	"github.com/dkeye/Webinar/internal/metrics"
	"github.com/dkeye/Webinar/internal/protocol"
	"github.com/rs/zerolog/log"
)

var (
	ErrBlockedOrigin     = errors.New("origin blocked")
	ErrUnknownConnection = errors.New("unknown connection")
)

type Orchestrator struct {
	mu       sync.Mutex
	registry *app.Registry
	room     core.RoomService
	blocked  *app.BlockList
	policy   app.Policy
	admins   app.AdminBootstrap
	metrics  *metrics.Metrics
}

func New(policy app.Policy, admins app.AdminBootstrap, m *metrics.Metrics) *Orchestrator {
	return &Orchestrator{
		registry: app.NewRegistry(),
		room:     core.NewRoomService(&domain.Room{Name: domain.MainRoom}),
		blocked:  app.NewBlockList(),
		policy:   policy,
		admins:   admins,
		metrics:  m,
	}
}

// Admit registers a freshly accepted connection unless its origin is
// blocked. A refused connection leaves no trace.
func (o *Orchestrator) Admit(sid core.SessionID, addr domain.Address, sig core.SignalConnection, cancel context.CancelFunc) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.blocked.Contains(addr) {
		o.metrics.Rejected()
		log.Info().Str("module", "orch").Str("sid", string(sid)).Str("addr", string(addr)).Msg("blocked origin refused")
		return ErrBlockedOrigin
	}
	o.registry.BindSignal(sid, addr, sig, cancel)
	o.observe()
	return nil
}

func (o *Orchestrator) IsBlocked(addr domain.Address) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.blocked.Contains(addr)
}

// OnDisconnect is called by the transport once the connection is gone.
func (o *Orchestrator) OnDisconnect(sid core.SessionID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.leave(sid)
	o.registry.Unbind(sid)
	o.observe()
}

func (o *Orchestrator) Roster() []domain.RosterEntry {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.room.MembersSnapshot()
}

// leave destroys the participant on sid, if any, and tells the rest of
// the room. The connection itself stays registered.
func (o *Orchestrator) leave(sid core.SessionID) (*domain.Participant, bool) {
	p, ok := o.registry.Detach(sid)
	if !ok {
		return nil, false
	}
	o.room.RemoveMember(sid)
	o.broadcast(protocol.TypeUserLeft, p.ID)
	return p, true
}

func (o *Orchestrator) send(sid core.SessionID, t protocol.EventType, data any) {
	sig, ok := o.registry.GetSignal(sid)
	if !ok {
		return
	}
	frame, err := protocol.Encode(t, data)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("encode event")
		return
	}
	if err := sig.TrySend(frame); err != nil {
		o.onDropped([]core.SessionID{sid})
	}
}

func (o *Orchestrator) broadcast(t protocol.EventType, data any, skip ...core.SessionID) {
	frame, err := protocol.Encode(t, data)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("encode event")
		return
	}
	res := o.room.Broadcast(frame, skip...)
	if len(res.Dropped) > 0 {
		o.onDropped(res.Dropped)
	}
}

// onDropped applies the backpressure policy. A kicked participant leaves
// the room at once; the transport unbinds the connection later. Frames for
// an already canceled connection are not counted again.
func (o *Orchestrator) onDropped(sids []core.SessionID) {
	for _, sid := range sids {
		if o.registry.Canceled(sid) {
			continue
		}
		o.metrics.Dropped(1)
		if o.policy == nil {
			continue
		}
		switch o.policy.OnBackPressure(sid) {
		case app.KickMember:
			log.Warn().Str("module", "orch").Str("sid", string(sid)).Msg("send queue full, kicking")
			o.registry.Cancel(sid)
			o.leave(sid)
			o.observe()
		case app.DropFrame, app.NoAction:
		}
	}
}

func (o *Orchestrator) observe() {
	o.metrics.Occupancy(o.registry.ConnectionCount(), o.registry.ParticipantCount(), o.blocked.Len())
}
