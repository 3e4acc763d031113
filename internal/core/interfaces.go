package core

import "github.com/dkeye/Webinar/internal/domain"

// Frame is a raw encoded event ready for the wire.
type Frame []byte

// SessionID identifies one live connection for the lifetime of the process.
type SessionID string

func (s SessionID) Participant() domain.ParticipantID { return domain.ParticipantID(s) }

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	// TrySend queues f without blocking.
	TrySend(f Frame) error
	Close()
}

// MemberSession binds domain.Participant and its transport endpoint.
// This is what a room stores and fans out to.
type MemberSession interface {
	Meta() *domain.Participant
	Signal() SignalConnection
}

// PublishResult reports delivery stats/backpressure to orchestrator.
type PublishResult struct {
	SendTo  int
	Dropped []SessionID
}

// RoomService is the core-facing API of a room.
// It owns the membership set but never touches transport resources.
type RoomService interface {
	MemberCount() int
	MembersSnapshot() []domain.RosterEntry

	AddMember(sid SessionID, ms MemberSession)
	RemoveMember(sid SessionID) bool
	// Broadcast delivers data to every member except the ones listed in skip.
	Broadcast(data Frame, skip ...SessionID) PublishResult
}
