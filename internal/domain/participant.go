// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
	"strings"
)

var ErrUsernameEmpty = errors.New("username empty")

type (
	ParticipantID string
	// Address is the network origin of a connection, captured at accept time.
	Address string
)

type Participant struct {
	ID       ParticipantID `json:"id"`
	Username string        `json:"username"`
	IsAdmin  bool          `json:"isAdmin"`
	CameraOn bool          `json:"-"`
}

// NewParticipant keeps the username exactly as supplied; only a blank one
// is refused.
func NewParticipant(id ParticipantID, username string) (*Participant, error) {
	if strings.TrimSpace(username) == "" {
		return nil, ErrUsernameEmpty
	}
	return &Participant{ID: id, Username: username, CameraOn: true}, nil
}

// RosterEntry is the public view of a participant sent in user-list.
type RosterEntry struct {
	ID       ParticipantID `json:"id"`
	Username string        `json:"username"`
	IsAdmin  bool          `json:"isAdmin"`
}

func (p *Participant) Entry() RosterEntry {
	return RosterEntry{ID: p.ID, Username: p.Username, IsAdmin: p.IsAdmin}
}
