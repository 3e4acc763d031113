package app

import (
	"crypto/subtle"

	"github.com/dkeye/Webinar/internal/core"
)

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	KickMember
	DropFrame
)

type Policy interface {
	OnBackPressure(sid core.SessionID) BackpressureAction
}

// SimplePolicy disconnects any connection whose send queue is full. A
// client that missed roster events cannot recover its view anyway.
type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(core.SessionID) BackpressureAction {
	return KickMember
}

// AdminBootstrap decides who becomes admin at join time. Without it no
// participant could ever be promoted, since make-admin needs an admin.
type AdminBootstrap struct {
	// FirstJoiner promotes whoever joins an empty room.
	FirstJoiner bool
	// Key promotes a joiner presenting the same key. Empty disables it.
	Key string
}

func (b AdminBootstrap) Grants(roomEmpty bool, key string) bool {
	if b.FirstJoiner && roomEmpty {
		return true
	}
	if b.Key == "" || key == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(b.Key), []byte(key)) == 1
}
