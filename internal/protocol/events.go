// Package protocol defines the JSON events exchanged over the signaling
// WebSocket. Every frame is an Envelope; inbound frames decode into one of
// a fixed set of typed variants.
package protocol

import (
	"encoding/json"

	"github.com/dkeye/Webinar/internal/domain"
)

type EventType string

// Client to server.
const (
	TypeJoin         EventType = "join"
	TypeCameraStatus EventType = "camera-status"
	TypeSendMessage  EventType = "send-message"
	TypeMakeAdmin    EventType = "make-admin"
	TypeMuteUser     EventType = "mute-user"
	TypeRemoveUser   EventType = "remove-user"
	TypeBlockIP      EventType = "block-ip"
	TypeOffer        EventType = "offer"
	TypeAnswer       EventType = "answer"
	TypeICECandidate EventType = "ice-candidate"
	TypePing         EventType = "ping"
)

// Server to client. offer, answer and ice-candidate are reused for relayed
// negotiation messages.
const (
	TypeUserJoined     EventType = "user-joined"
	TypeUserList       EventType = "user-list"
	TypeAdminUpdate    EventType = "admin-update"
	TypeReceiveMessage EventType = "receive-message"
	TypeMuteRequest    EventType = "mute-request"
	TypeUserLeft       EventType = "user-left"
	TypeRedirectHome   EventType = "redirect-home"
	TypeError          EventType = "error"
	TypePong           EventType = "pong"
)

// Envelope is the frame exchanged over websocket.
type Envelope struct {
	Type EventType       `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Inbound is implemented by every decoded client event.
type Inbound interface {
	Kind() EventType
}

type Join struct {
	Username string `json:"username"`
	AdminKey string `json:"adminKey,omitempty"`
}

type CameraStatus struct {
	On bool
}

type SendMessage struct {
	Message  string               `json:"message"`
	TargetID domain.ParticipantID `json:"targetId,omitempty"`
}

type MakeAdmin struct {
	TargetID domain.ParticipantID `json:"targetId"`
}

type MuteUser struct {
	TargetID domain.ParticipantID `json:"targetId"`
}

type RemoveUser struct {
	TargetID domain.ParticipantID `json:"targetId"`
}

type BlockIP struct {
	IP domain.Address `json:"ip"`
}

// Relay carries an offer, answer or ICE candidate addressed to another
// connection. Payload is never inspected.
type Relay struct {
	Type    EventType       `json:"-"`
	To      string          `json:"to"`
	Payload json.RawMessage `json:"payload"`
}

type Ping struct{}

func (Join) Kind() EventType         { return TypeJoin }
func (CameraStatus) Kind() EventType { return TypeCameraStatus }
func (SendMessage) Kind() EventType  { return TypeSendMessage }
func (MakeAdmin) Kind() EventType    { return TypeMakeAdmin }
func (MuteUser) Kind() EventType     { return TypeMuteUser }
func (RemoveUser) Kind() EventType   { return TypeRemoveUser }
func (BlockIP) Kind() EventType      { return TypeBlockIP }
func (r Relay) Kind() EventType      { return r.Type }
func (Ping) Kind() EventType         { return TypePing }

// Outbound payloads.

type UserJoined struct {
	ID       domain.ParticipantID `json:"id"`
	Username string               `json:"username"`
}

type AdminUpdate struct {
	ID      domain.ParticipantID `json:"id"`
	IsAdmin bool                 `json:"isAdmin"`
}

// ChatMessage is the receive-message payload. To is only set on the echo
// a DM sender gets back.
type ChatMessage struct {
	From     domain.ParticipantID `json:"from"`
	Username string               `json:"username"`
	Message  string               `json:"message"`
	IsDM     bool                 `json:"isDM"`
	To       domain.ParticipantID `json:"to,omitempty"`
}

type RelayedSignal struct {
	From    string          `json:"from"`
	Payload json.RawMessage `json:"payload"`
}
