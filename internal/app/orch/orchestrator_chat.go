package orch

import (
	"github.com/dkeye/Webinar/internal/core"
	"github.com/dkeye/Webinar/internal/domain"
	"github.com/dkeye/Webinar/internal/protocol"
)

// SendMessage routes chat. An empty target means the whole room, sender
// included. A DM reaches the target and is echoed to the sender with the
// recipient filled in. Anything undeliverable is dropped.
func (o *Orchestrator) SendMessage(sid core.SessionID, text string, target domain.ParticipantID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	sender, ok := o.registry.Participant(sid)
	if !ok {
		return
	}
	msg := protocol.ChatMessage{From: sender.ID, Username: sender.Username, Message: text}
	if target == "" {
		o.broadcast(protocol.TypeReceiveMessage, msg)
		return
	}

	tsid := core.SessionID(target)
	if _, ok := o.registry.Participant(tsid); !ok {
		return
	}
	msg.IsDM = true
	o.send(tsid, protocol.TypeReceiveMessage, msg)
	msg.To = target
	o.send(sid, protocol.TypeReceiveMessage, msg)
}
