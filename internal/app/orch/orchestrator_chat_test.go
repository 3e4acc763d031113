package orch

import (
	"testing"

	"github.com/dkeye/Webinar/internal/app"
	"github.com/dkeye/Webinar/internal/protocol"
)

func TestDirectMessageReachesOnlyTargetAndEchoes(t *testing.T) {
	o := newTestOrch(app.AdminBootstrap{})
	s := join(t, o, "S", "10.0.0.1", "Sam", "")
	tg := join(t, o, "T", "10.0.0.2", "Tess", "")
	third := join(t, o, "X", "10.0.0.3", "Xena", "")
	drain(s, tg, third)

	o.SendMessage("S", "psst", "T")

	msg := decode[protocol.ChatMessage](t, only(t, tg, protocol.TypeReceiveMessage))
	if msg != (protocol.ChatMessage{From: "S", Username: "Sam", Message: "psst", IsDM: true}) {
		t.Fatalf("unexpected DM for target %#v", msg)
	}
	echo := decode[protocol.ChatMessage](t, only(t, s, protocol.TypeReceiveMessage))
	if echo != (protocol.ChatMessage{From: "S", Username: "Sam", Message: "psst", IsDM: true, To: "T"}) {
		t.Fatalf("unexpected echo for sender %#v", echo)
	}
	none(t, third)
}

func TestDirectMessageToUnknownTargetIsDropped(t *testing.T) {
	o := newTestOrch(app.AdminBootstrap{})
	s := join(t, o, "S", "10.0.0.1", "Sam", "")
	idle := connect(t, o, "I", "10.0.0.2")
	drain(s)

	o.SendMessage("S", "psst", "nobody")
	// A connection without a participant is not a valid target either.
	o.SendMessage("S", "psst", "I")
	none(t, s, idle)
}

func TestGroupMessageReachesEveryoneIncludingSender(t *testing.T) {
	o := newTestOrch(app.AdminBootstrap{})
	s := join(t, o, "S", "10.0.0.1", "Sam", "")
	a := join(t, o, "A", "10.0.0.2", "Ann", "")
	idle := connect(t, o, "I", "10.0.0.3")
	drain(s, a)

	o.SendMessage("S", "hello all", "")
	for _, c := range []*recConn{s, a} {
		msg := decode[protocol.ChatMessage](t, only(t, c, protocol.TypeReceiveMessage))
		if msg != (protocol.ChatMessage{From: "S", Username: "Sam", Message: "hello all"}) {
			t.Fatalf("unexpected group message %#v", msg)
		}
	}
	none(t, idle)
}

func TestMessageFromNonParticipantIsDropped(t *testing.T) {
	o := newTestOrch(app.AdminBootstrap{})
	a := join(t, o, "A", "10.0.0.1", "Ann", "")
	connect(t, o, "I", "10.0.0.2")
	drain(a)

	o.SendMessage("I", "hi", "")
	o.SendMessage("I", "hi", "A")
	o.SendMessage("ghost", "hi", "")
	none(t, a)
}
