package orch

import (
	"slices"
	"testing"

	"github.com/dkeye/Webinar/internal/app"
	"github.com/dkeye/Webinar/internal/domain"
	"github.com/dkeye/Webinar/internal/protocol"
)

func TestNonAdminActionsChangeNothing(t *testing.T) {
	o := newTestOrch(app.AdminBootstrap{Key: "k"})
	admin := join(t, o, "M", "10.0.0.1", "Mod", "k")
	user := join(t, o, "U", "10.0.0.2", "User", "")
	other := join(t, o, "O", "10.0.0.3", "Other", "")
	idle := connect(t, o, "I", "10.0.0.4")
	drain(admin, user, other)
	before := o.Roster()

	for _, caller := range []string{"U", "I", "ghost"} {
		sid := sidOf(caller)
		o.GrantAdmin(sid, "O")
		o.RequestMute(sid, "O")
		o.RemoveParticipant(sid, "O")
		o.BlockAddress(sid, "10.0.0.3")
	}

	none(t, admin, user, other, idle)
	if after := o.Roster(); !slices.Equal(before, after) {
		t.Fatalf("roster changed: %#v -> %#v", before, after)
	}
	if o.IsBlocked("10.0.0.3") {
		t.Fatal("block list changed")
	}
	if other.isClosed() {
		t.Fatal("target connection closed")
	}
}

func TestRequestMuteGoesToTargetOnly(t *testing.T) {
	o := newTestOrch(app.AdminBootstrap{FirstJoiner: true})
	admin := join(t, o, "M", "10.0.0.1", "Mod", "")
	target := join(t, o, "T", "10.0.0.2", "Tess", "")
	other := join(t, o, "O", "10.0.0.3", "Other", "")
	drain(admin, target, other)

	o.RequestMute("M", "T")
	env := only(t, target, protocol.TypeMuteRequest)
	if len(env.Data) != 0 {
		t.Fatalf("mute-request carries no data, got %s", env.Data)
	}
	none(t, admin, other)

	o.RequestMute("M", "missing")
	none(t, admin, target, other)
}

func TestGrantAdminUnknownTarget(t *testing.T) {
	o := newTestOrch(app.AdminBootstrap{FirstJoiner: true})
	admin := join(t, o, "M", "10.0.0.1", "Mod", "")
	drain(admin)

	o.GrantAdmin("M", "missing")
	none(t, admin)
}

func TestGrantedAdminCanModerate(t *testing.T) {
	o := newTestOrch(app.AdminBootstrap{FirstJoiner: true})
	admin := join(t, o, "M", "10.0.0.1", "Mod", "")
	user := join(t, o, "U", "10.0.0.2", "User", "")
	other := join(t, o, "O", "10.0.0.3", "Other", "")

	o.GrantAdmin("M", "U")
	drain(admin, user, other)

	o.RequestMute("U", "O")
	only(t, other, protocol.TypeMuteRequest)
}

func TestRemoveParticipantKeepsConnection(t *testing.T) {
	o := newTestOrch(app.AdminBootstrap{FirstJoiner: true})
	admin := join(t, o, "M", "10.0.0.1", "Mod", "")
	target := join(t, o, "T", "10.0.0.2", "Tess", "")
	other := join(t, o, "O", "10.0.0.3", "Other", "")
	drain(admin, target, other)

	o.RemoveParticipant("M", "T")
	only(t, target, protocol.TypeRedirectHome)
	for _, c := range []*recConn{admin, other} {
		if id := decode[string](t, only(t, c, protocol.TypeUserLeft)); id != "T" {
			t.Fatalf("expected user-left T, got %q", id)
		}
	}
	if target.isClosed() {
		t.Fatal("removal must not close the connection")
	}

	o.RemoveParticipant("M", "T")
	none(t, admin, target, other)

	if err := o.Join("T", "Tess again", ""); err != nil {
		t.Fatalf("rejoin after removal: %v", err)
	}
	if roster := o.Roster(); len(roster) != 3 || roster[2].Username != "Tess again" {
		t.Fatalf("unexpected roster %#v", roster)
	}
}

func TestBlockAddressEvictsEveryConnectionFromOrigin(t *testing.T) {
	o := newTestOrch(app.AdminBootstrap{FirstJoiner: true})
	admin := join(t, o, "M", "10.0.0.1", "Mod", "")
	b1 := join(t, o, "B1", "10.0.0.2", "Bob", "")
	b2 := join(t, o, "B2", "10.0.0.2", "Bob's tab", "")
	lurker := connect(t, o, "L", "10.0.0.2")
	other := join(t, o, "O", "10.0.0.3", "Other", "")
	drain(admin, b1, b2, other)

	o.BlockAddress("M", "10.0.0.2")

	for _, c := range []*recConn{b1, b2} {
		only(t, c, protocol.TypeRedirectHome)
		if !c.isClosed() {
			t.Fatal("blocked participant's connection must be closed")
		}
	}
	none(t, lurker)
	if !lurker.isClosed() {
		t.Fatal("unjoined connection from a blocked origin must be closed")
	}
	for _, c := range []*recConn{admin, other} {
		got := c.take()
		var left []string
		for _, env := range got {
			if env.Type != protocol.TypeUserLeft {
				t.Fatalf("unexpected event %s", env.Type)
			}
			left = append(left, decode[string](t, env))
		}
		slices.Sort(left)
		if !slices.Equal(left, []string{"B1", "B2"}) {
			t.Fatalf("expected departures of B1 and B2, got %v", left)
		}
	}
	if roster := o.Roster(); len(roster) != 2 {
		t.Fatalf("unexpected roster %#v", roster)
	}

	// Idempotent, and the closed connections are already gone.
	o.BlockAddress("M", "10.0.0.2")
	none(t, admin, other)
	o.OnDisconnect("B1")
	none(t, admin, other)

	if err := o.Admit("B3", "10.0.0.2", &recConn{}, nil); err != ErrBlockedOrigin {
		t.Fatalf("expected ErrBlockedOrigin, got %v", err)
	}
}

func TestBlockAddressIgnoresBlank(t *testing.T) {
	o := newTestOrch(app.AdminBootstrap{FirstJoiner: true})
	admin := join(t, o, "M", "10.0.0.1", "Mod", "")
	drain(admin)

	o.BlockAddress("M", "  ")
	if o.IsBlocked("  ") {
		t.Fatal("blank address must not be blocked")
	}
	none(t, admin)
}

func TestAdminCanBlockOwnAddress(t *testing.T) {
	o := newTestOrch(app.AdminBootstrap{FirstJoiner: true})
	admin := join(t, o, "M", "10.0.0.1", "Mod", "")
	drain(admin)

	o.BlockAddress("M", domain.Address("10.0.0.1"))
	only(t, admin, protocol.TypeRedirectHome)
	if !admin.isClosed() {
		t.Fatal("admin's own connection must be closed")
	}
	if len(o.Roster()) != 0 {
		t.Fatal("room must be empty")
	}
}
