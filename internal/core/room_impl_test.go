package core_test

import (
	"errors"
	"testing"

	"github.com/dkeye/Webinar/internal/core"
	"github.com/dkeye/Webinar/internal/core/mocks"
	"github.com/dkeye/Webinar/internal/domain"
	"go.uber.org/mock/gomock"
)

func member(t *testing.T, id, name string, conn core.SignalConnection) core.MemberSession {
	t.Helper()
	p, err := domain.NewParticipant(domain.ParticipantID(id), name)
	if err != nil {
		t.Fatalf("new participant: %v", err)
	}
	return core.NewMemberSession(p, conn)
}

func TestRoomBroadcastSkipsAndReportsDropped(t *testing.T) {
	ctrl := gomock.NewController(t)
	a := mocks.NewMockSignalConnection(ctrl)
	b := mocks.NewMockSignalConnection(ctrl)
	c := mocks.NewMockSignalConnection(ctrl)

	frame := core.Frame(`{"type":"user-left","data":"a"}`)
	b.EXPECT().TrySend(frame).Return(nil)
	c.EXPECT().TrySend(frame).Return(errors.New("backpressure"))

	room := core.NewRoomService(&domain.Room{Name: domain.MainRoom})
	room.AddMember("a", member(t, "a", "Alice", a))
	room.AddMember("b", member(t, "b", "Bob", b))
	room.AddMember("c", member(t, "c", "Carol", c))

	res := room.Broadcast(frame, "a")
	if res.SendTo != 1 {
		t.Fatalf("expected 1 delivery, got %d", res.SendTo)
	}
	if len(res.Dropped) != 1 || res.Dropped[0] != "c" {
		t.Fatalf("expected c to be dropped, got %#v", res.Dropped)
	}
}

func TestRoomSnapshotKeepsJoinOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	room := core.NewRoomService(&domain.Room{Name: domain.MainRoom})
	for _, id := range []string{"z", "a", "m"} {
		room.AddMember(core.SessionID(id), member(t, id, "user-"+id, mocks.NewMockSignalConnection(ctrl)))
	}
	if !room.RemoveMember("a") {
		t.Fatal("expected a to be removed")
	}
	if room.RemoveMember("a") {
		t.Fatal("second removal must report false")
	}

	snap := room.MembersSnapshot()
	if len(snap) != 2 || snap[0].ID != "z" || snap[1].ID != "m" {
		t.Fatalf("unexpected snapshot order: %#v", snap)
	}
	if room.MemberCount() != 2 {
		t.Fatalf("expected 2 members, got %d", room.MemberCount())
	}
}
