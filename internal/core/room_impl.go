package core

import (
	"slices"

	"github.com/dkeye/Webinar/internal/domain"
	"github.com/rs/zerolog/log"
)

// roomImpl is an in-memory room that keeps members in join order.
// It is not safe for concurrent use: the orchestrator serializes access.
// It never closes adapter-owned resources.
type roomImpl struct {
	room  *domain.Room
	order []SessionID
	bySID map[SessionID]MemberSession
}

func NewRoomService(room *domain.Room) RoomService {
	return &roomImpl{
		room:  room,
		bySID: make(map[SessionID]MemberSession),
	}
}

func (r *roomImpl) MemberCount() int { return len(r.bySID) }

func (r *roomImpl) AddMember(sid SessionID, ms MemberSession) {
	if _, ok := r.bySID[sid]; !ok {
		r.order = append(r.order, sid)
	}
	r.bySID[sid] = ms
	log.Info().Str("module", "core.room").Str("room", string(r.room.Name)).Str("sid", string(sid)).Str("username", ms.Meta().Username).Msg("member added")
}

func (r *roomImpl) RemoveMember(sid SessionID) bool {
	if _, ok := r.bySID[sid]; !ok {
		return false
	}
	delete(r.bySID, sid)
	r.order = slices.DeleteFunc(r.order, func(s SessionID) bool { return s == sid })
	log.Info().Str("module", "core.room").Str("room", string(r.room.Name)).Str("sid", string(sid)).Msg("member removed")
	return true
}

func (r *roomImpl) Broadcast(data Frame, skip ...SessionID) PublishResult {
	res := PublishResult{}
	for _, sid := range r.order {
		if slices.Contains(skip, sid) {
			continue
		}
		if err := r.bySID[sid].Signal().TrySend(data); err != nil {
			res.Dropped = append(res.Dropped, sid)
			continue
		}
		res.SendTo++
	}
	log.Debug().Str("module", "core.room").Int("sent_to", res.SendTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}

func (r *roomImpl) MembersSnapshot() []domain.RosterEntry {
	out := make([]domain.RosterEntry, 0, len(r.order))
	for _, sid := range r.order {
		out = append(out, r.bySID[sid].Meta().Entry())
	}
	return out
}
