package app

import "github.com/dkeye/Webinar/internal/domain"

// BlockList is the set of denied origin addresses. Entries live for the
// whole process; there is no unblock.
type BlockList struct {
	set map[domain.Address]struct{}
}

func NewBlockList() *BlockList {
	return &BlockList{set: make(map[domain.Address]struct{})}
}

// Add reports whether addr was newly added.
func (b *BlockList) Add(addr domain.Address) bool {
	if _, ok := b.set[addr]; ok {
		return false
	}
	b.set[addr] = struct{}{}
	return true
}

func (b *BlockList) Contains(addr domain.Address) bool {
	_, ok := b.set[addr]
	return ok
}

func (b *BlockList) Len() int { return len(b.set) }
