package orch

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/dkeye/Webinar/internal/app"
	"github.com/dkeye/Webinar/internal/core"
	"github.com/dkeye/Webinar/internal/domain"
	"github.com/dkeye/Webinar/internal/protocol"
)

var errQueueFull = errors.New("queue full")

// recConn records every frame the orchestrator sends to one connection.
type recConn struct {
	mu     sync.Mutex
	frames []protocol.Envelope
	closed bool
	full   bool
}

func (c *recConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.full || c.closed {
		return errQueueFull
	}
	var env protocol.Envelope
	if err := json.Unmarshal(f, &env); err != nil {
		panic(err)
	}
	c.frames = append(c.frames, env)
	return nil
}

func (c *recConn) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *recConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// take returns and forgets everything received so far.
func (c *recConn) take() []protocol.Envelope {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.frames
	c.frames = nil
	return out
}

func newTestOrch(admins app.AdminBootstrap) *Orchestrator {
	return New(app.SimplePolicy{}, admins, nil)
}

func connect(t *testing.T, o *Orchestrator, sid core.SessionID, addr domain.Address) *recConn {
	t.Helper()
	c := &recConn{}
	if err := o.Admit(sid, addr, c, nil); err != nil {
		t.Fatalf("admit %s: %v", sid, err)
	}
	return c
}

func join(t *testing.T, o *Orchestrator, sid core.SessionID, addr domain.Address, name, key string) *recConn {
	t.Helper()
	c := connect(t, o, sid, addr)
	if err := o.Join(sid, name, key); err != nil {
		t.Fatalf("join %s: %v", name, err)
	}
	return c
}

func drain(conns ...*recConn) {
	for _, c := range conns {
		c.take()
	}
}

func types(envs []protocol.Envelope) []protocol.EventType {
	out := make([]protocol.EventType, 0, len(envs))
	for _, e := range envs {
		out = append(out, e.Type)
	}
	return out
}

func decode[T any](t *testing.T, env protocol.Envelope) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(env.Data, &v); err != nil {
		t.Fatalf("decode %s: %v", env.Type, err)
	}
	return v
}

func only(t *testing.T, c *recConn, want protocol.EventType) protocol.Envelope {
	t.Helper()
	got := c.take()
	if len(got) != 1 || got[0].Type != want {
		t.Fatalf("expected exactly one %s, got %v", want, types(got))
	}
	return got[0]
}

func none(t *testing.T, conns ...*recConn) {
	t.Helper()
	for i, c := range conns {
		if got := c.take(); len(got) != 0 {
			t.Fatalf("conn #%d: expected no events, got %v", i, types(got))
		}
	}
}
