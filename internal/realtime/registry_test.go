package realtime

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePeer struct {
	id     uuid.UUID
	mu     sync.Mutex
	frames [][]byte
	closed bool
}

func newPeer(id uuid.UUID) *fakePeer {
	return &fakePeer{id: id}
}

func (p *fakePeer) UserID() uuid.UUID { return p.id }

func (p *fakePeer) Deliver(frame []byte) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false
	}
	p.frames = append(p.frames, frame)
	return true
}

func (p *fakePeer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
}

type received struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func (p *fakePeer) events(t *testing.T) []received {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]received, 0, len(p.frames))
	for _, f := range p.frames {
		var r received
		require.NoError(t, json.Unmarshal(f, &r))
		out = append(out, r)
	}
	return out
}

func (p *fakePeer) eventNames(t *testing.T) []string {
	var names []string
	for _, e := range p.events(t) {
		names = append(names, e.Event)
	}
	return names
}

func TestRegistryReplacesOlderConnection(t *testing.T) {
	r := NewRegistry()
	user := uuid.New()
	first, second := newPeer(user), newPeer(user)

	assert.Nil(t, r.Add(first))
	assert.Equal(t, Peer(first), r.Add(second))

	got, ok := r.Get(user)
	require.True(t, ok)
	assert.Same(t, second, got)
	assert.Equal(t, 1, r.Len())
}

func TestRegistryRemovesOnlyTheSameConnection(t *testing.T) {
	r := NewRegistry()
	user := uuid.New()
	first, second := newPeer(user), newPeer(user)
	r.Add(first)
	r.Add(second)

	assert.False(t, r.Remove(first), "stale connection must not evict the newer one")
	_, ok := r.Get(user)
	assert.True(t, ok)

	assert.True(t, r.Remove(second))
	_, ok = r.Get(user)
	assert.False(t, ok)
	assert.False(t, r.Remove(second))
}

func TestRegistryAddSamePeerTwice(t *testing.T) {
	r := NewRegistry()
	p := newPeer(uuid.New())
	r.Add(p)
	assert.Nil(t, r.Add(p))
	assert.Equal(t, 1, r.Len())
}
