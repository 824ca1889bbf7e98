package realtime

import (
	"sync"

	"github.com/google/uuid"
)

// Peer is one live connection as seen by the hub.
type Peer interface {
	UserID() uuid.UUID
	// Deliver queues a frame without blocking. It reports false when the
	// peer is gone or its buffer is full.
	Deliver(frame []byte) bool
}

// Registry maps each user to their most recent connection.
type Registry struct {
	mu    sync.RWMutex
	peers map[uuid.UUID]Peer
}

func NewRegistry() *Registry {
	return &Registry{peers: make(map[uuid.UUID]Peer)}
}

// Add registers p, replacing any older connection for the same user. The
// replaced peer is returned so the caller can close it.
func (r *Registry) Add(p Peer) Peer {
	r.mu.Lock()
	defer r.mu.Unlock()
	old := r.peers[p.UserID()]
	r.peers[p.UserID()] = p
	if old == p {
		return nil
	}
	return old
}

// Remove drops p only if it is still the registered connection for its user.
func (r *Registry) Remove(p Peer) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.peers[p.UserID()]; ok && current == p {
		delete(r.peers, p.UserID())
		return true
	}
	return false
}

func (r *Registry) Get(userID uuid.UUID) (Peer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.peers[userID]
	return p, ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.peers)
}
