package notify

import (
	"sync"

	"github.com/google/uuid"
)

// sessionBuffer bounds each session's pending messages. A full buffer drops
// the message: delivery to live sessions is at-most-once by design.
const sessionBuffer = 16

// Hub tracks connected live sessions per recipient and fans incoming bus
// messages out to them. Sends never block: slow consumers lose messages
// instead of stalling the forwarder.
type Hub struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]map[chan []byte]struct{}
	staff    map[chan []byte]struct{}
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{
		sessions: make(map[uuid.UUID]map[chan []byte]struct{}),
		staff:    make(map[chan []byte]struct{}),
	}
}

// Subscribe registers a session for userID; staff members additionally join
// the staff pool. The returned cancel func must be called when the session
// disconnects.
func (h *Hub) Subscribe(userID uuid.UUID, isStaff bool) (<-chan []byte, func()) {
	ch := make(chan []byte, sessionBuffer)

	h.mu.Lock()
	if h.sessions[userID] == nil {
		h.sessions[userID] = make(map[chan []byte]struct{})
	}
	h.sessions[userID][ch] = struct{}{}
	if isStaff {
		h.staff[ch] = struct{}{}
	}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		delete(h.sessions[userID], ch)
		if len(h.sessions[userID]) == 0 {
			delete(h.sessions, userID)
		}
		delete(h.staff, ch)
		h.mu.Unlock()
	}

	return ch, cancel
}

// PushToUser delivers payload to every connected session of userID.
func (h *Hub) PushToUser(userID uuid.UUID, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.sessions[userID] {
		select {
		case ch <- payload:
		default:
		}
	}
}

// PushToStaff delivers payload to every connected staff session.
func (h *Hub) PushToStaff(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.staff {
		select {
		case ch <- payload:
		default:
		}
	}
}

// SessionCount reports connected sessions, used by health reporting.
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, chans := range h.sessions {
		n += len(chans)
	}
	return n
}
