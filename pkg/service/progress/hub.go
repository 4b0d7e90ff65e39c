package progress

import (
	"sync"
	"time"

	"github.com/readylab-io/waypoint/pkg/domain/types"
)

// Event is one training progress snapshot for a session.
type Event struct {
	SessionID types.SessionID `json:"session_id"`
	Tool      types.ToolID    `json:"tool"`
	State     string          `json:"state"`
	Progress  float64         `json:"progress"`
	Message   string          `json:"message,omitempty"`
	At        time.Time       `json:"at"`
}

// Watched is a session whose training status should be polled.
type Watched struct {
	SessionID types.SessionID
	Tool      types.ToolID
}

// Hub fans training progress events out to subscribers and tracks which
// sessions currently have a training run in flight. It is purely in-process;
// a multi-instance deployment would need an external broker instead.
type Hub struct {
	mu       sync.RWMutex
	subs     map[types.SessionID]map[chan Event]struct{}
	watching map[types.SessionID]types.ToolID
}

func NewHub() *Hub {
	return &Hub{
		subs:     make(map[types.SessionID]map[chan Event]struct{}),
		watching: make(map[types.SessionID]types.ToolID),
	}
}

// Subscribe registers a listener for one session's events. The returned
// cancel function must be called when the listener goes away.
func (h *Hub) Subscribe(sessionID types.SessionID) (<-chan Event, func()) {
	ch := make(chan Event, 16)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[sessionID] == nil {
		h.subs[sessionID] = make(map[chan Event]struct{})
	}
	h.subs[sessionID][ch] = struct{}{}

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if set, ok := h.subs[sessionID]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(h.subs, sessionID)
			}
		}
	}

	return ch, cancel
}

// Publish delivers an event to all subscribers of the session. Slow
// subscribers with a full buffer miss the event rather than block the
// publisher.
func (h *Hub) Publish(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[ev.SessionID] {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Watch marks a session as having a training run in flight.
func (h *Hub) Watch(sessionID types.SessionID, tool types.ToolID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.watching[sessionID] = tool
}

// Unwatch removes a session from the polling set.
func (h *Hub) Unwatch(sessionID types.SessionID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.watching, sessionID)
}

// Watching returns a snapshot of the sessions to poll.
func (h *Hub) Watching() []Watched {
	h.mu.RLock()
	defer h.mu.RUnlock()

	watched := make([]Watched, 0, len(h.watching))
	for id, tool := range h.watching {
		watched = append(watched, Watched{SessionID: id, Tool: tool})
	}
	return watched
}
