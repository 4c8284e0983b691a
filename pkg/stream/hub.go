// Package stream publishes engine snapshots to websocket subscribers and
// forwards their control messages back to the engine actors.
package stream

import (
	"sync"

	"github.com/google/uuid"
	channerics "github.com/niceyeti/channerics/channels"
	"github.com/tochemey/goakt/v3/log"
)

// subscriberBuffer is how many frames a slow subscriber may lag before frames are dropped.
const subscriberBuffer = 8

// Frame is one snapshot as sent to clients.
type Frame struct {
	Engine   string `json:"engine"`
	Snapshot any    `json:"snapshot"`
}

// Source tags every snapshot read from snapshots with the engine name.
// The returned channel closes when done closes or snapshots is closed.
func Source[S any](done <-chan struct{}, engine string, snapshots <-chan S) <-chan Frame {
	return channerics.Convert(done, snapshots, func(s S) Frame {
		return Frame{Engine: engine, Snapshot: s}
	})
}

// Hub fans frames out to the subscribers of each engine.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[uuid.UUID]chan Frame
	logger      log.Logger
}

func NewHub(logger log.Logger) *Hub {
	return &Hub{
		subscribers: make(map[string]map[uuid.UUID]chan Frame),
		logger:      logger,
	}
}

// Subscribe registers a new subscriber for engine.
func (h *Hub) Subscribe(engine string) (uuid.UUID, <-chan Frame) {
	id := uuid.New()
	ch := make(chan Frame, subscriberBuffer)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subscribers[engine] == nil {
		h.subscribers[engine] = make(map[uuid.UUID]chan Frame)
	}
	h.subscribers[engine][id] = ch
	h.logger.Debugf("subscriber %s joined %s", id, engine)
	return id, ch
}

// Unsubscribe removes the subscriber and closes its channel. Unknown ids are ignored.
func (h *Hub) Unsubscribe(engine string, id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch, ok := h.subscribers[engine][id]
	if !ok {
		return
	}
	delete(h.subscribers[engine], id)
	close(ch)
	h.logger.Debugf("subscriber %s left %s", id, engine)
}

// Subscribers reports how many subscribers engine has.
func (h *Hub) Subscribers(engine string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[engine])
}

// Publish hands f to every subscriber of f.Engine without blocking and
// returns how many received it.
func (h *Hub) Publish(f Frame) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	delivered := 0
	for _, ch := range h.subscribers[f.Engine] {
		select {
		case ch <- f:
			delivered++
		default:
			// subscriber is behind, it gets the next frame instead
		}
	}
	return delivered
}

// Run publishes every frame of sources until done closes or all sources are drained.
func (h *Hub) Run(done <-chan struct{}, sources ...<-chan Frame) {
	for f := range channerics.Merge(done, sources...) {
		h.Publish(f)
	}
}
