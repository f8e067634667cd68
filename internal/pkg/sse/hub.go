package sse

import (
	"sync"

	"github.com/google/uuid"
)

// Event is a live-update notification pushed to listing views of a company.
type Event struct {
	CompanyID string
	Event     string
	Data      interface{}
}

// Subscription is the handle a listing view holds while its live stream is
// open. A view keeps exactly one active subscription; remounting the view
// must Release the old handle before subscribing again, otherwise the old
// listener would keep draining events it no longer renders.
type Subscription struct {
	ID string
	C  chan Event

	release func()
	once    sync.Once
}

// Release detaches the subscription and closes its channel. Safe to call
// more than once.
func (s *Subscription) Release() {
	s.once.Do(s.release)
}

// Hub fans record-update events out to per-company subscribers.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[*Subscription]struct{}
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[*Subscription]struct{}),
	}
}

// Subscribe registers a listener for a company's record updates.
func (h *Hub) Subscribe(companyID string) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub := &Subscription{
		ID: uuid.NewString(),
		C:  make(chan Event, 16),
	}
	sub.release = func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subscribers[companyID], sub)
		close(sub.C)
		if len(h.subscribers[companyID]) == 0 {
			delete(h.subscribers, companyID)
		}
	}

	if h.subscribers[companyID] == nil {
		h.subscribers[companyID] = make(map[*Subscription]struct{})
	}
	h.subscribers[companyID][sub] = struct{}{}

	return sub
}

// Publish sends an event to every subscriber of a company.
func (h *Hub) Publish(companyID string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	event.CompanyID = companyID
	for sub := range h.subscribers[companyID] {
		select {
		case sub.C <- event:
		default:
			// Skip if channel is full (non-blocking to prevent deadlock)
		}
	}
}

// SubscriberCount returns the number of active subscribers for a company
func (h *Hub) SubscriberCount(companyID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[companyID])
}
