package services

import (
	"sync"
	"time"
)

// EventType discriminates notification events
type EventType string

const (
	// EventNewOrders fires once per poll tick that observed unseen orders
	EventNewOrders EventType = "new_orders"
	// EventTone is one tone of the alarm sequence
	EventTone EventType = "tone"
	// EventAlarmStopped marks the end of an alarm, automatic or manual
	EventAlarmStopped EventType = "alarm_stopped"
)

// Event is a single notification pushed to admin subscribers
type Event struct {
	Type      EventType `json:"type"`
	OrderIDs  []string  `json:"order_ids,omitempty"`
	Count     int       `json:"count,omitempty"`
	Frequency int       `json:"frequency,omitempty"`
	At        time.Time `json:"at"`
}

// Hub fans notification events out to SSE subscribers. Slow subscribers are
// skipped rather than blocking the poller.
type Hub struct {
	mu          sync.Mutex
	subscribers map[chan Event]struct{}
	closed      bool
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{subscribers: make(map[chan Event]struct{})}
}

// Subscribe registers a subscriber. The returned cancel function must be
// called to release the channel.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return ch, func() {}
	}
	h.subscribers[ch] = struct{}{}

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subscribers[ch]; ok {
			delete(h.subscribers, ch)
			close(ch)
		}
	}
	return ch, cancel
}

// Publish delivers an event to every subscriber that has buffer room
func (h *Hub) Publish(event Event) {
	if event.At.IsZero() {
		event.At = time.Now()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers {
		select {
		case ch <- event:
		default:
			// subscriber is not draining; drop instead of blocking the poller
		}
	}
}

// Close shuts the hub down and closes all subscriber channels
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.subscribers {
		delete(h.subscribers, ch)
		close(ch)
	}
}
