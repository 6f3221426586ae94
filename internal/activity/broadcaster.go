package activity

import (
	"sync"
	"time"
)

// Event records one entity mutation for the live dashboard feed.
type Event struct {
	Horodatage time.Time `json:"horodatage"`
	Action     string    `json:"action"` // creation, modification, suppression, location, liberation
	Entite     string    `json:"entite"`
	EntiteID   string    `json:"entite_id"`
	Libelle    string    `json:"libelle"`
}

// Broadcaster fans events out to subscribed websocket clients. A slow
// subscriber drops events instead of blocking publishers.
type Broadcaster struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: map[chan Event]struct{}{}}
}

// Subscribe registers a new listener. The returned cancel func must be
// called when the client disconnects.
func (b *Broadcaster) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 32)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if _, exists := b.subs[ch]; exists {
			delete(b.subs, ch)
			close(ch)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers an event to every subscriber without blocking.
func (b *Broadcaster) Publish(event Event) {
	if event.Horodatage.IsZero() {
		event.Horodatage = time.Now()
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// SubscriberCount returns the number of connected listeners.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
