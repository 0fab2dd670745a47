// Package event implements the in-process refresh-signal bus.
// Services publish a signal after mutations; subscribers (caches, the
// notification panel poller) treat it as an invalidation hint only.
package event

import (
	"sync"
	"time"
)

// Signal is the broadcast payload: when and where a mutation happened.
type Signal struct {
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
}

// NewSignal stamps a signal for the given source.
func NewSignal(source string) Signal {
	return Signal{Timestamp: time.Now(), Source: source}
}

// Bus is a best-effort fan-out bus. Publish never blocks: a subscriber
// that has fallen behind misses the signal, which is acceptable for a
// level-triggered hint.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]chan Signal
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Signal)}
}

// Subscribe registers a subscriber and returns its channel plus an
// unsubscribe func. The channel is buffered so a prompt consumer never
// misses a signal.
func (b *Bus) Subscribe() (<-chan Signal, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan Signal, 8)
	b.subs[id] = ch

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if c, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(c)
		}
	}
}

// Publish delivers sig to every subscriber without blocking.
func (b *Bus) Publish(sig Signal) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs {
		select {
		case ch <- sig:
		default: // slow subscriber, drop
		}
	}
}
