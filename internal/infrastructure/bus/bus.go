// Package bus is a small in-process topic bus. It replaces the ambient
// document-event dispatch of the web client with an explicit subscription
// interface the presentation layer can consume.
package bus

import (
	"sync"

	"github.com/jlsanzbreton/puebla-bot/internal/ports/output"
)

var _ output.Bus = (*Bus)(nil)

type subscriber struct {
	ch chan string
}

// Bus fans a topic signal out to its subscribers. Channels are buffered with
// size 1 and published to with a non-blocking send, so a slow subscriber
// coalesces bursts into a single pending signal instead of backing up the
// publisher.
type Bus struct {
	mu   sync.Mutex
	subs map[string][]*subscriber
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[string][]*subscriber)}
}

// Publish signals every subscriber of topic. Never blocks.
func (b *Bus) Publish(topic string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.subs[topic] {
		select {
		case s.ch <- topic:
		default:
		}
	}
}

// Subscribe registers a subscriber for topic. The returned func removes the
// subscription and closes the channel; it is safe to call more than once.
func (b *Bus) Subscribe(topic string) (<-chan string, func()) {
	s := &subscriber{ch: make(chan string, 1)}

	b.mu.Lock()
	b.subs[topic] = append(b.subs[topic], s)
	b.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			list := b.subs[topic]
			for i, cur := range list {
				if cur == s {
					b.subs[topic] = append(list[:i], list[i+1:]...)
					break
				}
			}
			close(s.ch)
		})
	}
	return s.ch, unsubscribe
}
