package events

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// subscriberBuffer bounds how far a subscriber can lag before events are
// dropped for it.
const subscriberBuffer = 16

type bus struct {
	mu          sync.RWMutex
	subscribers map[EventType][]chan []byte
}

// New creates an in-process Bus.
func New() Bus {
	return &bus{
		subscribers: make(map[EventType][]chan []byte),
	}
}

// Publish encodes the payload with MessagePack and fans it out to every
// subscriber of the topic. Sends are non-blocking: a full subscriber channel
// loses the event rather than stalling the publisher.
func (b *bus) Publish(topic EventType, data any) error {
	payload, err := msgpack.Marshal(data)
	if err != nil {
		log.Error("MessagePack marshal error", "error", err, "topic", topic)
		return err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subscribers[topic] {
		select {
		case ch <- payload:
		default:
			log.Warn("Dropping event for slow subscriber", "topic", topic)
		}
	}
	log.Debug("Published event", "topic", topic, "subscribers", len(b.subscribers[topic]))
	return nil
}

func (b *bus) Subscribe(topic EventType) <-chan []byte {
	ch := make(chan []byte, subscriberBuffer)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[topic] = append(b.subscribers[topic], ch)
	return ch
}

// Unsubscribe removes the subscription and closes its channel. Unsubscribing
// an unknown channel is a no-op.
func (b *bus) Unsubscribe(topic EventType, sub <-chan []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.subscribers[topic]
	for i, ch := range subs {
		if (<-chan []byte)(ch) == sub {
			b.subscribers[topic] = append(subs[:i], subs[i+1:]...)
			close(ch)
			return
		}
	}
}

// Decode unmarshals an event payload into the provided pointer.
func (b *bus) Decode(data []byte, returnValue any) error {
	if err := msgpack.Unmarshal(data, returnValue); err != nil {
		log.Error("MessagePack unmarshal error", "error", err)
		return err
	}
	return nil
}
