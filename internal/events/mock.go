package events

import (
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// MockBus is a mock implementation of Bus for testing. It records published
// events instead of delivering them.
type MockBus struct {
	mu sync.Mutex

	// Spies for method calls
	PublishFunc func(topic EventType, data any) error

	// Call records
	PublishCalls []PublishCall
}

// PublishCall holds the arguments for a call to Publish.
type PublishCall struct {
	Topic EventType
	Data  any
}

// NewMock creates a new mock Bus.
func NewMock() *MockBus {
	return &MockBus{}
}

// Reset clears all call records.
func (m *MockBus) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PublishCalls = nil
}

// TopicCalls returns the recorded calls for a single topic.
func (m *MockBus) TopicCalls(topic EventType) []PublishCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	var calls []PublishCall
	for _, call := range m.PublishCalls {
		if call.Topic == topic {
			calls = append(calls, call)
		}
	}
	return calls
}

func (m *MockBus) Publish(topic EventType, data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PublishCalls = append(m.PublishCalls, PublishCall{Topic: topic, Data: data})
	if m.PublishFunc != nil {
		return m.PublishFunc(topic, data)
	}
	return nil
}

func (m *MockBus) Subscribe(topic EventType) <-chan []byte {
	return make(chan []byte)
}

func (m *MockBus) Unsubscribe(topic EventType, sub <-chan []byte) {}

func (m *MockBus) Decode(data []byte, returnValue any) error {
	return msgpack.Unmarshal(data, returnValue)
}
