package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scorePayload struct {
	ScoreA int `msgpack:"score_a"`
	ScoreB int `msgpack:"score_b"`
}

func TestPublishSubscribe(t *testing.T) {
	bus := New()
	ch := bus.Subscribe(EventPointScored)

	err := bus.Publish(EventPointScored, scorePayload{ScoreA: 5, ScoreB: 3})
	require.NoError(t, err)

	select {
	case data := <-ch:
		var payload scorePayload
		require.NoError(t, bus.Decode(data, &payload))
		assert.Equal(t, 5, payload.ScoreA)
		assert.Equal(t, 3, payload.ScoreB)
	case <-time.After(time.Second):
		t.Fatal("expected an event on the subscription channel")
	}
}

func TestPublishWithoutSubscribersIsFine(t *testing.T) {
	bus := New()
	assert.NoError(t, bus.Publish(EventSetCompleted, scorePayload{}))
}

func TestPublishDoesNotReachOtherTopics(t *testing.T) {
	bus := New()
	ch := bus.Subscribe(EventMatchCompleted)

	require.NoError(t, bus.Publish(EventPointScored, scorePayload{ScoreA: 1}))

	select {
	case <-ch:
		t.Fatal("event leaked across topics")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnsubscribe(t *testing.T) {
	bus := New()
	ch := bus.Subscribe(EventPointScored)
	other := bus.Subscribe(EventPointScored)

	bus.Unsubscribe(EventPointScored, ch)

	_, open := <-ch
	assert.False(t, open, "an unsubscribed channel is closed")

	require.NoError(t, bus.Publish(EventPointScored, scorePayload{ScoreA: 2}))
	select {
	case data := <-other:
		var payload scorePayload
		require.NoError(t, bus.Decode(data, &payload))
		assert.Equal(t, 2, payload.ScoreA)
	case <-time.After(time.Second):
		t.Fatal("remaining subscriber should still receive events")
	}

	// Unknown channels are ignored.
	bus.Unsubscribe(EventPointScored, ch)
	bus.Unsubscribe(EventMatchCompleted, other)
}

func TestSlowSubscriberDoesNotBlockPublisher(t *testing.T) {
	bus := New()
	bus.Subscribe(EventPointScored) // never drained

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < subscriberBuffer*2; i++ {
			_ = bus.Publish(EventPointScored, scorePayload{ScoreA: i})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publisher blocked on a slow subscriber")
	}
}
