package events

// Bus is the notification channel between the match session and any
// observers (UI refresh, widgets, logging). Publishers never block on slow
// subscribers, and the state machine itself has no knowledge of the bus.
type Bus interface {
	Publish(topic EventType, data any) error
	Subscribe(topic EventType) <-chan []byte
	Unsubscribe(topic EventType, sub <-chan []byte)
	Decode(data []byte, returnValue any) error
}

// EventType represents the type of event published on the bus.
type EventType string

const (
	EventPointScored    EventType = "point-scored"
	EventPointUndone    EventType = "point-undone"
	EventSetCompleted   EventType = "set-completed"
	EventMatchCompleted EventType = "match-completed"
	EventMatchAbandoned EventType = "match-abandoned"
	EventRatingsUpdated EventType = "ratings-updated"
)
