// Package events publishes list mutations to interested subscribers.
//
// Events are published by the list while it still holds its exclusive lock,
// so every subscriber sees mutations in the order they took effect.
package events

import "time"

// EventType represents the type of mutation
type EventType string

const (
	// EventInserted is emitted when a new node is linked into a list
	EventInserted EventType = "inserted"
	// EventReplaced is emitted when InsertOrReplace hits an existing index
	EventReplaced EventType = "replaced"
	// EventUpdated is emitted when Replace swaps a payload in place
	EventUpdated EventType = "updated"
	// EventRemoved is emitted when a node is unlinked
	EventRemoved EventType = "removed"
	// EventCleared is emitted when a list drops all of its nodes
	EventCleared EventType = "cleared"
)

// AllTypes lists every event type in declaration order
var AllTypes = []EventType{EventInserted, EventReplaced, EventUpdated, EventRemoved, EventCleared}

// Event describes one mutation of a named list
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	List      string    `json:"list,omitempty"`
	Index     int       `json:"index"`
	// Count is the number of nodes dropped by a clear
	Count int `json:"count,omitempty"`
}

func newEvent(t EventType, list string, index int) Event {
	return Event{
		Type:      t,
		Timestamp: time.Now(),
		List:      list,
		Index:     index,
	}
}

// NewInsertedEvent creates an inserted event
func NewInsertedEvent(list string, index int) Event {
	return newEvent(EventInserted, list, index)
}

// NewReplacedEvent creates a replaced event
func NewReplacedEvent(list string, index int) Event {
	return newEvent(EventReplaced, list, index)
}

// NewUpdatedEvent creates an updated event
func NewUpdatedEvent(list string, index int) Event {
	return newEvent(EventUpdated, list, index)
}

// NewRemovedEvent creates a removed event
func NewRemovedEvent(list string, index int) Event {
	return newEvent(EventRemoved, list, index)
}

// NewClearedEvent creates a cleared event carrying the number of dropped nodes
func NewClearedEvent(list string, count int) Event {
	e := newEvent(EventCleared, list, 0)
	e.Count = count
	return e
}
