package events

import (
	"time"
)

type Event interface {
	Type() string
	StreamID() string
	Data() interface{}
	Timestamp() time.Time
	Version() int
}

type EventHandler interface {
	Handle(event Event) error
	CanHandle(eventType string) bool
}

// Publisher is the write side of a store, all that command services need
type Publisher interface {
	AppendEvent(streamID string, event Event) error
}

type EventStore interface {
	Publisher
	ReadEvents(streamID string, fromVersion int) ([]Event, error)
	ReadAllEvents(fromPosition int) ([]Event, error)
	Subscribe(eventTypes []string, handler EventHandler) error
	Unsubscribe(handler EventHandler) error
}

type BaseEvent struct {
	EventType    string
	Stream       string
	EventData    interface{}
	EventTime    time.Time
	EventVersion int
}

func (e BaseEvent) Type() string {
	return e.EventType
}

func (e BaseEvent) StreamID() string {
	return e.Stream
}

func (e BaseEvent) Data() interface{} {
	return e.EventData
}

func (e BaseEvent) Timestamp() time.Time {
	return e.EventTime
}

func (e BaseEvent) Version() int {
	return e.EventVersion
}

func NewEvent(eventType, streamID string, data interface{}) Event {
	return BaseEvent{
		EventType:    eventType,
		Stream:       streamID,
		EventData:    data,
		EventTime:    time.Now(),
		EventVersion: 1,
	}
}

type funcHandler struct {
	fn func(Event) error
}

func (h *funcHandler) Handle(event Event) error {
	return h.fn(event)
}

func (h *funcHandler) CanHandle(string) bool {
	return true
}

// HandlerFunc adapts a function to an EventHandler accepting every type it
// is subscribed to. The returned handler is comparable, so it can be passed
// to Unsubscribe.
func HandlerFunc(fn func(Event) error) EventHandler {
	return &funcHandler{fn: fn}
}

// NopPublisher discards events
type NopPublisher struct{}

func (NopPublisher) AppendEvent(string, Event) error {
	return nil
}
