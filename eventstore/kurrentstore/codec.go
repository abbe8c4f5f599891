package kurrentstore

import (
	"encoding/json"
	"fmt"

	"eventcore/event"
	"eventcore/execerr"
)

// Codec maps event.Event implementations to wire event-type names and back,
// since KurrentDB stores each event's type as an opaque string alongside its
// JSON payload. Register every event type a stream may contain before
// reading it.
type Codec struct {
	factories map[string]func() event.Event
}

// NewCodec returns an empty codec.
func NewCodec() *Codec {
	return &Codec{factories: make(map[string]func() event.Event)}
}

// Register associates a wire event type with a zero-value factory used to
// decode events of that type. It returns the codec so registrations chain.
func (c *Codec) Register(eventType string, factory func() event.Event) *Codec {
	c.factories[eventType] = factory
	return c
}

func (c *Codec) encode(evt event.Event) (eventType string, data []byte, err error) {
	data, err = json.Marshal(evt)
	if err != nil {
		return "", nil, execerr.SerializationFailure(fmt.Errorf("kurrentstore: marshal %s: %w", evt.EventType(), err))
	}
	return evt.EventType(), data, nil
}

func (c *Codec) decode(eventType string, data []byte) (event.Event, error) {
	factory, ok := c.factories[eventType]
	if !ok {
		return nil, execerr.SerializationFailure(fmt.Errorf("kurrentstore: no factory registered for event type %q", eventType))
	}
	evt := factory()
	if err := json.Unmarshal(data, &evt); err != nil {
		return nil, execerr.SerializationFailure(fmt.Errorf("kurrentstore: unmarshal %s: %w", eventType, err))
	}
	return evt, nil
}
