package es

import (
	"encoding/json"
	"errors"
	"time"
)

type EventType string

// Event is the stored envelope for a single domain fact. Identity is
// (StreamID, StreamPosition); positions start at 1 and are assigned by the
// store on append. Events are never mutated or deleted.
type Event struct {
	StreamID       string          `json:"stream_id"`
	StreamPosition int64           `json:"stream_position"`
	GlobalPosition int64           `json:"global_position"`
	Type           EventType       `json:"event_type"`
	At             time.Time       `json:"at"`
	Data           json.RawMessage `json:"data"`
}

func (e Event) Validate() error {
	if e.StreamID == "" {
		return errors.New("stream ID must not be empty")
	}
	if e.Type == "" {
		return errors.New("event type must not be empty")
	}
	if len(e.Data) == 0 {
		return errors.New("event data must not be empty")
	}
	return nil
}
