package es

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryEventStore keeps streams in process memory. It backs the unit tests
// and local development; the compare-and-append check runs under a single
// mutex, giving the same atomicity the SQL store gets from its transaction.
type MemoryEventStore struct {
	mu             sync.RWMutex
	streams        map[string][]Event
	globalPosition int64
}

func NewMemoryEventStore() *MemoryEventStore {
	return &MemoryEventStore{
		streams: map[string][]Event{},
	}
}

func (s *MemoryEventStore) Read(_ context.Context, streamID string) ([]Event, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stream := s.streams[streamID]
	events := make([]Event, len(stream))
	copy(events, stream)

	return events, int64(len(stream)), nil
}

func (s *MemoryEventStore) Append(_ context.Context, streamID string, expectedRevision int64, events []Event) (int64, error) {
	if len(events) == 0 {
		return 0, fmt.Errorf("must append at least 1 event to stream %s", streamID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	currentRevision := int64(len(s.streams[streamID]))
	if currentRevision != expectedRevision {
		return 0, fmt.Errorf("%w: stream %s is at revision %d, expected %d",
			ErrConcurrencyConflict, streamID, currentRevision, expectedRevision)
	}

	staged := make([]Event, 0, len(events))
	for i, event := range events {
		event.StreamID = streamID
		event.StreamPosition = currentRevision + int64(i) + 1
		event.GlobalPosition = s.globalPosition + int64(i) + 1

		if err := event.Validate(); err != nil {
			return 0, err
		}

		staged = append(staged, event)
	}

	s.globalPosition += int64(len(staged))
	s.streams[streamID] = append(s.streams[streamID], staged...)

	return int64(len(s.streams[streamID])), nil
}

func (s *MemoryEventStore) ReadAll(_ context.Context, afterPosition int64, limit int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := []Event{}
	for _, stream := range s.streams {
		for _, event := range stream {
			if event.GlobalPosition > afterPosition {
				events = append(events, event)
			}
		}
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].GlobalPosition < events[j].GlobalPosition
	})

	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}

	return events, nil
}
