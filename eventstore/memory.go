package eventstore

import (
	"context"
	"fmt"
	"sync"

	"eventcore/event"
)

type record struct {
	evt     event.Event
	version StreamVersion
}

// MemoryStore is an in-process EventStore backed by a map of slices. It is
// useful for tests and for embedding the execute loop in a process that
// does not need a networked backend.
type MemoryStore struct {
	mu      sync.RWMutex
	streams map[string][]record

	// beforePublish, when set, runs once per Publish call that has events
	// to append (a call with no events returns first), before the
	// optimistic-concurrency check, before the write lock is taken. Tests
	// use this to simulate a concurrent writer racing ahead between a
	// read and a publish. Production callers never set it.
	beforePublish func(id StreamID)
}

// SetBeforePublishHook installs (or clears, with nil) a hook invoked at the
// start of every Publish call that has events to append. Test-only; not
// part of the EventStore port.
func (s *MemoryStore) SetBeforePublishHook(hook func(id StreamID)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.beforePublish = hook
}

// NewMemoryStore returns an empty in-memory event store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{streams: make(map[string][]record)}
}

// ReadStream returns a *NotFoundError if the stream has never been written
// to; a stream that exists but is empty is never observable through
// MemoryStore, since Publish is the only way to create one.
func (s *MemoryStore) ReadStream(ctx context.Context, id StreamID) (EventStream, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs, ok := s.streams[id.String()]
	if !ok {
		return nil, &NotFoundError{Stream: id}
	}

	snapshot := make([]record, len(recs))
	copy(snapshot, recs)
	return &memoryStream{records: snapshot}, nil
}

// Publish appends events under an optimistic-concurrency check: the
// stream's current version (absent for a brand-new stream) must match
// expectedVersion, or a *VersionMismatchError is returned.
func (s *MemoryStore) Publish(ctx context.Context, id StreamID, events []event.Event, expectedVersion OptionalVersion) error {
	if len(events) == 0 {
		return nil
	}

	s.mu.RLock()
	hook := s.beforePublish
	s.mu.RUnlock()
	if hook != nil {
		hook(id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := id.String()
	recs := s.streams[key]

	current := NoVersion()
	if len(recs) > 0 {
		current = VersionOf(recs[len(recs)-1].version)
	}

	if !versionsEqual(current, expectedVersion) {
		return &VersionMismatchError{Stream: id, Expected: expectedVersion, Actual: current}
	}

	nextVersion := int64(0)
	if v, ok := current.Get(); ok {
		nextVersion = int64(v) + 1
	}

	appended := make([]record, 0, len(events))
	for _, evt := range events {
		appended = append(appended, record{evt: evt, version: StreamVersion(nextVersion)})
		nextVersion++
	}

	s.streams[key] = append(recs, appended...)
	return nil
}

func versionsEqual(a, b OptionalVersion) bool {
	av, aok := a.Get()
	bv, bok := b.Get()
	if aok != bok {
		return false
	}
	return !aok || av == bv
}

// StreamLength is a test helper exposing how many events have been
// committed to a stream.
func (s *MemoryStore) StreamLength(id StreamID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.streams[id.String()])
}

type memoryStream struct {
	records []record
	pos     int
}

func (m *memoryStream) Next(ctx context.Context) (event.Event, StreamVersion, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, false, fmt.Errorf("read stream: %w", err)
	}
	if m.pos >= len(m.records) {
		return nil, 0, false, nil
	}
	rec := m.records[m.pos]
	m.pos++
	return rec.evt, rec.version, true, nil
}
