package eventstore

import (
	"context"
	"fmt"

	"eventcore/event"
)

// NotFoundError reports that the backend has no stream under the given id.
// It is distinct from a successful read of an empty stream.
type NotFoundError struct {
	Stream StreamID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("stream not found: %s", e.Stream)
}

// VersionMismatchError reports an optimistic-concurrency conflict at
// publish time. Expected and Actual are both optional: the backend may
// report "no stream" on either side.
type VersionMismatchError struct {
	Stream   StreamID
	Expected OptionalVersion
	Actual   OptionalVersion
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("version mismatch for stream '%s': expected %s, but stream is at version %s",
		e.Stream, e.Expected, e.Actual)
}

// EventStream is a finite, single-pass, in-order sequence of (event,
// version) pairs pulled from a stream. Every Next call is a suspension
// point: implementations backed by a network client should block on I/O
// there, not in ReadStream itself.
type EventStream interface {
	// Next returns the next event and the absolute stream version it was
	// recorded at, or ok=false once the stream is exhausted.
	Next(ctx context.Context) (evt event.Event, version StreamVersion, ok bool, err error)
}

// EventStore is the abstract capability the execute loop depends on: read a
// stream lazily, and append a batch of events under an optimistic-
// concurrency constraint.
type EventStore interface {
	// ReadStream opens a stream for reading. It returns a *NotFoundError if
	// the backend has no such stream; any other non-nil error is an opaque
	// backend/transport/serialization failure.
	ReadStream(ctx context.Context, id StreamID) (EventStream, error)

	// Publish atomically appends events to a stream. expectedVersion
	// absent means "append regardless of current state"; present means
	// "only if the stream's last event is exactly at this version".
	// Returns a *VersionMismatchError on conflict, a *NotFoundError if the
	// backend requires an existing stream and there isn't one, or any
	// other error for backend/transport/serialization failures.
	Publish(ctx context.Context, id StreamID, events []event.Event, expectedVersion OptionalVersion) error
}
