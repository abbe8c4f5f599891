// Package aggregate defines the two ports a user plugs into the execute
// loop: a pure fold over an aggregate's events (State), and the command
// that turns folded state into new events (Command).
package aggregate

import (
	"eventcore/event"
	"eventcore/eventstore"
)

// State folds a single event into a new state value. Apply must be pure,
// deterministic, and side-effect-free; folding a stream's full history from
// an empty state must reproduce the canonical current state.
type State interface {
	Apply(evt event.Event) State
}

// Command bundles the target stream, the command's own logic for turning
// folded state into new events, and a retry hook.
//
// Unlike the original source's Command trait, this interface has no
// GetState/SetState accessors: the executor keeps the folded State as a
// local value and passes it to Handle directly (spec.md §9 design note
// calls this the cleaner of the two allowed shapes).
type Command interface {
	// StreamID names the stream this command reads and writes.
	StreamID() eventstore.StreamID

	// Handle is called once per attempt, after the stream has been fully
	// folded into state and before any publish. It must not mutate the
	// store; returning a nil/empty slice is a valid no-op result.
	Handle(state State) ([]event.Event, error)

	// MarkRetry is called immediately before sleeping on a retryable
	// conflict, and returns the command value to use for the next
	// attempt. Returning the receiver unchanged is legal; the canonical
	// use is bumping an attempt counter carried on the command.
	MarkRetry() Command
}
