// Package eventcore is the command execution core of an event-sourcing
// library: given a user-defined Command, it reads the command's stream,
// folds it into aggregate state, asks the command to produce new events
// from that state, and appends them under an optimistic-concurrency
// constraint, retrying with exponential back-off and full jitter when
// another writer has raced ahead.
package eventcore

import (
	"context"
	"errors"
	"log"
	"time"

	"eventcore/aggregate"
	"eventcore/execconfig"
	"eventcore/execerr"
	"eventcore/eventstore"
)

// Execute runs the command-execution protocol described in spec.md §4.H:
// read → fold → handle → publish, retrying on version conflicts up to
// cfg.MaxRetries() additional attempts.
//
// initialState is the command's aggregate in its empty form; Execute folds
// a fresh copy of the stream's history into it on every attempt, since a
// concurrent writer may have changed that history since the last attempt.
func Execute(ctx context.Context, cmd aggregate.Command, initialState aggregate.State, store eventstore.EventStore, cfg execconfig.Config) error {
	streamID := cmd.StreamID()

	for retryCount := uint32(0); ; retryCount++ {
		if retryCount > cfg.MaxRetries() {
			return execerr.MaxRetriesExceeded(streamID.String(), cfg.MaxRetries())
		}

		state, expectedVersion, err := foldStream(ctx, store, streamID, initialState)
		if err != nil {
			return err
		}

		events, err := cmd.Handle(state)
		if err != nil {
			return execerr.CommandFailed(err, retryCount+1, cfg.MaxRetries())
		}

		if len(events) == 0 {
			return nil
		}

		publishErr := store.Publish(ctx, streamID, events, expectedVersion)
		if publishErr == nil {
			return nil
		}

		var mismatch *eventstore.VersionMismatchError
		if !errors.As(publishErr, &mismatch) {
			return classifyOther(streamID, publishErr)
		}

		log.Printf("eventcore: version conflict on stream %s (attempt %d): expected %s, actual %s",
			streamID, retryCount+1, mismatch.Expected, mismatch.Actual)

		delay := cfg.Delay().CalculateDelay(retryCount)
		if err := sleep(ctx, delay); err != nil {
			return classifyOther(streamID, err)
		}

		cmd = cmd.MarkRetry()
	}
}

// foldStream reads a command's stream start-to-finish, applying each event
// to state in order, and returns the version of the last event consumed
// (absent if the stream was empty or did not exist).
func foldStream(ctx context.Context, store eventstore.EventStore, streamID eventstore.StreamID, initialState aggregate.State) (aggregate.State, eventstore.OptionalVersion, error) {
	stream, err := store.ReadStream(ctx, streamID)
	if err != nil {
		var notFound *eventstore.NotFoundError
		if errors.As(err, &notFound) {
			return initialState, eventstore.NoVersion(), nil
		}
		return nil, eventstore.OptionalVersion{}, classifyOther(streamID, err)
	}

	state := initialState
	expectedVersion := eventstore.NoVersion()

	for {
		evt, version, ok, err := stream.Next(ctx)
		if err != nil {
			// Some backends report a missing stream on the first pull
			// rather than from ReadStream; that is still an empty stream.
			var notFound *eventstore.NotFoundError
			if _, seen := expectedVersion.Get(); !seen && errors.As(err, &notFound) {
				return initialState, eventstore.NoVersion(), nil
			}
			return nil, eventstore.OptionalVersion{}, classifyOther(streamID, err)
		}
		if !ok {
			break
		}
		state = state.Apply(evt)
		expectedVersion = eventstore.VersionOf(version)
	}

	return state, expectedVersion, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// classifyOther maps a backend error that is neither NotFound nor
// VersionMismatch into the execute loop's terminal BackendOther kind,
// unless it already is an *execerr.Error (e.g. raised by a custom
// EventStore implementation), in which case it is returned unchanged.
func classifyOther(streamID eventstore.StreamID, err error) error {
	var existing *execerr.Error
	if errors.As(err, &existing) {
		return existing
	}

	var notFound *eventstore.NotFoundError
	if errors.As(err, &notFound) {
		return execerr.StreamNotFound(streamID.String())
	}

	return execerr.BackendOther(err)
}
