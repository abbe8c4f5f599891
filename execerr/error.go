// Package execerr defines the execute loop's error taxonomy: the sum of
// recoverable and terminal failure kinds described in spec.md §4.G.
package execerr

import (
	"errors"
	"fmt"
)

// Kind classifies an Error. Every Error the execute loop returns is
// terminal: the loop retries version conflicts reported by the store as
// *eventstore.VersionMismatchError, and returns an Error of any kind
// (KindVersionMismatch included) that a store produces unchanged.
type Kind int

const (
	// KindStreamNotFound means the backend reports the stream does not
	// exist on a read that required it.
	KindStreamNotFound Kind = iota
	// KindVersionMismatch is an optimistic-concurrency conflict at
	// publish. The execute loop does not retry an Error of this kind.
	KindVersionMismatch
	// KindBackendOther wraps any other backend/transport failure.
	KindBackendOther
	// KindSerializationFailure means an event failed to encode or decode.
	KindSerializationFailure
	// KindCommandFailed means the user's Handle returned an error.
	KindCommandFailed
	// KindMaxRetriesExceeded means the retry budget was exhausted on
	// repeated version conflicts.
	KindMaxRetriesExceeded
	// KindInvalidConfig means configuration validation failed at
	// construction time.
	KindInvalidConfig
)

func (k Kind) String() string {
	switch k {
	case KindStreamNotFound:
		return "StreamNotFound"
	case KindVersionMismatch:
		return "VersionMismatch"
	case KindBackendOther:
		return "BackendOther"
	case KindSerializationFailure:
		return "SerializationFailure"
	case KindCommandFailed:
		return "CommandFailed"
	case KindMaxRetriesExceeded:
		return "MaxRetriesExceeded"
	case KindInvalidConfig:
		return "InvalidConfig"
	default:
		return "Unknown"
	}
}

// Error is the execute loop's single error type. Which fields are
// meaningful depends on Kind; see the constructors below.
type Error struct {
	Kind Kind

	Message string

	// Stream-related kinds.
	Stream string

	// KindVersionMismatch.
	Expected string
	Actual   string

	// KindCommandFailed.
	Attempt     uint32
	MaxAttempts uint32

	// KindMaxRetriesExceeded.
	MaxRetries uint32

	// KindInvalidConfig.
	Parameter string

	// Source is the underlying cause, when there is one (a backend error,
	// a serialization error, or the user's Handle error). Retrievable via
	// errors.Unwrap / errors.As.
	Source error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindStreamNotFound:
		return fmt.Sprintf("Stream not found: %s", e.Stream)
	case KindVersionMismatch:
		return fmt.Sprintf("Version mismatch for stream '%s': expected %s, but stream is at version %s",
			e.Stream, e.Expected, e.Actual)
	case KindCommandFailed:
		return fmt.Sprintf("Command failed (attempt %d of %d): %s", e.Attempt, e.MaxAttempts, e.Message)
	case KindMaxRetriesExceeded:
		return fmt.Sprintf("Command execution exceeded maximum retries (%d) for stream '%s'", e.MaxRetries, e.Stream)
	case KindInvalidConfig:
		if e.Parameter != "" {
			return fmt.Sprintf("Invalid configuration parameter '%s': %s", e.Parameter, e.Message)
		}
		return fmt.Sprintf("Invalid configuration: %s", e.Message)
	case KindSerializationFailure:
		return fmt.Sprintf("event serialization failure: %s", e.Message)
	default:
		if e.Message != "" {
			return e.Message
		}
		if e.Source != nil {
			return e.Source.Error()
		}
		return "backend error"
	}
}

// Unwrap exposes the underlying cause, if any, for errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Source
}

// StreamNotFound builds a terminal KindStreamNotFound error.
func StreamNotFound(stream string) *Error {
	return &Error{Kind: KindStreamNotFound, Stream: stream}
}

// BackendOther wraps an opaque backend failure as terminal.
func BackendOther(source error) *Error {
	return &Error{Kind: KindBackendOther, Message: source.Error(), Source: source}
}

// SerializationFailure wraps an encode/decode failure as terminal.
func SerializationFailure(source error) *Error {
	return &Error{Kind: KindSerializationFailure, Message: source.Error(), Source: source}
}

// CommandFailed wraps a user Handle error with attempt context. Message is
// the user error's own Display/Error string verbatim — any "Command
// failed: " wording belongs to the user error type, not the loop.
func CommandFailed(source error, attempt, maxAttempts uint32) *Error {
	return &Error{
		Kind:        KindCommandFailed,
		Message:     source.Error(),
		Attempt:     attempt,
		MaxAttempts: maxAttempts,
		Source:      source,
	}
}

// MaxRetriesExceeded builds the terminal error raised when the retry
// budget is exhausted.
func MaxRetriesExceeded(stream string, maxRetries uint32) *Error {
	return &Error{Kind: KindMaxRetriesExceeded, Stream: stream, MaxRetries: maxRetries}
}

// InvalidConfig builds a construction-time configuration error.
func InvalidConfig(message, parameter string) *Error {
	return &Error{Kind: KindInvalidConfig, Message: message, Parameter: parameter}
}

// IsMaxRetriesExceeded reports whether err is a KindMaxRetriesExceeded
// Error.
func IsMaxRetriesExceeded(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindMaxRetriesExceeded
}
