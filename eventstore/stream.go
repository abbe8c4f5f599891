package eventstore

import (
	"fmt"

	"github.com/google/uuid"
)

// StreamID addresses exactly one event stream. Two ids compare equal iff
// their underlying UUIDs are equal.
type StreamID struct {
	id uuid.UUID
}

// NewStreamID generates a fresh, random stream id.
func NewStreamID() StreamID {
	return StreamID{id: uuid.New()}
}

// StreamIDFromUUID wraps an existing UUID as a stream id.
func StreamIDFromUUID(id uuid.UUID) StreamID {
	return StreamID{id: id}
}

// ParseStreamID parses the canonical UUID string form of a stream id.
func ParseStreamID(s string) (StreamID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return StreamID{}, fmt.Errorf("parse stream id %q: %w", s, err)
	}
	return StreamID{id: id}, nil
}

func (s StreamID) String() string {
	return s.id.String()
}

// UUID returns the underlying UUID value.
func (s StreamID) UUID() uuid.UUID {
	return s.id
}

// StreamVersion is the zero-based revision of an event within its stream:
// the revision of the last event currently in the stream, for a stream as a
// whole.
type StreamVersion int64

// OptionalVersion renders Option<EventStreamVersion> from the original
// source as a small value type instead of a nilable pointer, since the only
// thing ever asked of it is "is a version present, and if so, which one".
type OptionalVersion struct {
	version StreamVersion
	present bool
}

// NoVersion represents the absence of a version — an empty stream, or "any
// current version is acceptable" depending on context.
func NoVersion() OptionalVersion {
	return OptionalVersion{}
}

// VersionOf wraps a concrete version.
func VersionOf(v StreamVersion) OptionalVersion {
	return OptionalVersion{version: v, present: true}
}

// Get reports the wrapped version and whether one is present.
func (o OptionalVersion) Get() (StreamVersion, bool) {
	return o.version, o.present
}

// String renders the version for error messages, or "none" if absent.
func (o OptionalVersion) String() string {
	if !o.present {
		return "none"
	}
	return fmt.Sprintf("%d", o.version)
}
