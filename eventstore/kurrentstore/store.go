package kurrentstore

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/EventStore/EventStore-Client-Go/v4/esdb"

	"eventcore/event"
	"eventcore/eventstore"
)

// Store is an eventstore.EventStore backed by a KurrentDB node, reached
// over the official gRPC client.
type Store struct {
	client *esdb.Client
	codec  *Codec
}

// New wraps an already-connected esdb.Client. Use Connect to build one from
// ConnectionSettings in one step.
func New(client *esdb.Client, codec *Codec) *Store {
	return &Store{client: client, codec: codec}
}

// Connect parses settings into an esdb.Client and wraps it.
func Connect(settings ConnectionSettings, codec *Codec) (*Store, error) {
	config, err := esdb.ParseConnectionString(settings.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("kurrentstore: parse connection settings: %w", err)
	}
	client, err := esdb.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("kurrentstore: connect: %w", err)
	}
	return New(client, codec), nil
}

// ReadStream reads a stream from KurrentDB start to end and returns a
// cursor over its decoded events.
func (s *Store) ReadStream(ctx context.Context, id eventstore.StreamID) (eventstore.EventStream, error) {
	name := streamName(id)
	reader, err := s.client.ReadStream(ctx, name, esdb.ReadStreamOptions{
		From:      esdb.Start{},
		Direction: esdb.Forwards,
	}, ^uint64(0))
	if err != nil {
		if esdbErr, ok := esdb.FromError(err); ok && esdbErr.Code() == esdb.ErrorCodeResourceNotFound {
			return nil, &eventstore.NotFoundError{Stream: id}
		}
		return nil, fmt.Errorf("kurrentstore: read stream %s: %w", name, err)
	}
	return &streamCursor{reader: reader, codec: s.codec, streamID: id}, nil
}

// Publish appends events to a stream under optimistic concurrency, mapping
// a KurrentDB wrong-expected-version response onto
// *eventstore.VersionMismatchError.
func (s *Store) Publish(ctx context.Context, id eventstore.StreamID, events []event.Event, expectedVersion eventstore.OptionalVersion) error {
	if len(events) == 0 {
		return nil
	}

	name := streamName(id)
	esdbEvents := make([]esdb.EventData, len(events))
	for i, evt := range events {
		eventType, data, err := s.codec.encode(evt)
		if err != nil {
			return err
		}
		esdbEvents[i] = esdb.EventData{
			EventType:   eventType,
			ContentType: esdb.ContentTypeJson,
			Data:        data,
		}
	}

	options := esdb.AppendToStreamOptions{ExpectedRevision: toExpectedRevision(expectedVersion)}

	_, err := s.client.AppendToStream(ctx, name, options, esdbEvents...)
	if err == nil {
		return nil
	}

	esdbErr, ok := esdb.FromError(err)
	if !ok {
		return fmt.Errorf("kurrentstore: append to stream %s: %w", name, err)
	}
	if esdbErr.Code() == esdb.ErrorCodeWrongExpectedVersion {
		actual, err := s.currentVersion(ctx, id)
		if err != nil {
			return err
		}
		return &eventstore.VersionMismatchError{Stream: id, Expected: expectedVersion, Actual: actual}
	}
	return fmt.Errorf("kurrentstore: append to stream %s: %w", name, esdbErr)
}

func (s *Store) currentVersion(ctx context.Context, id eventstore.StreamID) (eventstore.OptionalVersion, error) {
	reader, err := s.client.ReadStream(ctx, streamName(id), esdb.ReadStreamOptions{
		Direction: esdb.Backwards,
		From:      esdb.End{},
	}, 1)
	if err != nil {
		if esdbErr, ok := esdb.FromError(err); ok && esdbErr.Code() == esdb.ErrorCodeResourceNotFound {
			return eventstore.NoVersion(), nil
		}
		return eventstore.OptionalVersion{}, fmt.Errorf("kurrentstore: read current version of %s: %w", id, err)
	}
	last, err := reader.Recv()
	if err != nil {
		if errors.Is(err, esdb.ErrStreamNotFound) {
			return eventstore.NoVersion(), nil
		}
		return eventstore.OptionalVersion{}, fmt.Errorf("kurrentstore: read current version of %s: %w", id, err)
	}
	return eventstore.VersionOf(eventstore.StreamVersion(last.Event.EventNumber)), nil
}

func toExpectedRevision(v eventstore.OptionalVersion) esdb.ExpectedRevision {
	version, ok := v.Get()
	if !ok {
		return esdb.NoStream{}
	}
	return esdb.Revision(uint64(version))
}

func streamName(id eventstore.StreamID) string {
	return id.String()
}

type streamCursor struct {
	reader   *esdb.ReadStream
	codec    *Codec
	streamID eventstore.StreamID
}

func (c *streamCursor) Next(ctx context.Context) (event.Event, eventstore.StreamVersion, bool, error) {
	resolved, err := c.reader.Recv()
	if err != nil {
		if errors.Is(err, esdb.ErrStreamNotFound) {
			return nil, 0, false, &eventstore.NotFoundError{Stream: c.streamID}
		}
		if isEndOfStream(err) {
			return nil, 0, false, nil
		}
		return nil, 0, false, fmt.Errorf("kurrentstore: receive from stream %s: %w", c.streamID, err)
	}

	evt, err := c.codec.decode(resolved.Event.EventType, resolved.Event.Data)
	if err != nil {
		return nil, 0, false, err
	}
	return evt, eventstore.StreamVersion(resolved.Event.EventNumber), true, nil
}

// isEndOfStream reports whether err is the sentinel the client returns once
// a ReadStream cursor is exhausted. The v4 client surfaces this as io.EOF.
func isEndOfStream(err error) bool {
	return errors.Is(err, io.EOF)
}
