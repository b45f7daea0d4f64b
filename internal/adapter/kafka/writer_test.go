package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/quake-stats/internal/domain"
)

type recordingWriter struct {
	msgs []kafkago.Message
	err  error
}

func (r *recordingWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if r.err != nil {
		return r.err
	}
	r.msgs = append(r.msgs, msgs...)
	return nil
}

func (r *recordingWriter) Close() error { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSerializeToMessage(t *testing.T) {
	at := time.Date(2008, 2, 27, 0, 56, 47, 0, time.UTC)
	m := 5.2
	event := domain.Earthquake{
		ID:         "uk2008abcd",
		Place:      "Market Rasen",
		Magnitude:  &m,
		TimeMillis: at.UnixMilli(),
		Longitude:  -0.33,
		Latitude:   53.4,
	}

	msg, err := serializeToMessage(event)
	require.NoError(t, err)

	assert.Equal(t, []byte("uk2008abcd"), msg.Key)
	assert.Contains(t, string(msg.Value), `"magnitude":5.2`)
	assert.Contains(t, string(msg.Value), `"latitude":53.4`)
	assert.Equal(t, at, msg.Time)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, []byte("earthquake"), msg.Headers[0].Value)
	assert.Equal(t, "event_time", msg.Headers[1].Key)
	assert.Equal(t, []byte("2008-02-27T00:56:47Z"), msg.Headers[1].Value)
}

func TestSerializeToMessage_NullMagnitude(t *testing.T) {
	msg, err := serializeToMessage(domain.Earthquake{ID: "x"})
	require.NoError(t, err)
	assert.Contains(t, string(msg.Value), `"magnitude":null`)
}

func TestWriter_Publish(t *testing.T) {
	rec := &recordingWriter{}
	w := &Writer{writer: rec, logger: discardLogger()}

	err := w.Publish(context.Background(), domain.Dataset{{ID: "a"}, {ID: "b"}})
	require.NoError(t, err)
	require.Len(t, rec.msgs, 2)
	assert.Equal(t, []byte("a"), rec.msgs[0].Key)
	assert.Equal(t, []byte("b"), rec.msgs[1].Key)
}

func TestWriter_PublishEmpty(t *testing.T) {
	rec := &recordingWriter{err: errors.New("should not be called")}
	w := &Writer{writer: rec, logger: discardLogger()}
	require.NoError(t, w.Publish(context.Background(), nil))
}

func TestWriter_PublishError(t *testing.T) {
	rec := &recordingWriter{err: errors.New("broker unavailable")}
	w := &Writer{writer: rec, logger: discardLogger()}

	err := w.Publish(context.Background(), domain.Dataset{{ID: "a"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker unavailable")
}
