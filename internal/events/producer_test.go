package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs     []kafka.Message
	err      error
	deadline bool
	closed   bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	_, f.deadline = ctx.Deadline()
	f.msgs = append(f.msgs, msgs...)
	return f.err
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaPublisher_Publish(t *testing.T) {
	t.Parallel()

	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w}

	at := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	err := p.Publish(context.Background(), Event{
		Type:       TypePlaybackIssued,
		UserID:     "u1",
		OccurredAt: at,
		Data:       map[string]any{"videoID": "v1"},
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)
	assert.True(t, w.deadline)
	assert.Equal(t, "u1", string(w.msgs[0].Key))

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, "playback_issued", got["type"])
	assert.Equal(t, "u1", got["userID"])
	assert.Equal(t, "2025-02-01T00:00:00Z", got["occurredAt"])
	assert.Equal(t, "v1", got["data"].(map[string]any)["videoID"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_StampsTime(t *testing.T) {
	t.Parallel()

	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w}

	require.NoError(t, p.Publish(context.Background(), Event{Type: TypeUserLoggedOut, UserID: "u1"}))

	var got Event
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.WithinDuration(t, time.Now(), got.OccurredAt, time.Minute)
	assert.Nil(t, got.Data)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	t.Parallel()

	boom := errors.New("broker down")
	p := &KafkaPublisher{writer: &fakeWriter{err: boom}}

	err := p.Publish(context.Background(), Event{Type: TypeUserLoggedOut, UserID: "u1"})
	require.ErrorIs(t, err, boom)
}

func TestNewPublisher(t *testing.T) {
	t.Parallel()

	assert.IsType(t, Nop{}, NewPublisher(nil))
	assert.NoError(t, Nop{}.Publish(context.Background(), Event{}))

	p := NewPublisher([]string{"localhost:9092"})
	kp, ok := p.(*KafkaPublisher)
	require.True(t, ok)
	assert.Equal(t, Topic, kp.writer.(*kafka.Writer).Topic)
	require.NoError(t, p.Close())
}
