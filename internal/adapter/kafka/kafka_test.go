package kafka

import (
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/precip-radial-etl/internal/domain"
)

func TestMapMessageToRawEvent(t *testing.T) {
	now := time.Now()
	msg := kafkago.Message{
		Key:       []byte("KTLX"),
		Value:     []byte{0x00, 0x00, 0x00, 0x00},
		Topic:     "raw-radial-scans",
		Partition: 2,
		Offset:    42,
		Time:      now,
		Headers: []kafkago.Header{
			{Key: "station", Value: []byte("KTLX")},
		},
	}

	raw := mapMessageToRawEvent(msg)

	assert.Equal(t, []byte("KTLX"), raw.Key)
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x00}, raw.Value)
	assert.Equal(t, "raw-radial-scans", raw.Topic)
	assert.Equal(t, 2, raw.Partition)
	assert.Equal(t, int64(42), raw.Offset)
	assert.Equal(t, now, raw.Timestamp)
	assert.Equal(t, "KTLX", raw.Headers["station"])
}

func TestOutputToMessage(t *testing.T) {
	event := domain.OutputEvent{
		Key:   []byte("KTLX-abc123"),
		Value: []byte(`{"id":"KTLX-abc123"}`),
		Headers: map[string]string{
			"station":      "KTLX",
			"processed_at": "2026-03-14T16:00:00Z",
		},
	}

	msg := outputToMessage(event)

	assert.Equal(t, []byte("KTLX-abc123"), msg.Key)
	assert.JSONEq(t, `{"id":"KTLX-abc123"}`, string(msg.Value))
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "station", msg.Headers[0].Key)
	assert.Equal(t, []byte("KTLX"), msg.Headers[0].Value)
	assert.Equal(t, "processed_at", msg.Headers[1].Key)
	assert.Equal(t, []byte("2026-03-14T16:00:00Z"), msg.Headers[1].Value)
}

func TestOutputToMessage_MissingHeaders(t *testing.T) {
	msg := outputToMessage(domain.OutputEvent{Key: []byte("k"), Value: []byte("v")})
	assert.Empty(t, msg.Headers)
}
