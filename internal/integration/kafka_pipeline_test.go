//go:build integration

package integration_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/couchcryptid/precip-radial-etl/internal/adapter/kafka"
	"github.com/couchcryptid/precip-radial-etl/internal/config"
	"github.com/couchcryptid/precip-radial-etl/internal/domain"
	"github.com/couchcryptid/precip-radial-etl/internal/observability"
	"github.com/couchcryptid/precip-radial-etl/internal/pipeline"
)

const (
	testSourceTopic = "test-source"
	testSinkTopic   = "test-sink"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-node Kafka in a container and returns its broker address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("test-cluster"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	ctrlConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrlConn.Close()

	require.NoError(t, ctrlConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// makeScanPayload builds a scan with one radial per rate list.
func makeScanPayload(t *testing.T, radialRates ...[]uint16) []byte {
	t.Helper()
	var b bytes.Buffer
	require.NoError(t, binary.Write(&b, binary.BigEndian, int32(len(radialRates))))
	for i, rates := range radialRates {
		require.NoError(t, binary.Write(&b, binary.BigEndian, float32(i)))
		require.NoError(t, binary.Write(&b, binary.BigEndian, float32(0.5)))
		require.NoError(t, binary.Write(&b, binary.BigEndian, float32(1)))
		require.NoError(t, binary.Write(&b, binary.BigEndian, int32(len(rates))))
		b.Write([]byte{0x00, 0x00})
		b.Write([]byte{0x00, 0x00, 0x00, 0x00})
		for _, r := range rates {
			b.Write([]byte{0x00, 0x00, byte(r >> 8), byte(r)})
		}
	}
	return b.Bytes()
}

// decodedMessage holds a deserialized message read from the sink topic.
type decodedMessage struct {
	Event   domain.ScanEvent
	Key     string
	Headers map[string]string
}

// readDecoded reads a single message from the sink consumer and deserializes it.
func readDecoded(ctx context.Context, t *testing.T, consumer *kafkago.Reader) decodedMessage {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from sink topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var event domain.ScanEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event), "unmarshal sink message")

	return decodedMessage{
		Event:   event,
		Key:     string(msg.Key),
		Headers: headers,
	}
}

func testConfig(broker string) *config.Config {
	return &config.Config{
		KafkaBrokers:       []string{broker},
		KafkaSourceTopic:   testSourceTopic,
		KafkaSinkTopic:     testSinkTopic,
		KafkaGroupID:       fmt.Sprintf("test-group-%d", time.Now().UnixNano()),
		BatchFlushInterval: 5 * time.Second,
	}
}

// TestKafkaReaderWriter verifies the adapter layer: kafka.Reader (extractor)
// and kafka.Writer (loader) correctly round-trip a scan through Kafka.
func TestKafkaReaderWriter(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)
	cfg := testConfig(broker)

	payload := makeScanPayload(t, []uint16{1000, 2000})
	collectedAt := time.Date(2026, time.March, 14, 15, 10, 0, 0, time.UTC)

	producer := &kafkago.Writer{
		Addr:  kafkago.TCP(broker),
		Topic: testSourceTopic,
	}
	t.Cleanup(func() { _ = producer.Close() })

	require.NoError(t, producer.WriteMessages(ctx, kafkago.Message{
		Key:     []byte("KTLX"),
		Value:   payload,
		Time:    collectedAt,
		Headers: []kafkago.Header{{Key: "station", Value: []byte("KTLX")}},
	}))

	// Extract via kafka.Reader.
	// Retry because the consumer group may need time to rebalance before
	// partitions are assigned and messages become available.
	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })

	var batch []domain.RawEvent
	for {
		var err error
		batch, err = reader.ExtractBatch(ctx, 1)
		require.NoError(t, err)
		if len(batch) > 0 {
			break
		}
		if ctx.Err() != nil {
			t.Fatal("timed out waiting for message from source topic")
		}
	}
	require.Len(t, batch, 1)
	raw := batch[0]
	assert.Equal(t, []byte("KTLX"), raw.Key)
	assert.Equal(t, payload, raw.Value)
	assert.Equal(t, testSourceTopic, raw.Topic)
	assert.Equal(t, "KTLX", raw.Headers["station"])
	require.NotNil(t, raw.Commit, "commit callback should be set")

	// Commit the offset.
	require.NoError(t, raw.Commit(ctx))

	// Transform the raw event into a scan event.
	metrics := observability.NewMetricsForTesting()
	transformer := pipeline.NewTransformer(nil, discardLogger(), metrics)
	out, err := transformer.Transform(ctx, raw)
	require.NoError(t, err)

	// Load via kafka.Writer.
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	require.NoError(t, writer.LoadBatch(ctx, []domain.OutputEvent{out}))

	// Read from the sink topic and verify headers + value.
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	dm := readDecoded(ctx, t, consumer)
	assert.Equal(t, "KTLX", dm.Headers["station"])
	assert.Contains(t, dm.Headers, "processed_at")
	_, err = time.Parse(time.RFC3339, dm.Headers["processed_at"])
	assert.NoError(t, err, "processed_at should be valid RFC3339")

	assert.Equal(t, "KTLX", dm.Event.Station)
	assert.Equal(t, 1, dm.Event.NumRadials)
	assert.Equal(t, 2, dm.Event.TotalBins)
	assert.Equal(t, float32(2.0), dm.Event.MaxRateInHr)
	assert.Equal(t, dm.Key, dm.Event.ID)
}

// TestPipelineEndToEnd wires the full pipeline (Reader → Transformer → Writer)
// with real Kafka and verifies that every scan is decoded.
func TestPipelineEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)
	cfg := testConfig(broker)

	const numScans = 20
	collectedAt := time.Date(2026, time.March, 14, 15, 10, 0, 0, time.UTC)

	producer := &kafkago.Writer{
		Addr:  kafkago.TCP(broker),
		Topic: testSourceTopic,
	}
	t.Cleanup(func() { _ = producer.Close() })

	msgs := make([]kafkago.Message, 0, numScans)
	for i := 0; i < numScans; i++ {
		msgs = append(msgs, kafkago.Message{
			Key:     []byte("KTLX"),
			Value:   makeScanPayload(t, []uint16{uint16(i * 100)}, []uint16{500, 1500}),
			Time:    collectedAt.Add(time.Duration(i) * time.Minute),
			Headers: []kafkago.Header{{Key: "station", Value: []byte("KTLX")}},
		})
	}
	require.NoError(t, producer.WriteMessages(ctx, msgs...))

	// Wire up the pipeline.
	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })

	metrics := observability.NewMetricsForTesting()
	transformer := pipeline.NewTransformer(nil, discardLogger(), metrics)

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	p := pipeline.New(reader, transformer, writer, discardLogger(), metrics, 50)

	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx) }()

	// Read all decoded messages from the sink topic.
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-sink-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	received := make([]decodedMessage, 0, numScans)
	for len(received) < numScans {
		received = append(received, readDecoded(ctx, t, consumer))
	}

	pipelineCancel()
	require.NoError(t, <-errCh)

	require.Len(t, received, numScans)
	ids := make(map[string]bool, numScans)
	for _, dm := range received {
		assert.Equal(t, "KTLX", dm.Event.Station)
		assert.Equal(t, 2, dm.Event.NumRadials)
		assert.Equal(t, 3, dm.Event.TotalBins)
		assert.Equal(t, float32(1.5), dm.Event.Radials[1].MaxRateInHr)
		assert.NotEmpty(t, dm.Headers["processed_at"])
		ids[dm.Event.ID] = true
	}
	assert.Len(t, ids, numScans, "scan IDs should be unique per collection time")
}

// TestPipelineDecodeError verifies that an undecodable payload (poison pill)
// is skipped and the pipeline continues processing valid scans.
func TestPipelineDecodeError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)
	cfg := testConfig(broker)

	collectedAt := time.Date(2026, time.March, 14, 15, 10, 0, 0, time.UTC)
	validPayload := makeScanPayload(t, []uint16{1000})

	// A scan whose only radial has an out-of-range azimuth.
	var poison bytes.Buffer
	require.NoError(t, binary.Write(&poison, binary.BigEndian, int32(1)))
	require.NoError(t, binary.Write(&poison, binary.BigEndian, float32(400)))

	producer := &kafkago.Writer{
		Addr:  kafkago.TCP(broker),
		Topic: testSourceTopic,
	}
	t.Cleanup(func() { _ = producer.Close() })

	require.NoError(t, producer.WriteMessages(ctx,
		kafkago.Message{Key: []byte("bad"), Value: poison.Bytes(), Time: collectedAt},
		kafkago.Message{
			Key:     []byte("KTLX"),
			Value:   validPayload,
			Time:    collectedAt,
			Headers: []kafkago.Header{{Key: "station", Value: []byte("KTLX")}},
		},
	))

	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })

	metrics := observability.NewMetricsForTesting()
	transformer := pipeline.NewTransformer(nil, discardLogger(), metrics)

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	p := pipeline.New(reader, transformer, writer, discardLogger(), metrics, 50)

	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx) }()

	// Only the valid message should appear on the sink topic.
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-sink-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	dm := readDecoded(ctx, t, consumer)
	assert.Equal(t, "KTLX", dm.Event.Station)
	assert.Equal(t, 1, dm.Event.NumRadials)

	// Verify no second message arrives (the poison pill was skipped).
	readCtx, readCancel := context.WithTimeout(ctx, 5*time.Second)
	_, err := consumer.ReadMessage(readCtx)
	readCancel()
	assert.Error(t, err, "expected no second message on sink topic")

	pipelineCancel()
	require.NoError(t, <-errCh)
}
