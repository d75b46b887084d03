//go:build integration

package integration_test

import (
	"context"
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

	"github.com/hazelcove/emdat-report/internal/adapter/kafka"
	"github.com/hazelcove/emdat-report/internal/config"
	"github.com/hazelcove/emdat-report/internal/domain"
)

const testSinkTopic = "test-cleaned-disaster-events"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka launches a single-node Kafka container and returns its broker address.
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

// cleanedMessage holds a deserialized message read from the sink topic.
type cleanedMessage struct {
	Record  domain.EventRecord
	Key     string
	Headers map[string]string
}

func readCleaned(ctx context.Context, t *testing.T, consumer *kafkago.Reader) cleanedMessage {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from sink topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var rec domain.EventRecord
	require.NoError(t, json.Unmarshal(msg.Value, &rec), "unmarshal sink message")

	return cleanedMessage{Record: rec, Key: string(msg.Key), Headers: headers}
}

// TestKafkaPublish verifies that cleaned records survive a round trip through
// a real broker with their keys and headers intact.
func TestKafkaPublish(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSinkTopic)

	cfg := &config.Config{
		KafkaEnabled: true,
		KafkaBrokers: []string{broker},
		KafkaTopic:   testSinkTopic,
	}

	date := time.Date(2010, time.January, 12, 0, 0, 0, 0, time.UTC)
	records := []domain.EventRecord{
		{
			Year: 2010, DisasterType: "Earthquake",
			Country: "Haiti", Region: "Caribbean", Continent: "Americas",
			TotalDeaths: domain.IntPtr(222570), Date: &date,
			Severity: domain.SeverityExtreme, Decade: 2010,
			ProcessedAt: time.Now().UTC().Truncate(time.Second),
		},
		{
			Year: 2011, DisasterType: "Flood",
			Country: "Thailand", Region: "South-Eastern Asia", Continent: "Asia",
			TotalDeaths: domain.IntPtr(813),
			Severity:    domain.SeverityHigh, Decade: 2010,
			ProcessedAt: time.Now().UTC().Truncate(time.Second),
		},
	}

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	require.NoError(t, writer.Publish(ctx, records))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-sink-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	received := make(map[string]cleanedMessage, len(records))
	for len(received) < len(records) {
		cm := readCleaned(ctx, t, consumer)
		received[cm.Headers["disaster_type"]] = cm
	}

	quake, ok := received["Earthquake"]
	require.True(t, ok, "expected an earthquake message")
	assert.Equal(t, domain.EventKey(records[0]), quake.Key)
	assert.Equal(t, "Haiti", quake.Record.Country)
	assert.Equal(t, domain.SeverityExtreme, quake.Record.Severity)
	require.NotNil(t, quake.Record.Date)
	assert.Equal(t, date, quake.Record.Date.UTC())

	flood, ok := received["Flood"]
	require.True(t, ok, "expected a flood message")
	assert.Equal(t, domain.EventKey(records[1]), flood.Key)
	assert.Nil(t, flood.Record.Date)

	for _, cm := range received {
		_, err := time.Parse(time.RFC3339, cm.Headers["processed_at"])
		assert.NoError(t, err, "processed_at should be valid RFC3339")
	}
}

// TestKafkaPublish_Empty verifies that publishing an empty batch is a no-op
// rather than an error.
func TestKafkaPublish_Empty(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSinkTopic)

	cfg := &config.Config{
		KafkaEnabled: true,
		KafkaBrokers: []string{broker},
		KafkaTopic:   testSinkTopic,
	}

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	require.NoError(t, writer.Publish(ctx, nil))
}
