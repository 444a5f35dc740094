// Package events publishes pipeline run summaries to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

const writeTimeout = 5 * time.Second

// RunEvent summarises one pipeline invocation.
type RunEvent struct {
	RunID      string    `json:"run_id"`
	Symbol     string    `json:"symbol"`
	Table      string    `json:"table"`
	State      string    `json:"state"`
	FailedAt   string    `json:"failed_at,omitempty"`
	Status     int       `json:"status"`
	Message    string    `json:"message"`
	Rows       int       `json:"rows"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// messageWriter is the part of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher handles sending run events to Kafka.
type Publisher struct {
	writer messageWriter
}

// NewKafkaWriter builds the writer for the run event topic.
func NewKafkaWriter(broker, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(broker),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    1,
		BatchTimeout: 10 * time.Millisecond,
	}
}

// NewPublisher creates a new Kafka publisher.
func NewPublisher(writer messageWriter) *Publisher {
	return &Publisher{writer: writer}
}

// Publish sends one event keyed by symbol.
func (p *Publisher) Publish(ctx context.Context, event RunEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("serialize failed: %w", err)
	}

	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err := p.writer.WriteMessages(writeCtx, kafka.Message{Key: []byte(event.Symbol), Value: data}); err != nil {
		return fmt.Errorf("kafka write failed: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
