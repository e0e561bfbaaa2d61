// Package events publishes order lifecycle notifications to Kafka. Publishing
// is best-effort: failures are logged and never fail the originating request.
package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	OrderCreated = "order.created"
	OrderUpdated = "order.updated"
	OrderDeleted = "order.deleted"
)

type Event struct {
	Type    string    `json:"type"`
	OrderID int64     `json:"orderId"`
	At      time.Time `json:"at"`
}

// Sink is what the services publish through.
type Sink interface {
	Publish(ctx context.Context, e Event)
}

// Publisher writes events to a Kafka topic, keyed by order id.
type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
	}
}

func (p *Publisher) Publish(ctx context.Context, e Event) {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	val, err := json.Marshal(e)
	if err != nil {
		zap.L().Error("marshal event", zap.Error(err))
		return
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(e.OrderID, 10)),
		Value: val,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "content-type", Value: []byte("application/json")},
		},
	})
	if err != nil {
		zap.L().Error("publish event", zap.String("type", e.Type), zap.Int64("order_id", e.OrderID), zap.Error(err))
		return
	}
	zap.L().Debug("published event", zap.String("type", e.Type), zap.Int64("order_id", e.OrderID))
}

func (p *Publisher) Close() error { return p.writer.Close() }

// Nop is the sink used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) {}
