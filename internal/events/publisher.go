package events

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"shopmirror/internal/logger"
)

const Topic = "catalog-events"

const (
	TypePriceUpdated  = "price.updated"
	TypeCatalogSynced = "catalog.synced"
)

type Event struct {
	Type      string                 `json:"type"`
	ProductID int64                  `json:"product_id,omitempty"`
	VariantID int64                  `json:"variant_id,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// Publisher writes catalog events to Kafka. Publishing is best-effort: a
// broker failure is logged and never propagated to the caller, so no API
// request depends on Kafka being up. A nil *Publisher is a no-op.
type Publisher struct {
	writer *kafka.Writer
	logger *logger.Logger
}

func NewPublisher(brokers string, logger *logger.Logger) *Publisher {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(strings.Split(brokers, ",")...),
		Topic:    Topic,
		Balancer: &kafka.LeastBytes{},
	}

	return &Publisher{
		writer: writer,
		logger: logger,
	}
}

func (p *Publisher) Publish(ctx context.Context, event Event) {
	if p == nil {
		return
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	value, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("events: failed to marshal %s event: %v", event.Type, err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.ProductID, 10)),
		Value: value,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("events: failed to publish %s event: %v", event.Type, err)
	}
}

func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
