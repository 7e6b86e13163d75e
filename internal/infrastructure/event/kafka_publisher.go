package event

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/napsterimports/backend/internal/domain/shared"
	"github.com/napsterimports/backend/internal/infrastructure/config"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

// Message headers set on every published event
const (
	HeaderEventType     = "event_type"
	HeaderEventID       = "event_id"
	HeaderAggregateType = "aggregate_type"
	HeaderEventVersion  = "event_version"
)

// MessageWriter is the subset of *kafka.Writer the publisher needs
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewKafkaWriter creates a writer for the configured brokers. The topic is
// left unset because the publisher picks one per message.
func NewKafkaWriter(cfg config.KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		BatchTimeout:           cfg.BatchTimeout,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

// KafkaPublisher streams domain events to Kafka. Each event goes to the
// topic of its catalog stream under a base name, so shipping and order
// events land on separate topics. Messages are keyed by aggregate ID so one
// aggregate's events stay ordered within a partition.
type KafkaPublisher struct {
	writer     MessageWriter
	catalog    *Catalog
	baseTopic  string
	propagator propagation.TextMapPropagator
	logger     *zap.Logger
	timeout    time.Duration
}

// NewKafkaPublisher creates a publisher over writer routing under baseTopic
func NewKafkaPublisher(writer MessageWriter, catalog *Catalog, baseTopic string, logger *zap.Logger) *KafkaPublisher {
	if catalog == nil {
		catalog = NewCatalog()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KafkaPublisher{
		writer:     writer,
		catalog:    catalog,
		baseTopic:  baseTopic,
		propagator: otel.GetTextMapPropagator(),
		logger:     logger,
		timeout:    5 * time.Second,
	}
}

// Publish writes events to Kafka in one batch
func (p *KafkaPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(events))
	for _, ev := range events {
		msg, err := p.message(ctx, ev)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("kafka: write %d events: %w", len(msgs), err)
	}
	p.logger.Debug("Published domain events to kafka", zap.Int("count", len(msgs)))
	return nil
}

// Handle forwards one event, letting the publisher subscribe to the in-memory bus
func (p *KafkaPublisher) Handle(ctx context.Context, ev shared.DomainEvent) error {
	return p.Publish(ctx, ev)
}

// EventTypes returns nil: every event is forwarded
func (p *KafkaPublisher) EventTypes() []string {
	return nil
}

// Close flushes and closes the underlying writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func (p *KafkaPublisher) message(ctx context.Context, ev shared.DomainEvent) (kafka.Message, error) {
	value, err := p.catalog.Encode(ev)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("kafka: %w", err)
	}
	headers := KafkaHeaderCarrier{
		{Key: HeaderEventType, Value: []byte(ev.EventType())},
		{Key: HeaderEventID, Value: []byte(ev.EventID().String())},
		{Key: HeaderAggregateType, Value: []byte(ev.AggregateType())},
	}
	if route, ok := p.catalog.Route(ev.EventType()); ok {
		headers.Set(HeaderEventVersion, strconv.Itoa(route.Version))
	} else {
		p.logger.Debug("Publishing uncatalogued event on base topic", zap.String("event_type", ev.EventType()))
	}
	p.propagator.Inject(ctx, &headers)

	return kafka.Message{
		Topic:   p.catalog.Topic(p.baseTopic, ev.EventType()),
		Key:     []byte(ev.AggregateID().String()),
		Value:   value,
		Headers: headers,
		Time:    ev.OccurredAt(),
	}, nil
}

// KafkaHeaderCarrier adapts message headers to an OpenTelemetry TextMapCarrier
type KafkaHeaderCarrier []kafka.Header

// Get returns the value of key
func (c *KafkaHeaderCarrier) Get(key string) string {
	for _, h := range *c {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

// Set stores key, replacing any existing value
func (c *KafkaHeaderCarrier) Set(key, value string) {
	for i, h := range *c {
		if h.Key == key {
			(*c)[i].Value = []byte(value)
			return
		}
	}
	*c = append(*c, kafka.Header{Key: key, Value: []byte(value)})
}

// Keys returns every header key
func (c *KafkaHeaderCarrier) Keys() []string {
	keys := make([]string, 0, len(*c))
	for _, h := range *c {
		keys = append(keys, h.Key)
	}
	return keys
}

var (
	_ shared.EventPublisher      = (*KafkaPublisher)(nil)
	_ shared.EventHandler        = (*KafkaPublisher)(nil)
	_ propagation.TextMapCarrier = (*KafkaHeaderCarrier)(nil)
	_ MessageWriter              = (*kafka.Writer)(nil)
)
