package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/napsterimports/backend/internal/domain/order"
	"github.com/napsterimports/backend/internal/domain/shared"
	"github.com/napsterimports/backend/internal/domain/shipping"
	"github.com/napsterimports/backend/internal/infrastructure/config"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap/zaptest"
)

const testTopic = "settlement.events"

type fakeWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func (w *fakeWriter) written() []kafka.Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]kafka.Message(nil), w.msgs...)
}

func statusChanged(orderID uuid.UUID) *order.OrderStatusChangedEvent {
	return &order.OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(order.EventTypeOrderStatusChanged, order.AggregateTypeOrder, orderID),
		OrderID:         orderID,
		From:            order.StatusFullySettled,
		To:              order.StatusDelivered,
	}
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := NewKafkaPublisher(w, nil, testTopic, zaptest.NewLogger(t))

	orderID := uuid.New()
	ev := statusChanged(orderID)
	require.NoError(t, p.Publish(context.Background(), ev))

	msgs := w.written()
	require.Len(t, msgs, 1)
	msg := msgs[0]
	assert.Equal(t, "settlement.events.orders", msg.Topic)
	assert.Equal(t, orderID.String(), string(msg.Key))
	assert.Contains(t, string(msg.Value), `"to":"delivered"`)

	headers := KafkaHeaderCarrier(msg.Headers)
	assert.Equal(t, order.EventTypeOrderStatusChanged, headers.Get(HeaderEventType))
	assert.Equal(t, ev.EventID().String(), headers.Get(HeaderEventID))
	assert.Equal(t, order.AggregateTypeOrder, headers.Get(HeaderAggregateType))
	assert.Equal(t, "1", headers.Get(HeaderEventVersion))
}

func TestKafkaPublisher_RoutesByStream(t *testing.T) {
	w := &fakeWriter{}
	p := NewKafkaPublisher(w, nil, testTopic, nil)

	batchID := uuid.New()
	opened := &shipping.BatchOpenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(shipping.EventTypeBatchOpened, shipping.AggregateTypeBatch, batchID),
	}
	other := newTestEvent("SomethingElse")

	require.NoError(t, p.Publish(context.Background(), opened, statusChanged(uuid.New()), other))

	msgs := w.written()
	require.Len(t, msgs, 3)
	assert.Equal(t, "settlement.events.shipping", msgs[0].Topic)
	assert.Equal(t, batchID.String(), string(msgs[0].Key))
	assert.Equal(t, "settlement.events.orders", msgs[1].Topic)
	assert.Equal(t, testTopic, msgs[2].Topic)
	headers := KafkaHeaderCarrier(msgs[2].Headers)
	assert.Empty(t, headers.Get(HeaderEventVersion))
}

func TestKafkaPublisher_InjectsTraceContext(t *testing.T) {
	w := &fakeWriter{}
	p := NewKafkaPublisher(w, nil, testTopic, nil)
	p.propagator = propagation.TraceContext{}

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	require.NoError(t, p.Publish(ctx, statusChanged(uuid.New())))

	headers := KafkaHeaderCarrier(w.written()[0].Headers)
	assert.Contains(t, headers.Get("traceparent"), "4bf92f3577b34da6a3ce929d0e0e4736")
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := NewKafkaPublisher(w, nil, testTopic, nil)

	err := p.Publish(context.Background(), statusChanged(uuid.New()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}

func TestKafkaPublisher_EmptyIsNoop(t *testing.T) {
	w := &fakeWriter{err: errors.New("should not be called")}
	p := NewKafkaPublisher(w, nil, testTopic, nil)
	assert.NoError(t, p.Publish(context.Background()))
}

func TestKafkaPublisher_SubscribedToBus(t *testing.T) {
	w := &fakeWriter{}
	p := NewKafkaPublisher(w, nil, testTopic, nil)
	bus := NewInMemoryEventBus(zaptest.NewLogger(t))
	bus.Subscribe(p)

	require.NoError(t, bus.Publish(context.Background(), statusChanged(uuid.New()), statusChanged(uuid.New())))
	assert.Len(t, w.written(), 2)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaHeaderCarrier_SetReplaces(t *testing.T) {
	c := KafkaHeaderCarrier{}
	c.Set("a", "1")
	c.Set("a", "2")
	c.Set("b", "3")
	assert.Equal(t, "2", c.Get("a"))
	assert.ElementsMatch(t, []string{"a", "b"}, c.Keys())
	assert.Empty(t, c.Get("missing"))
}

func TestNewKafkaWriter(t *testing.T) {
	w := NewKafkaWriter(config.KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: testTopic})
	assert.Empty(t, w.Topic, "topic is chosen per message")
	assert.NoError(t, w.Close())
}
