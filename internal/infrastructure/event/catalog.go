package event

import (
	"encoding/json"
	"fmt"

	"github.com/napsterimports/backend/internal/domain/order"
	"github.com/napsterimports/backend/internal/domain/shared"
	"github.com/napsterimports/backend/internal/domain/shipping"
)

// Streams group event types onto one Kafka topic each
const (
	StreamShipping = "shipping"
	StreamOrders   = "orders"
)

// Route says where an event type is published and which payload schema
// version consumers should expect
type Route struct {
	Stream  string
	Version int
}

// Catalog maps the event types this service emits to their routes.
// Unknown types are still published, on the base topic.
type Catalog struct {
	routes map[string]Route
}

// NewCatalog returns the catalog of shipping and order events
func NewCatalog() *Catalog {
	return &Catalog{routes: map[string]Route{
		shipping.EventTypeConfigUpdated:      {Stream: StreamShipping, Version: 1},
		shipping.EventTypeBatchCreated:       {Stream: StreamShipping, Version: 1},
		shipping.EventTypeBatchOpened:        {Stream: StreamShipping, Version: 1},
		shipping.EventTypeBatchStatusChanged: {Stream: StreamShipping, Version: 1},
		order.EventTypeOrderCreated:          {Stream: StreamOrders, Version: 1},
		order.EventTypeOrderPaymentApplied:   {Stream: StreamOrders, Version: 1},
		order.EventTypeOrderStatusChanged:    {Stream: StreamOrders, Version: 1},
	}}
}

// Route looks up eventType
func (c *Catalog) Route(eventType string) (Route, bool) {
	r, ok := c.routes[eventType]
	return r, ok
}

// Topic returns the topic for eventType under base, e.g. "settlement.events.orders"
func (c *Catalog) Topic(base, eventType string) string {
	r, ok := c.routes[eventType]
	if !ok {
		return base
	}
	return base + "." + r.Stream
}

// Encode renders an event as its JSON payload
func (c *Catalog) Encode(ev shared.DomainEvent) ([]byte, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", ev.EventType(), err)
	}
	return data, nil
}
