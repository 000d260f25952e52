package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"commerce-service/internal/models"
	"commerce-service/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventPublisher handles publishing domain events. Order lifecycle events go
// to the order topic; stock movements go to the stock topic the restoration
// worker consumes.
type EventPublisher struct {
	orderProducer *Producer
	stockProducer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(orderProducer, stockProducer *Producer) *EventPublisher {
	return &EventPublisher{
		orderProducer: orderProducer,
		stockProducer: stockProducer,
	}
}

// PublishOrderCreated publishes OrderCreated event
func (ep *EventPublisher) PublishOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error {
	key := fmt.Sprintf("order-%d", event.OrderID)
	return ep.orderProducer.PublishEvent(ctx, key, event)
}

// PublishOrderConfirmed publishes OrderConfirmed event
func (ep *EventPublisher) PublishOrderConfirmed(ctx context.Context, event *models.OrderConfirmedEvent) error {
	key := fmt.Sprintf("order-%d", event.OrderID)
	return ep.orderProducer.PublishEvent(ctx, key, event)
}

// PublishOrderCancelled publishes OrderCancelled event
func (ep *EventPublisher) PublishOrderCancelled(ctx context.Context, event *models.OrderCancelledEvent) error {
	key := fmt.Sprintf("order-%d", event.OrderID)
	return ep.orderProducer.PublishEvent(ctx, key, event)
}

// PublishStockDeducted publishes StockDeducted event
func (ep *EventPublisher) PublishStockDeducted(ctx context.Context, event *models.StockDeductedEvent) error {
	key := fmt.Sprintf("order-%d", event.OrderID)
	return ep.stockProducer.PublishEvent(ctx, key, event)
}

// PublishStockRestore publishes a stock restoration request
func (ep *EventPublisher) PublishStockRestore(ctx context.Context, event *models.StockRestoreEvent) error {
	key := fmt.Sprintf("order-%d", event.OrderID)
	return ep.stockProducer.PublishEvent(ctx, key, event)
}

// EventHandler handles incoming events
type EventHandler struct {
	onStockRestore func(context.Context, *models.StockRestoreEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnStockRestore registers a handler for stock restoration requests
func (eh *EventHandler) OnStockRestore(handler func(context.Context, *models.StockRestoreEvent) error) {
	eh.onStockRestore = handler
}

// HandleMessage routes messages to appropriate handlers. Event types
// nobody subscribed to are acknowledged and dropped.
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	util.GetLogger().Debug("Handling event",
		zap.String("event_type", baseEvent.EventType),
		zap.String("event_id", baseEvent.EventID))

	switch baseEvent.EventType {
	case models.EventTypeStockRestore:
		if eh.onStockRestore != nil {
			var event models.StockRestoreEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal StockRestore event: %w", err)
			}
			return eh.onStockRestore(ctx, &event)
		}

	default:
		util.GetLogger().Debug("Unhandled event type",
			zap.String("event_type", baseEvent.EventType))
	}

	return nil
}
