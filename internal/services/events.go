package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"clothstore/internal/models"
)

// Routing keys for order events.
const (
	EventOrderCreated   = "order.created"
	EventOrderCancelled = "order.cancelled"
)

// EventPublisher sends an event body under a routing key. pkg/rabbitmq.Client implements it.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

// OrderEvent is the message body for order events.
type OrderEvent struct {
	Type       string          `json:"type"`
	OrderID    string          `json:"order_id"`
	CustomerID string          `json:"customer_id"`
	Status     string          `json:"status"`
	FinalPrice decimal.Decimal `json:"final_price"`
	IsPaid     bool            `json:"is_paid"`
	Items      int             `json:"items"`
	OccurredAt time.Time       `json:"occurred_at"`
}

func newOrderEvent(eventType string, order *models.Order) OrderEvent {
	return OrderEvent{
		Type:       eventType,
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Status:     string(order.Status),
		FinalPrice: order.FinalPrice,
		IsPaid:     order.IsPaid,
		Items:      len(order.Items),
		OccurredAt: time.Now().UTC(),
	}
}

// publishOrderEvent never fails the caller: the order is already committed.
func publishOrderEvent(ctx context.Context, publisher EventPublisher, logger *zap.Logger, event OrderEvent) {
	if publisher == nil {
		logger.Debug("event publisher not configured, skipping", zap.String("event", event.Type), zap.String("order_id", event.OrderID))
		return
	}

	body, err := json.Marshal(event)
	if err != nil {
		logger.Error("failed to marshal order event", zap.String("order_id", event.OrderID), zap.Error(err))
		return
	}
	if err := publisher.Publish(ctx, event.Type, body); err != nil {
		logger.Warn("failed to publish order event",
			zap.String("event", event.Type),
			zap.String("order_id", event.OrderID),
			zap.Error(err))
		return
	}
	logger.Info("published order event", zap.String("event", event.Type), zap.String("order_id", event.OrderID))
}

// OrderEventAuditor consumes order events and writes an audit log line per event.
type OrderEventAuditor struct {
	logger *zap.Logger
}

// NewOrderEventAuditor creates an OrderEventAuditor.
func NewOrderEventAuditor(logger *zap.Logger) *OrderEventAuditor {
	return &OrderEventAuditor{logger: logger.Named("audit")}
}

// Handle decodes one event. A returned error tells the consumer to drop the message.
func (a *OrderEventAuditor) Handle(routingKey string, body []byte) error {
	var event OrderEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("malformed %s event: %w", routingKey, err)
	}
	if event.OrderID == "" {
		return fmt.Errorf("malformed %s event: missing order_id", routingKey)
	}

	a.logger.Info("order event",
		zap.String("routing_key", routingKey),
		zap.String("type", event.Type),
		zap.String("order_id", event.OrderID),
		zap.String("customer_id", event.CustomerID),
		zap.String("status", event.Status),
		zap.String("final_price", event.FinalPrice.StringFixed(2)),
		zap.Bool("is_paid", event.IsPaid),
		zap.Int("items", event.Items),
		zap.Time("occurred_at", event.OccurredAt))
	return nil
}
