package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/streadway/amqp"
	"go.uber.org/zap"
)

// OrderEventsQueue receives every order.* event published on the exchange.
const OrderEventsQueue = "order_events"

const orderEventsBinding = "order.*"

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	logger   *zap.Logger
	mu       sync.Mutex // amqp.Channel is not safe for concurrent publishes
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL      string
	Exchange string
}

// NewClient connects to RabbitMQ and declares the durable topic exchange and the order events queue.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.Exchange == "" {
		return nil, errors.New("RabbitMQ exchange is required")
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareTopology(ch, cfg.Exchange); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	logger.Info("RabbitMQ client connected", zap.String("exchange", cfg.Exchange), zap.String("queue", OrderEventsQueue))
	return &Client{
		conn:     conn,
		channel:  ch,
		exchange: cfg.Exchange,
		logger:   logger,
	}, nil
}

func declareTopology(ch *amqp.Channel, exchange string) error {
	err := ch.ExchangeDeclare(
		exchange, // name
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	_, err = ch.QueueDeclare(
		OrderEventsQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", OrderEventsQueue, err)
	}

	if err := ch.QueueBind(OrderEventsQueue, orderEventsBinding, exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue %s: %w", OrderEventsQueue, err)
	}
	return nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Publish sends a persistent JSON message to the exchange under routingKey.
func (c *Client) Publish(ctx context.Context, routingKey string, body []byte) error {
	if c.channel == nil {
		return errors.New("RabbitMQ channel is not available")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	err := c.channel.Publish(
		c.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", routingKey, err)
	}

	c.logger.Debug("event published", zap.String("routing_key", routingKey), zap.Int("bytes", len(body)))
	return nil
}

// Handler processes one delivery. A returned error rejects the message without requeue.
type Handler func(routingKey string, body []byte) error

// ConsumeOrderEvents delivers messages from the order events queue to handler on a background goroutine
// until the channel closes.
func (c *Client) ConsumeOrderEvents(handler Handler) error {
	if c.channel == nil {
		return errors.New("RabbitMQ channel is not available for consumption")
	}

	msgs, err := c.channel.Consume(
		OrderEventsQueue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("waiting for order events", zap.String("queue", OrderEventsQueue))
	go func() {
		for msg := range msgs {
			settle(msg, msg.RoutingKey, msg.Body, msg.DeliveryTag, handler, c.logger)
		}
		c.logger.Info("order events consumer stopped")
	}()
	return nil
}

// acknowledger is the part of amqp.Delivery that settles a message.
type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// settle runs handler on one delivery. Failed messages are nacked without requeue.
func settle(ack acknowledger, routingKey string, body []byte, tag uint64, handler Handler, logger *zap.Logger) {
	if err := handler(routingKey, body); err != nil {
		logger.Warn("rejecting order event",
			zap.Uint64("delivery_tag", tag),
			zap.String("routing_key", routingKey),
			zap.Error(err))
		if nackErr := ack.Nack(false, false); nackErr != nil {
			logger.Error("failed to nack message", zap.Uint64("delivery_tag", tag), zap.Error(nackErr))
		}
		return
	}
	if ackErr := ack.Ack(false); ackErr != nil {
		logger.Error("failed to ack message", zap.Uint64("delivery_tag", tag), zap.Error(ackErr))
	}
}
