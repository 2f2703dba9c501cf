// Package queue provides the RabbitMQ-backed task publisher.
package queue

import (
	"context"
	"encoding/json"
	"log/slog"

	"storefront/internal/domain/service"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	defaultExchange = "storefront.tasks"

	routingKeyOrderPlaced        = "order.placed"
	routingKeyOrderStatusChanged = "order.status_changed"
	routingKeyRefundResolved     = "refund.resolved"
)

// rabbitPublisher implements the TaskPublisher interface on RabbitMQ.
// Declaring the exchange is done once at construction; publishing marks
// messages persistent so they survive broker restarts.
type rabbitPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	logger   *slog.Logger
}

// NewRabbitPublisher dials the broker and sets up the task exchange.
func NewRabbitPublisher(url, exchange string, logger *slog.Logger) (service.TaskPublisher, error) {
	if exchange == "" {
		exchange = defaultExchange
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errors.Wrap(err, "failed to dial RabbitMQ")
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()

		return nil, errors.Wrap(err, "failed to open RabbitMQ channel")
	}

	if err := ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		ch.Close()
		conn.Close()

		return nil, errors.Wrap(err, "failed to declare task exchange")
	}

	return &rabbitPublisher{
		conn:     conn,
		ch:       ch,
		exchange: exchange,
		logger:   logger,
	}, nil
}

// PublishOrderPlaced publishes a checkout task for async processing.
func (p *rabbitPublisher) PublishOrderPlaced(ctx context.Context, task *service.OrderPlacedTask) error {
	return p.publish(ctx, routingKeyOrderPlaced, task)
}

// PublishOrderStatusChanged publishes a delivery transition task.
func (p *rabbitPublisher) PublishOrderStatusChanged(ctx context.Context, task *service.OrderStatusChangedTask) error {
	return p.publish(ctx, routingKeyOrderStatusChanged, task)
}

// PublishRefundResolved publishes a refund resolution task.
func (p *rabbitPublisher) PublishRefundResolved(ctx context.Context, task *service.RefundResolvedTask) error {
	return p.publish(ctx, routingKeyRefundResolved, task)
}

func (p *rabbitPublisher) publish(ctx context.Context, routingKey string, task any) error {
	body, err := json.Marshal(task)
	if err != nil {
		return errors.Wrap(err, "failed to marshal task")
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	}

	if err := p.ch.PublishWithContext(
		ctx,
		p.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		pub,
	); err != nil {
		return errors.Wrapf(err, "failed to publish %s task", routingKey)
	}

	p.logger.Debug("Task published",
		slog.String("exchange", p.exchange),
		slog.String("routingKey", routingKey),
	)

	return nil
}

// Close releases the channel and connection.
func (p *rabbitPublisher) Close() error {
	if err := p.ch.Close(); err != nil {
		p.conn.Close()

		return errors.Wrap(err, "failed to close RabbitMQ channel")
	}

	return p.conn.Close()
}
