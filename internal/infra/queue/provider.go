package queue

import (
	"context"
	"log/slog"

	"storefront/config"
	"storefront/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// mqProviderRabbit selects the RabbitMQ-backed publisher.
const mqProviderRabbit = "rabbit"

// noopPublisher is a no-op implementation when the message queue is disabled.
type noopPublisher struct {
	logger *slog.Logger
}

func (p *noopPublisher) PublishOrderPlaced(ctx context.Context, task *service.OrderPlacedTask) error {
	p.logger.Debug("[NoopQueue] Task publishing disabled, skipping",
		slog.String("order_id", task.OrderID),
	)

	return nil
}

func (p *noopPublisher) PublishOrderStatusChanged(ctx context.Context, task *service.OrderStatusChangedTask) error {
	p.logger.Debug("[NoopQueue] Task publishing disabled, skipping",
		slog.String("order_id", task.OrderID),
	)

	return nil
}

func (p *noopPublisher) PublishRefundResolved(ctx context.Context, task *service.RefundResolvedTask) error {
	p.logger.Debug("[NoopQueue] Task publishing disabled, skipping",
		slog.String("refund_id", task.RefundID),
	)

	return nil
}

func (p *noopPublisher) Close() error {
	return nil
}

// PublisherParams holds dependencies for TaskPublisher, injected by Fx
type PublisherParams struct {
	fx.In

	Lc     fx.Lifecycle
	Config *config.Config
	Logger *slog.Logger
}

// NewTaskPublisher creates a TaskPublisher based on configuration
func NewTaskPublisher(params PublisherParams) (service.TaskPublisher, error) {
	cfg := params.Config.MQ
	logger := params.Logger

	// If MQ is not configured, return a no-op publisher
	if cfg == nil || cfg.Provider == "" {
		logger.Info("MQ not configured, using no-op task publisher")

		return &noopPublisher{logger: logger}, nil
	}

	var publisher service.TaskPublisher
	var err error

	switch cfg.Provider {
	case mqProviderRabbit:
		if cfg.URL == "" {
			return nil, errors.New("amqp url is required for rabbit provider")
		}
		logger.Info("Using RabbitMQ task publisher",
			slog.String("exchange", cfg.Exchange),
		)

		publisher, err = NewRabbitPublisher(cfg.URL, cfg.Exchange, logger)
		if err != nil {
			return nil, err
		}

	default:
		return nil, errors.Errorf("unknown mq provider: %s", cfg.Provider)
	}

	// Register lifecycle hook to close publisher on shutdown
	params.Lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info("Closing TaskPublisher")

			return publisher.Close()
		},
	})

	return publisher, nil
}

// Module provides the queue FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewTaskPublisher),
)
