package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// orderService implements the OrderUsecase interface.
type orderService struct {
	txManager repository.TransactionManager
	publisher service.TaskPublisher
	logger    *slog.Logger
}

// NewOrderService is the constructor for orderService.
func NewOrderService(
	txManager repository.TransactionManager,
	publisher service.TaskPublisher,
	logger *slog.Logger,
) usecase.OrderUsecase {
	return &orderService{
		txManager: txManager,
		publisher: publisher,
		logger:    logger,
	}
}

func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// findOrder loads an order and applies the ownership rule: customers see
// only their own orders, view-all principals see any.
func (srv *orderService) findOrder(ctx context.Context, repoFactory repository.RepositoryFactory, actor entity.Principal, orderID uuid.UUID) (*entity.Order, error) {
	order, err := repoFactory.NewOrderRepository().FindOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, errors.Wrap(domainerrors.ErrNotFound, "order not found")
		}

		return nil, errors.Wrap(err, "failed to load order")
	}

	if order.UserID != actor.UserID && actor.Can(entity.CapViewAllOrders) == entity.DecisionDeny {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "order belongs to another user")
	}

	return order, nil
}

// GetOrder returns a single order the actor is allowed to see.
func (srv *orderService) GetOrder(ctx context.Context, actor entity.Principal, orderID uuid.UUID) (*entity.Order, error) {
	var order *entity.Order

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := srv.findOrder(ctx, repoFactory, actor, orderID)
		if err != nil {
			return err
		}
		order = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

// ListOrders returns the actor's own orders, or every order for view-all principals.
func (srv *orderService) ListOrders(ctx context.Context, actor entity.Principal) ([]*entity.Order, error) {
	var orders []*entity.Order

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orderRepo := repoFactory.NewOrderRepository()

		var err error
		if actor.Can(entity.CapViewAllOrders) == entity.DecisionAllow {
			orders, err = orderRepo.ListOrders(ctx)
		} else {
			orders, err = orderRepo.ListOrdersByUser(ctx, actor.UserID)
		}

		return errors.Wrap(err, "failed to list orders")
	})
	if err != nil {
		return nil, err
	}

	return orders, nil
}

// CancelOrder moves the actor's own PROCESSING order to CANCELLED.
// The status guard is a compare-and-swap so a concurrent advance cannot
// race the cancellation into an illegal state.
func (srv *orderService) CancelOrder(ctx context.Context, actor entity.Principal, orderID uuid.UUID) (*entity.Order, error) {
	if actor.Can(entity.CapCancelOwnOrder) == entity.DecisionDeny {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "role may not cancel orders")
	}

	var order *entity.Order
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orderRepo := repoFactory.NewOrderRepository()

		found, err := srv.findOrder(ctx, repoFactory, actor, orderID)
		if err != nil {
			return err
		}
		if found.UserID != actor.UserID {
			return errors.Wrap(domainerrors.ErrForbidden, "only the order owner may cancel")
		}

		if !found.Status.CanTransitionTo(entity.OrderCancelled) {
			return errors.Wrapf(domainerrors.ErrInvalidTransition,
				"cannot cancel order in status %s", found.Status)
		}

		swapped, err := orderRepo.UpdateStatusIf(ctx, orderID, entity.OrderProcessing, entity.OrderCancelled)
		if err != nil {
			return errors.Wrap(err, "failed to cancel order")
		}
		if !swapped {
			return errors.Wrap(domainerrors.ErrOrderConflict, "order status changed concurrently")
		}

		found.Status = entity.OrderCancelled
		order = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.publishStatusChange(ctx, order, entity.OrderProcessing)

	return order, nil
}

// AdvanceOrder performs a manager-side forward transition. Moving to
// DELIVERED stamps delivered_at and the delivery notes in the same guarded
// update that flips the status.
func (srv *orderService) AdvanceOrder(ctx context.Context, actor entity.Principal, input usecase.AdvanceOrderInput) (*entity.Order, error) {
	if actor.Can(entity.CapAdvanceOrder) == entity.DecisionDeny {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "role may not advance orders")
	}
	if !input.ToStatus.IsValid() || input.ToStatus == entity.OrderCancelled {
		return nil, errors.Wrapf(domainerrors.ErrValidationFailed, "invalid target status %q", input.ToStatus)
	}

	var (
		order      *entity.Order
		fromStatus entity.OrderStatus
	)
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orderRepo := repoFactory.NewOrderRepository()

		found, err := srv.findOrder(ctx, repoFactory, actor, input.OrderID)
		if err != nil {
			return err
		}
		fromStatus = found.Status

		if !found.Status.CanTransitionTo(input.ToStatus) {
			return errors.Wrapf(domainerrors.ErrInvalidTransition,
				"cannot move order from %s to %s", found.Status, input.ToStatus)
		}

		var swapped bool
		if input.ToStatus == entity.OrderDelivered {
			deliveredAt := time.Now()
			swapped, err = orderRepo.MarkDelivered(ctx, input.OrderID, found.Status, deliveredAt, input.DeliveryNotes)
			if swapped {
				found.DeliveredAt = &deliveredAt
				found.DeliveryNotes = input.DeliveryNotes
			}
		} else {
			swapped, err = orderRepo.UpdateStatusIf(ctx, input.OrderID, found.Status, input.ToStatus)
		}
		if err != nil {
			return errors.Wrap(err, "failed to advance order")
		}
		if !swapped {
			return errors.Wrap(domainerrors.ErrOrderConflict, "order status changed concurrently")
		}

		found.Status = input.ToStatus
		order = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.publishStatusChange(ctx, order, fromStatus)

	return order, nil
}

// ApproveOrder records the manager sign-off and moves a PROCESSING order to
// IN_TRANSIT. Re-approving an already approved order is a no-op on the flag.
func (srv *orderService) ApproveOrder(ctx context.Context, actor entity.Principal, orderID uuid.UUID) (*entity.Order, error) {
	if actor.Can(entity.CapApproveOrder) == entity.DecisionDeny {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "role may not approve orders")
	}

	var (
		order      *entity.Order
		fromStatus entity.OrderStatus
		advanced   bool
	)
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orderRepo := repoFactory.NewOrderRepository()

		found, err := srv.findOrder(ctx, repoFactory, actor, orderID)
		if err != nil {
			return err
		}
		fromStatus = found.Status

		if !found.IsApproved {
			if err := orderRepo.SetApproved(ctx, orderID, true); err != nil {
				return errors.Wrap(err, "failed to approve order")
			}
			found.IsApproved = true
		}

		if found.Status == entity.OrderProcessing {
			swapped, err := orderRepo.UpdateStatusIf(ctx, orderID, entity.OrderProcessing, entity.OrderInTransit)
			if err != nil {
				return errors.Wrap(err, "failed to advance approved order")
			}
			if !swapped {
				return errors.Wrap(domainerrors.ErrOrderConflict, "order status changed concurrently")
			}
			found.Status = entity.OrderInTransit
			advanced = true
		}

		order = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	if advanced {
		srv.publishStatusChange(ctx, order, fromStatus)
	}

	return order, nil
}

// publishStatusChange emits the transition task after commit. Failures are
// logged only; the state change already happened.
func (srv *orderService) publishStatusChange(ctx context.Context, order *entity.Order, from entity.OrderStatus) {
	task := &service.OrderStatusChangedTask{
		RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
		OrderID:    order.ID.String(),
		UserID:     order.UserID.String(),
		FromStatus: from.String(),
		ToStatus:   order.Status.String(),
	}
	if err := srv.publisher.PublishOrderStatusChanged(ctx, task); err != nil {
		srv.log(ctx).Warn("Failed to publish order status task",
			slog.String("orderID", order.ID.String()), slog.Any("error", err))
	}
}
