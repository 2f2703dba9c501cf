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

// refundService implements the RefundUsecase interface.
type refundService struct {
	txManager repository.TransactionManager
	publisher service.TaskPublisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewRefundService is the constructor for refundService.
func NewRefundService(
	txManager repository.TransactionManager,
	publisher service.TaskPublisher,
	logger *slog.Logger,
) usecase.RefundUsecase {
	return &refundService{
		txManager: txManager,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (srv *refundService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// RequestRefund opens a PENDING request for one of the actor's delivered
// order items. The delivery and window guards read the parent order; the
// duplicate guard rejects a second request while one is pending or approved.
func (srv *refundService) RequestRefund(ctx context.Context, actor entity.Principal, input usecase.RequestRefundInput) (*entity.RefundRequest, error) {
	if actor.Can(entity.CapRequestRefund) == entity.DecisionDeny {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "role may not request refunds")
	}
	if input.Reason == "" {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "reason is required")
	}

	var refund *entity.RefundRequest
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orderRepo := repoFactory.NewOrderRepository()
		refundRepo := repoFactory.NewRefundRepository()

		item, err := orderRepo.FindOrderItemByID(ctx, input.OrderItemID)
		if err != nil {
			if errors.Is(err, repository.ErrOrderItemNotFound) {
				return errors.Wrap(domainerrors.ErrNotFound, "order item not found")
			}

			return errors.Wrap(err, "failed to load order item")
		}
		if item.Order == nil {
			return errors.New("order item loaded without its order")
		}

		if item.Order.UserID != actor.UserID {
			return errors.Wrap(domainerrors.ErrForbidden, "order belongs to another user")
		}
		if item.Order.Status != entity.OrderDelivered {
			return errors.Wrapf(domainerrors.ErrOrderNotDelivered,
				"order is %s", item.Order.Status)
		}
		if item.Order.DeliveredAt == nil || !entity.RefundEligible(*item.Order.DeliveredAt, srv.now()) {
			return domainerrors.ErrRefundWindowExpired
		}

		blocked, err := refundRepo.HasBlockingRefundForItem(ctx, input.OrderItemID)
		if err != nil {
			return errors.Wrap(err, "failed to check existing refunds")
		}
		if blocked {
			return errors.Wrap(domainerrors.ErrDuplicateRefund,
				"a pending or approved request already exists for this item")
		}

		refund = &entity.RefundRequest{
			OrderItemID: input.OrderItemID,
			UserID:      actor.UserID,
			Reason:      input.Reason,
			Status:      entity.RefundPending,
		}

		return errors.Wrap(refundRepo.CreateRefund(ctx, refund), "failed to create refund request")
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Refund requested",
		slog.String("refundID", refund.ID.String()),
		slog.String("orderItemID", input.OrderItemID.String()))

	return refund, nil
}

// findOwnPending loads a refund request owned by the actor in PENDING state.
// Ownership failures dominate state failures so another user's request is
// always Forbidden, never InvalidTransition.
func (srv *refundService) findOwnPending(ctx context.Context, repoFactory repository.RepositoryFactory, actor entity.Principal, refundID uuid.UUID) (*entity.RefundRequest, error) {
	refund, err := repoFactory.NewRefundRepository().FindRefundByID(ctx, refundID)
	if err != nil {
		if errors.Is(err, repository.ErrRefundNotFound) {
			return nil, errors.Wrap(domainerrors.ErrNotFound, "refund request not found")
		}

		return nil, errors.Wrap(err, "failed to load refund request")
	}

	if refund.UserID != actor.UserID {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "refund request belongs to another user")
	}
	if refund.Status != entity.RefundPending {
		return nil, errors.Wrapf(domainerrors.ErrInvalidTransition,
			"refund request is %s", refund.Status)
	}

	return refund, nil
}

// UpdateReason rewrites the reason of the actor's own pending request.
func (srv *refundService) UpdateReason(ctx context.Context, actor entity.Principal, refundID uuid.UUID, reason string) (*entity.RefundRequest, error) {
	if reason == "" {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "reason is required")
	}

	var refund *entity.RefundRequest
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := srv.findOwnPending(ctx, repoFactory, actor, refundID)
		if err != nil {
			return err
		}

		if err := repoFactory.NewRefundRepository().UpdateReason(ctx, refundID, reason); err != nil {
			return errors.Wrap(err, "failed to update refund reason")
		}
		found.Reason = reason
		refund = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	return refund, nil
}

// CancelRequest withdraws the actor's own pending request.
func (srv *refundService) CancelRequest(ctx context.Context, actor entity.Principal, refundID uuid.UUID) error {
	return srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if _, err := srv.findOwnPending(ctx, repoFactory, actor, refundID); err != nil {
			return err
		}

		return errors.Wrap(repoFactory.NewRefundRepository().DeleteRefund(ctx, refundID), "failed to delete refund request")
	})
}

// ApproveRefund moves a pending request to APPROVED. The PENDING guard and
// the status write are one compare-and-swap: two managers racing the same
// request cannot both win.
func (srv *refundService) ApproveRefund(ctx context.Context, actor entity.Principal, refundID uuid.UUID) (*entity.RefundRequest, error) {
	return srv.resolve(ctx, actor, refundID, entity.RefundApproved, "")
}

// RejectRefund moves a pending request to REJECTED with a reason.
func (srv *refundService) RejectRefund(ctx context.Context, actor entity.Principal, input usecase.RejectRefundInput) (*entity.RefundRequest, error) {
	if input.RejectionReason == "" {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "rejection reason is required")
	}

	return srv.resolve(ctx, actor, input.RefundID, entity.RefundRejected, input.RejectionReason)
}

func (srv *refundService) resolve(ctx context.Context, actor entity.Principal, refundID uuid.UUID, to entity.RefundStatus, rejectionReason string) (*entity.RefundRequest, error) {
	if actor.Can(entity.CapResolveRefund) == entity.DecisionDeny {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "role may not resolve refunds")
	}

	var refund *entity.RefundRequest
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		refundRepo := repoFactory.NewRefundRepository()

		found, err := refundRepo.FindRefundByID(ctx, refundID)
		if err != nil {
			if errors.Is(err, repository.ErrRefundNotFound) {
				return errors.Wrap(domainerrors.ErrNotFound, "refund request not found")
			}

			return errors.Wrap(err, "failed to load refund request")
		}
		if found.Status != entity.RefundPending {
			return errors.Wrapf(domainerrors.ErrInvalidTransition,
				"refund request is already %s", found.Status)
		}

		resolution := repository.RefundResolution{
			ResolvedBy:      actor.UserID,
			ResolvedAt:      srv.now(),
			RejectionReason: rejectionReason,
		}
		swapped, err := refundRepo.ResolveIf(ctx, refundID, entity.RefundPending, to, resolution)
		if err != nil {
			return errors.Wrap(err, "failed to resolve refund request")
		}
		if !swapped {
			return errors.Wrap(domainerrors.ErrRefundConflict, "refund request resolved concurrently")
		}

		found.Status = to
		found.ApprovedBy = &resolution.ResolvedBy
		found.ApprovalDate = &resolution.ResolvedAt
		found.RejectionReason = rejectionReason
		refund = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	task := &service.RefundResolvedTask{
		RequestID: deliverycontext.GetRequestIDFromContext(ctx),
		RefundID:  refund.ID.String(),
		UserID:    refund.UserID.String(),
		Status:    refund.Status.String(),
	}
	if err := srv.publisher.PublishRefundResolved(ctx, task); err != nil {
		srv.log(ctx).Warn("Failed to publish refund resolved task", slog.Any("error", err))
	}

	return refund, nil
}

// ListRefunds returns the actor's own requests, or all requests for
// principals allowed to resolve them.
func (srv *refundService) ListRefunds(ctx context.Context, actor entity.Principal) ([]*entity.RefundRequest, error) {
	var refunds []*entity.RefundRequest

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		refundRepo := repoFactory.NewRefundRepository()

		var err error
		if actor.Can(entity.CapResolveRefund) == entity.DecisionAllow {
			refunds, err = refundRepo.ListRefunds(ctx)
		} else {
			refunds, err = refundRepo.ListRefundsByUser(ctx, actor.UserID)
		}

		return errors.Wrap(err, "failed to list refund requests")
	})
	if err != nil {
		return nil, err
	}

	return refunds, nil
}
