package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	mockRepo "storefront/internal/mocks/repository"
	mockSvc "storefront/internal/mocks/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// refundServiceFixtures holds all test dependencies for refund service tests.
type refundServiceFixtures struct {
	service   usecase.RefundUsecase
	orders    *mockRepo.MockOrderRepository
	refunds   *mockRepo.MockRefundRepository
	publisher *mockSvc.MockTaskPublisher
}

func createTestRefundService(t *testing.T) refundServiceFixtures {
	t.Helper()

	orders := &mockRepo.MockOrderRepository{}
	refunds := &mockRepo.MockRefundRepository{}
	publisher := &mockSvc.MockTaskPublisher{}
	factory := &mockRepo.MockRepositoryFactory{Orders: orders, Refunds: refunds}
	txManager := &mockRepo.MockTransactionManager{Factory: factory}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return refundServiceFixtures{
		service:   NewRefundService(txManager, publisher, logger),
		orders:    orders,
		refunds:   refunds,
		publisher: publisher,
	}
}

// deliveredItem builds an order item of a delivered order owned by userID.
func deliveredItem(userID uuid.UUID, deliveredAgo time.Duration) *entity.OrderItem {
	deliveredAt := time.Now().Add(-deliveredAgo)

	return &entity.OrderItem{
		ID:      uuid.New(),
		OrderID: uuid.New(),
		Order: &entity.Order{
			ID:          uuid.New(),
			UserID:      userID,
			Status:      entity.OrderDelivered,
			DeliveredAt: &deliveredAt,
		},
	}
}

func TestRefundService_RequestRefund_Success(t *testing.T) {
	fx := createTestRefundService(t)
	ctx := context.Background()

	actor := customerPrincipal()
	item := deliveredItem(actor.UserID, 5*24*time.Hour)
	fx.orders.On("FindOrderItemByID", ctx, item.ID).Return(item, nil)
	fx.refunds.On("HasBlockingRefundForItem", ctx, item.ID).Return(false, nil)
	fx.refunds.On("CreateRefund", ctx, mock.AnythingOfType("*entity.RefundRequest")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*entity.RefundRequest).ID = uuid.New()
		}).
		Return(nil)

	refund, err := fx.service.RequestRefund(ctx, actor, usecase.RequestRefundInput{
		OrderItemID: item.ID,
		Reason:      "damaged on arrival",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RefundPending, refund.Status)
	assert.Equal(t, actor.UserID, refund.UserID)
}

func TestRefundService_RequestRefund_OrderNotDelivered(t *testing.T) {
	fx := createTestRefundService(t)
	ctx := context.Background()

	actor := customerPrincipal()
	item := deliveredItem(actor.UserID, time.Hour)
	item.Order.Status = entity.OrderInTransit
	fx.orders.On("FindOrderItemByID", ctx, item.ID).Return(item, nil)

	_, err := fx.service.RequestRefund(ctx, actor, usecase.RequestRefundInput{OrderItemID: item.ID, Reason: "r"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrOrderNotDelivered))
}

func TestRefundService_RequestRefund_WindowExpired(t *testing.T) {
	fx := createTestRefundService(t)
	ctx := context.Background()

	actor := customerPrincipal()
	item := deliveredItem(actor.UserID, 31*24*time.Hour)
	fx.orders.On("FindOrderItemByID", ctx, item.ID).Return(item, nil)

	_, err := fx.service.RequestRefund(ctx, actor, usecase.RequestRefundInput{OrderItemID: item.ID, Reason: "r"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrRefundWindowExpired))
	fx.refunds.AssertNotCalled(t, "CreateRefund", mock.Anything, mock.Anything)
}

func TestRefundService_RequestRefund_Duplicate(t *testing.T) {
	fx := createTestRefundService(t)
	ctx := context.Background()

	actor := customerPrincipal()
	item := deliveredItem(actor.UserID, time.Hour)
	fx.orders.On("FindOrderItemByID", ctx, item.ID).Return(item, nil)
	fx.refunds.On("HasBlockingRefundForItem", ctx, item.ID).Return(true, nil)

	_, err := fx.service.RequestRefund(ctx, actor, usecase.RequestRefundInput{OrderItemID: item.ID, Reason: "r"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrDuplicateRefund))
}

func TestRefundService_RequestRefund_ForeignOrderForbidden(t *testing.T) {
	fx := createTestRefundService(t)
	ctx := context.Background()

	item := deliveredItem(uuid.New(), time.Hour)
	fx.orders.On("FindOrderItemByID", ctx, item.ID).Return(item, nil)

	_, err := fx.service.RequestRefund(ctx, customerPrincipal(), usecase.RequestRefundInput{OrderItemID: item.ID, Reason: "r"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
}

func TestRefundService_UpdateReason_ForeignRequestForbidden(t *testing.T) {
	fx := createTestRefundService(t)
	ctx := context.Background()

	refund := &entity.RefundRequest{ID: uuid.New(), UserID: uuid.New(), Status: entity.RefundPending}
	fx.refunds.On("FindRefundByID", ctx, refund.ID).Return(refund, nil)

	_, err := fx.service.UpdateReason(ctx, customerPrincipal(), refund.ID, "new reason")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
}

func TestRefundService_CancelRequest_PendingOnly(t *testing.T) {
	fx := createTestRefundService(t)
	ctx := context.Background()

	actor := customerPrincipal()
	refund := &entity.RefundRequest{ID: uuid.New(), UserID: actor.UserID, Status: entity.RefundApproved}
	fx.refunds.On("FindRefundByID", ctx, refund.ID).Return(refund, nil)

	err := fx.service.CancelRequest(ctx, actor, refund.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidTransition))
	fx.refunds.AssertNotCalled(t, "DeleteRefund", mock.Anything, mock.Anything)
}

func TestRefundService_ApproveRefund_Success(t *testing.T) {
	fx := createTestRefundService(t)
	ctx := context.Background()

	manager := managerPrincipal()
	refund := &entity.RefundRequest{ID: uuid.New(), UserID: uuid.New(), Status: entity.RefundPending}
	fx.refunds.On("FindRefundByID", ctx, refund.ID).Return(refund, nil)
	fx.refunds.On("ResolveIf", ctx, refund.ID, entity.RefundPending, entity.RefundApproved,
		mock.AnythingOfType("repository.RefundResolution")).Return(true, nil)
	fx.publisher.On("PublishRefundResolved", ctx, mock.AnythingOfType("*service.RefundResolvedTask")).Return(nil)

	got, err := fx.service.ApproveRefund(ctx, manager, refund.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RefundApproved, got.Status)
	require.NotNil(t, got.ApprovedBy)
	assert.Equal(t, manager.UserID, *got.ApprovedBy)
	require.NotNil(t, got.ApprovalDate)
}

func TestRefundService_ApproveRefund_AlreadyResolved(t *testing.T) {
	fx := createTestRefundService(t)
	ctx := context.Background()

	refund := &entity.RefundRequest{ID: uuid.New(), UserID: uuid.New(), Status: entity.RefundApproved}
	fx.refunds.On("FindRefundByID", ctx, refund.ID).Return(refund, nil)

	_, err := fx.service.ApproveRefund(ctx, managerPrincipal(), refund.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidTransition))
}

func TestRefundService_ApproveRefund_LostRaceIsConflict(t *testing.T) {
	fx := createTestRefundService(t)
	ctx := context.Background()

	refund := &entity.RefundRequest{ID: uuid.New(), UserID: uuid.New(), Status: entity.RefundPending}
	fx.refunds.On("FindRefundByID", ctx, refund.ID).Return(refund, nil)
	fx.refunds.On("ResolveIf", ctx, refund.ID, entity.RefundPending, entity.RefundApproved,
		mock.AnythingOfType("repository.RefundResolution")).Return(false, nil)

	_, err := fx.service.ApproveRefund(ctx, managerPrincipal(), refund.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrRefundConflict))
}

func TestRefundService_RejectRefund_RequiresReason(t *testing.T) {
	fx := createTestRefundService(t)
	ctx := context.Background()

	_, err := fx.service.RejectRefund(ctx, managerPrincipal(), usecase.RejectRefundInput{RefundID: uuid.New()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestRefundService_RejectRefund_RecordsReason(t *testing.T) {
	fx := createTestRefundService(t)
	ctx := context.Background()

	refund := &entity.RefundRequest{ID: uuid.New(), UserID: uuid.New(), Status: entity.RefundPending}
	fx.refunds.On("FindRefundByID", ctx, refund.ID).Return(refund, nil)
	fx.refunds.On("ResolveIf", ctx, refund.ID, entity.RefundPending, entity.RefundRejected,
		mock.MatchedBy(func(res repository.RefundResolution) bool {
			return res.RejectionReason == "outside policy"
		})).Return(true, nil)
	fx.publisher.On("PublishRefundResolved", ctx, mock.Anything).Return(nil)

	got, err := fx.service.RejectRefund(ctx, managerPrincipal(), usecase.RejectRefundInput{
		RefundID:        refund.ID,
		RejectionReason: "outside policy",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RefundRejected, got.Status)
	assert.Equal(t, "outside policy", got.RejectionReason)
}

func TestRefundService_ResolveIsManagerOnly(t *testing.T) {
	fx := createTestRefundService(t)
	ctx := context.Background()

	_, err := fx.service.ApproveRefund(ctx, customerPrincipal(), uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
}
