package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	mockRepo "storefront/internal/mocks/repository"
	mockSvc "storefront/internal/mocks/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// orderServiceFixtures holds all test dependencies for order service tests.
type orderServiceFixtures struct {
	service   usecase.OrderUsecase
	orders    *mockRepo.MockOrderRepository
	publisher *mockSvc.MockTaskPublisher
}

func createTestOrderService(t *testing.T) orderServiceFixtures {
	t.Helper()

	orders := &mockRepo.MockOrderRepository{}
	publisher := &mockSvc.MockTaskPublisher{}
	factory := &mockRepo.MockRepositoryFactory{Orders: orders}
	txManager := &mockRepo.MockTransactionManager{Factory: factory}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return orderServiceFixtures{
		service:   NewOrderService(txManager, publisher, logger),
		orders:    orders,
		publisher: publisher,
	}
}

func customerPrincipal() entity.Principal {
	return entity.Principal{UserID: uuid.New(), Role: entity.RoleCustomer}
}

func managerPrincipal() entity.Principal {
	return entity.Principal{UserID: uuid.New(), Role: entity.RoleSalesManager}
}

func TestOrderService_GetOrder_OtherUsersOrderForbidden(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()

	order := &entity.Order{ID: uuid.New(), UserID: uuid.New(), Status: entity.OrderProcessing}
	fx.orders.On("FindOrderByID", ctx, order.ID).Return(order, nil)

	_, err := fx.service.GetOrder(ctx, customerPrincipal(), order.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))

	// A sales manager can read any order.
	got, err := fx.service.GetOrder(ctx, managerPrincipal(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
}

func TestOrderService_CancelOrder_OnlyFromProcessing(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()

	actor := customerPrincipal()
	order := &entity.Order{ID: uuid.New(), UserID: actor.UserID, Status: entity.OrderInTransit}
	fx.orders.On("FindOrderByID", ctx, order.ID).Return(order, nil)

	_, err := fx.service.CancelOrder(ctx, actor, order.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidTransition))
	fx.orders.AssertNotCalled(t, "UpdateStatusIf", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_CancelOrder_Success(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()

	actor := customerPrincipal()
	order := &entity.Order{ID: uuid.New(), UserID: actor.UserID, Status: entity.OrderProcessing}
	fx.orders.On("FindOrderByID", ctx, order.ID).Return(order, nil)
	fx.orders.On("UpdateStatusIf", ctx, order.ID, entity.OrderProcessing, entity.OrderCancelled).
		Return(true, nil)
	fx.publisher.On("PublishOrderStatusChanged", ctx, mock.AnythingOfType("*service.OrderStatusChangedTask")).Return(nil)

	got, err := fx.service.CancelOrder(ctx, actor, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderCancelled, got.Status)
}

func TestOrderService_CancelOrder_LostRaceIsConflict(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()

	actor := customerPrincipal()
	order := &entity.Order{ID: uuid.New(), UserID: actor.UserID, Status: entity.OrderProcessing}
	fx.orders.On("FindOrderByID", ctx, order.ID).Return(order, nil)
	fx.orders.On("UpdateStatusIf", ctx, order.ID, entity.OrderProcessing, entity.OrderCancelled).
		Return(false, nil)

	_, err := fx.service.CancelOrder(ctx, actor, order.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrOrderConflict))
}

func TestOrderService_CancelOrder_CustomerOnly(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()

	_, err := fx.service.CancelOrder(ctx, managerPrincipal(), uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
}

func TestOrderService_AdvanceOrder_ToDeliveredStampsTimestamp(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()

	actor := managerPrincipal()
	order := &entity.Order{ID: uuid.New(), UserID: uuid.New(), Status: entity.OrderInTransit}
	fx.orders.On("FindOrderByID", ctx, order.ID).Return(order, nil)
	fx.orders.On("MarkDelivered", ctx, order.ID, entity.OrderInTransit, mock.AnythingOfType("time.Time"), "left at door").
		Return(true, nil)
	fx.publisher.On("PublishOrderStatusChanged", ctx, mock.Anything).Return(nil)

	got, err := fx.service.AdvanceOrder(ctx, actor, usecase.AdvanceOrderInput{
		OrderID:       order.ID,
		ToStatus:      entity.OrderDelivered,
		DeliveryNotes: "left at door",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderDelivered, got.Status)
	require.NotNil(t, got.DeliveredAt)
	assert.WithinDuration(t, time.Now(), *got.DeliveredAt, time.Minute)
	assert.Equal(t, "left at door", got.DeliveryNotes)
}

func TestOrderService_AdvanceOrder_BackwardIsInvalid(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()

	order := &entity.Order{ID: uuid.New(), UserID: uuid.New(), Status: entity.OrderDelivered}
	fx.orders.On("FindOrderByID", ctx, order.ID).Return(order, nil)

	_, err := fx.service.AdvanceOrder(ctx, managerPrincipal(), usecase.AdvanceOrderInput{
		OrderID:  order.ID,
		ToStatus: entity.OrderInTransit,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidTransition))
}

func TestOrderService_AdvanceOrder_ManagerOnly(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()

	_, err := fx.service.AdvanceOrder(ctx, customerPrincipal(), usecase.AdvanceOrderInput{
		OrderID:  uuid.New(),
		ToStatus: entity.OrderInTransit,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
}

func TestOrderService_ApproveOrder_FlagsAndAdvances(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()

	actor := managerPrincipal()
	order := &entity.Order{ID: uuid.New(), UserID: uuid.New(), Status: entity.OrderProcessing}
	fx.orders.On("FindOrderByID", ctx, order.ID).Return(order, nil)
	fx.orders.On("SetApproved", ctx, order.ID, true).Return(nil)
	fx.orders.On("UpdateStatusIf", ctx, order.ID, entity.OrderProcessing, entity.OrderInTransit).
		Return(true, nil)
	fx.publisher.On("PublishOrderStatusChanged", ctx, mock.Anything).Return(nil)

	got, err := fx.service.ApproveOrder(ctx, actor, order.ID)
	require.NoError(t, err)
	assert.True(t, got.IsApproved)
	assert.Equal(t, entity.OrderInTransit, got.Status)
}

func TestOrderService_ApproveOrder_IdempotentFlag(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()

	order := &entity.Order{ID: uuid.New(), UserID: uuid.New(), Status: entity.OrderInTransit, IsApproved: true}
	fx.orders.On("FindOrderByID", ctx, order.ID).Return(order, nil)

	got, err := fx.service.ApproveOrder(ctx, managerPrincipal(), order.ID)
	require.NoError(t, err)
	assert.True(t, got.IsApproved)
	fx.orders.AssertNotCalled(t, "SetApproved", mock.Anything, mock.Anything, mock.Anything)
	fx.publisher.AssertNotCalled(t, "PublishOrderStatusChanged", mock.Anything, mock.Anything)
}

func TestOrderService_ListOrders_ScopedByCapability(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()

	actor := customerPrincipal()
	fx.orders.On("ListOrdersByUser", ctx, actor.UserID).Return([]*entity.Order{}, nil)

	_, err := fx.service.ListOrders(ctx, actor)
	require.NoError(t, err)

	fx.orders.On("ListOrders", ctx).Return([]*entity.Order{}, nil)
	_, err = fx.service.ListOrders(ctx, managerPrincipal())
	require.NoError(t, err)
	fx.orders.AssertCalled(t, "ListOrders", ctx)
}
