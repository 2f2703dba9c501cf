package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	mockRepo "storefront/internal/mocks/repository"
	mockSvc "storefront/internal/mocks/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// cartServiceFixtures holds all test dependencies for cart service tests.
type cartServiceFixtures struct {
	service   usecase.CartUsecase
	carts     *mockRepo.MockCartRepository
	products  *mockRepo.MockProductRepository
	orders    *mockRepo.MockOrderRepository
	addresses *mockRepo.MockAddressRepository
	cache     *mockSvc.MockSnapshotCache
	publisher *mockSvc.MockTaskPublisher
}

func createTestCartService(t *testing.T) cartServiceFixtures {
	t.Helper()

	carts := &mockRepo.MockCartRepository{}
	products := &mockRepo.MockProductRepository{}
	orders := &mockRepo.MockOrderRepository{}
	addresses := &mockRepo.MockAddressRepository{}
	cache := &mockSvc.MockSnapshotCache{}
	publisher := &mockSvc.MockTaskPublisher{}

	factory := &mockRepo.MockRepositoryFactory{
		Carts:     carts,
		Products:  products,
		Orders:    orders,
		Addresses: addresses,
	}
	txManager := &mockRepo.MockTransactionManager{Factory: factory}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return cartServiceFixtures{
		service:   NewCartService(txManager, cache, publisher, logger),
		carts:     carts,
		products:  products,
		orders:    orders,
		addresses: addresses,
		cache:     cache,
		publisher: publisher,
	}
}

func testProduct(stock int, price string) *entity.Product {
	return &entity.Product{
		ID:            uuid.New(),
		Name:          "Test Product",
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
	}
}

func TestCartService_AddItem_MergeExceedsStock(t *testing.T) {
	fx := createTestCartService(t)
	ctx := context.Background()

	product := testProduct(5, "10.00")
	owner := entity.OwnerForUser(uuid.New())
	cart := &entity.Cart{ID: uuid.New(), Owner: owner}

	fx.products.On("FindByID", ctx, product.ID).Return(product, nil)
	fx.carts.On("FindOrCreateByOwner", ctx, owner).Return(cart, nil)
	fx.carts.On("CreateItem", ctx, mock.AnythingOfType("*entity.CartItem")).Return(nil).Once()
	fx.carts.On("FindByOwner", ctx, owner).Return(&entity.Cart{
		ID:    cart.ID,
		Owner: owner,
		Items: []*entity.CartItem{{ID: uuid.New(), CartID: cart.ID, ProductID: product.ID, Quantity: 3, Product: product}},
	}, nil)
	fx.cache.On("Invalidate", ctx, owner.CacheKey()).Return(nil)

	view, err := fx.service.AddItem(ctx, owner, usecase.AddCartItemInput{ProductID: product.ID, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, "30", view.Total.String())

	// Second add of 3 would push the line to 6 against a stock of 5.
	cart.Items = view.Cart.Items
	_, err = fx.service.AddItem(ctx, owner, usecase.AddCartItemInput{ProductID: product.ID, Quantity: 3})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrOutOfStock))
	fx.carts.AssertNumberOfCalls(t, "CreateItem", 1)
	fx.carts.AssertNotCalled(t, "UpdateItemQuantity", mock.Anything, mock.Anything, mock.Anything)
}

func TestCartService_UpdateItem_NotInCart(t *testing.T) {
	fx := createTestCartService(t)
	ctx := context.Background()

	owner := entity.OwnerForUser(uuid.New())
	fx.carts.On("FindByOwner", ctx, owner).Return(&entity.Cart{ID: uuid.New(), Owner: owner}, nil)

	_, err := fx.service.UpdateItem(ctx, owner, usecase.UpdateCartItemInput{ProductID: uuid.New(), Quantity: 2})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrItemNotInCart))
}

func TestCartService_RemoveItem_AbsentIsNoOp(t *testing.T) {
	fx := createTestCartService(t)
	ctx := context.Background()

	owner := entity.OwnerForSession("session-token")
	cart := &entity.Cart{ID: uuid.New(), Owner: owner}

	fx.carts.On("FindOrCreateByOwner", ctx, owner).Return(cart, nil)
	fx.carts.On("DeleteItemByProduct", ctx, cart.ID, mock.AnythingOfType("uuid.UUID")).Return(nil)
	fx.carts.On("FindByOwner", ctx, owner).Return(cart, nil)
	fx.cache.On("Invalidate", ctx, owner.CacheKey()).Return(nil)

	view, err := fx.service.RemoveItem(ctx, owner, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, view.Cart.Items)
}

func checkoutFixtures(t *testing.T) (cartServiceFixtures, entity.Principal, *entity.Cart, *entity.Product) {
	t.Helper()

	fx := createTestCartService(t)
	buyer := entity.Principal{UserID: uuid.New(), Role: entity.RoleCustomer}
	owner := entity.OwnerForUser(buyer.UserID)
	product := testProduct(10, "25.50")
	cart := &entity.Cart{
		ID:    uuid.New(),
		Owner: owner,
		Items: []*entity.CartItem{{ID: uuid.New(), ProductID: product.ID, Quantity: 2, Product: product}},
	}
	fx.carts.On("FindByOwner", mock.Anything, owner).Return(cart, nil)

	return fx, buyer, cart, product
}

func TestCartService_Checkout_Success(t *testing.T) {
	fx, buyer, cart, product := checkoutFixtures(t)
	ctx := context.Background()

	address := &entity.Address{
		ID:            uuid.New(),
		UserID:        buyer.UserID,
		StreetAddress: "123 Test Street",
		City:          "Test City",
		State:         "Test State",
		PostalCode:    "12345",
		Country:       "Test Country",
	}
	fx.addresses.On("FindAddressByID", ctx, address.ID).Return(address, nil)

	orderID := uuid.New()
	fx.orders.On("CreateOrder", ctx, mock.AnythingOfType("*entity.Order")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*entity.Order).ID = orderID
		}).
		Return(nil)
	fx.products.On("FindByID", ctx, product.ID).Return(product, nil)
	fx.products.On("DecrementStock", ctx, product.ID, 2).Return(nil)
	fx.orders.On("CreateOrderItem", ctx, mock.AnythingOfType("*entity.OrderItem")).Return(nil)
	fx.carts.On("ClearItems", ctx, cart.ID).Return(nil)
	fx.cache.On("Invalidate", ctx, entity.OwnerForUser(buyer.UserID).CacheKey()).Return(nil)
	fx.publisher.On("PublishOrderPlaced", ctx, mock.AnythingOfType("*service.OrderPlacedTask")).Return(nil)

	order, err := fx.service.Checkout(ctx, buyer, usecase.CheckoutInput{
		AddressID:   &address.ID,
		Payment:     entity.PaymentInfo{CardLastFour: "4242", CardHolder: "Test User", ExpiryDate: "12/30"},
		TotalAmount: decimal.RequireFromString("51.00"),
	})
	require.NoError(t, err)

	assert.Equal(t, orderID, order.ID)
	assert.Equal(t, entity.OrderProcessing, order.Status)
	assert.Equal(t, "123 Test Street, Test City, Test State, 12345, Test Country", order.ShippingAddress)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "25.5", order.Items[0].PriceAtTime.String())

	fx.orders.AssertExpectations(t)
	fx.carts.AssertExpectations(t)
	fx.publisher.AssertExpectations(t)
}

func TestCartService_Checkout_AddressNotOwned(t *testing.T) {
	fx, buyer, _, _ := checkoutFixtures(t)
	ctx := context.Background()

	foreign := &entity.Address{ID: uuid.New(), UserID: uuid.New()}
	fx.addresses.On("FindAddressByID", ctx, foreign.ID).Return(foreign, nil)

	_, err := fx.service.Checkout(ctx, buyer, usecase.CheckoutInput{
		AddressID:   &foreign.ID,
		TotalAmount: decimal.Zero,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrAddressNotOwned))
	fx.orders.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
}

func TestCartService_Checkout_ShippingAddressRequired(t *testing.T) {
	fx, buyer, _, _ := checkoutFixtures(t)
	ctx := context.Background()

	fx.addresses.On("FindMainAddressByUser", ctx, buyer.UserID).
		Return(nil, repository.ErrAddressNotFound)

	_, err := fx.service.Checkout(ctx, buyer, usecase.CheckoutInput{TotalAmount: decimal.Zero})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrShippingAddressRequired))
}

func TestCartService_Checkout_MainAddressFallback(t *testing.T) {
	fx, buyer, cart, product := checkoutFixtures(t)
	ctx := context.Background()

	main := &entity.Address{ID: uuid.New(), UserID: buyer.UserID, StreetAddress: "9 Main Road", City: "Town", IsMain: true}
	fx.addresses.On("FindMainAddressByUser", ctx, buyer.UserID).Return(main, nil)

	fx.orders.On("CreateOrder", ctx, mock.AnythingOfType("*entity.Order")).Return(nil)
	fx.products.On("FindByID", ctx, product.ID).Return(product, nil)
	fx.products.On("DecrementStock", ctx, product.ID, 2).Return(nil)
	fx.orders.On("CreateOrderItem", ctx, mock.AnythingOfType("*entity.OrderItem")).Return(nil)
	fx.carts.On("ClearItems", ctx, cart.ID).Return(nil)
	fx.cache.On("Invalidate", ctx, mock.AnythingOfType("string")).Return(nil)
	fx.publisher.On("PublishOrderPlaced", ctx, mock.Anything).Return(nil)

	order, err := fx.service.Checkout(ctx, buyer, usecase.CheckoutInput{TotalAmount: decimal.RequireFromString("51.00")})
	require.NoError(t, err)
	assert.Equal(t, "9 Main Road, Town", order.ShippingAddress)
	require.NotNil(t, order.AddressID)
	assert.Equal(t, main.ID, *order.AddressID)
}

func TestCartService_Checkout_VanishedProductSkipped(t *testing.T) {
	fx, buyer, cart, product := checkoutFixtures(t)
	ctx := context.Background()

	vanished := uuid.New()
	cart.Items = append(cart.Items, &entity.CartItem{ID: uuid.New(), ProductID: vanished, Quantity: 1})

	shipping := "1 Somewhere Lane"
	fx.orders.On("CreateOrder", ctx, mock.AnythingOfType("*entity.Order")).Return(nil)
	fx.products.On("FindByID", ctx, product.ID).Return(product, nil)
	fx.products.On("FindByID", ctx, vanished).Return(nil, repository.ErrProductNotFound)
	fx.products.On("DecrementStock", ctx, product.ID, 2).Return(nil)
	fx.orders.On("CreateOrderItem", ctx, mock.AnythingOfType("*entity.OrderItem")).Return(nil)
	fx.carts.On("ClearItems", ctx, cart.ID).Return(nil)
	fx.cache.On("Invalidate", ctx, mock.AnythingOfType("string")).Return(nil)
	fx.publisher.On("PublishOrderPlaced", ctx, mock.Anything).Return(nil)

	order, err := fx.service.Checkout(ctx, buyer, usecase.CheckoutInput{
		ShippingAddress: &shipping,
		TotalAmount:     decimal.RequireFromString("51.00"),
	})
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, product.ID, order.Items[0].ProductID)
}

func TestCartService_Checkout_InsufficientStockAborts(t *testing.T) {
	fx, buyer, _, product := checkoutFixtures(t)
	ctx := context.Background()

	shipping := "1 Somewhere Lane"
	fx.orders.On("CreateOrder", ctx, mock.AnythingOfType("*entity.Order")).Return(nil)
	fx.products.On("FindByID", ctx, product.ID).Return(product, nil)
	fx.products.On("DecrementStock", ctx, product.ID, 2).Return(repository.ErrInsufficientStock)

	_, err := fx.service.Checkout(ctx, buyer, usecase.CheckoutInput{
		ShippingAddress: &shipping,
		TotalAmount:     decimal.Zero,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrOutOfStock))
	fx.orders.AssertNotCalled(t, "CreateOrderItem", mock.Anything, mock.Anything)
	fx.carts.AssertNotCalled(t, "ClearItems", mock.Anything, mock.Anything)
	fx.publisher.AssertNotCalled(t, "PublishOrderPlaced", mock.Anything, mock.Anything)
}

func TestCartService_Checkout_EmptyCart(t *testing.T) {
	fx := createTestCartService(t)
	ctx := context.Background()

	buyer := entity.Principal{UserID: uuid.New(), Role: entity.RoleCustomer}
	owner := entity.OwnerForUser(buyer.UserID)
	fx.carts.On("FindByOwner", ctx, owner).Return(&entity.Cart{ID: uuid.New(), Owner: owner}, nil)

	_, err := fx.service.Checkout(ctx, buyer, usecase.CheckoutInput{TotalAmount: decimal.Zero})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestCartService_Checkout_PublishFailureIsNonFatal(t *testing.T) {
	fx, buyer, cart, product := checkoutFixtures(t)
	ctx := context.Background()

	shipping := "1 Somewhere Lane"
	fx.orders.On("CreateOrder", ctx, mock.AnythingOfType("*entity.Order")).Return(nil)
	fx.products.On("FindByID", ctx, product.ID).Return(product, nil)
	fx.products.On("DecrementStock", ctx, product.ID, 2).Return(nil)
	fx.orders.On("CreateOrderItem", ctx, mock.AnythingOfType("*entity.OrderItem")).Return(nil)
	fx.carts.On("ClearItems", ctx, cart.ID).Return(nil)
	fx.cache.On("Invalidate", ctx, mock.AnythingOfType("string")).Return(nil)
	fx.publisher.On("PublishOrderPlaced", ctx, mock.Anything).Return(errors.New("broker down"))

	_, err := fx.service.Checkout(ctx, buyer, usecase.CheckoutInput{
		ShippingAddress: &shipping,
		TotalAmount:     decimal.RequireFromString("51.00"),
	})
	require.NoError(t, err)
}
