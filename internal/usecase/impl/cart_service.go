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

// cartTotalTTL bounds staleness of the cached cart total; mutations
// invalidate the key anyway, the TTL is a backstop.
const cartTotalTTL = 30 * time.Minute

// cartService implements the CartUsecase interface.
type cartService struct {
	txManager repository.TransactionManager
	cache     service.SnapshotCache
	publisher service.TaskPublisher
	logger    *slog.Logger
}

// NewCartService is the constructor for cartService.
func NewCartService(
	txManager repository.TransactionManager,
	cache service.SnapshotCache,
	publisher service.TaskPublisher,
	logger *slog.Logger,
) usecase.CartUsecase {
	return &cartService{
		txManager: txManager,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
	}
}

func (srv *cartService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// invalidateCartCache drops the cached cart total. Cache failures are logged
// and swallowed; the cache is never a source of truth.
func (srv *cartService) invalidateCartCache(ctx context.Context, owner entity.CartOwner) {
	if err := srv.cache.Invalidate(ctx, owner.CacheKey()); err != nil {
		srv.log(ctx).Warn("Failed to invalidate cart cache", slog.String("key", owner.CacheKey()), slog.Any("error", err))
	}
}

// GetCart returns the owner's cart, creating an empty one when absent.
func (srv *cartService) GetCart(ctx context.Context, owner entity.CartOwner) (*usecase.CartView, error) {
	if owner.IsZero() {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "cart owner is required")
	}

	var cart *entity.Cart
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.NewCartRepository().FindOrCreateByOwner(ctx, owner)
		if err != nil {
			return errors.Wrap(err, "failed to load cart")
		}
		cart = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	total := cart.Total()
	if err := srv.cache.Set(ctx, owner.CacheKey(), []byte(total.String()), cartTotalTTL); err != nil {
		srv.log(ctx).Warn("Failed to cache cart total", slog.Any("error", err))
	}

	return &usecase.CartView{Cart: cart, Total: total}, nil
}

// AddItem adds a product to the cart, merging quantities when the product is
// already present. The merged quantity may not exceed the product's stock.
func (srv *cartService) AddItem(ctx context.Context, owner entity.CartOwner, input usecase.AddCartItemInput) (*usecase.CartView, error) {
	if owner.IsZero() {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "cart owner is required")
	}
	if input.Quantity < 1 {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "quantity must be at least 1")
	}

	var cart *entity.Cart
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cartRepo := repoFactory.NewCartRepository()
		productRepo := repoFactory.NewProductRepository()

		product, err := productRepo.FindByID(ctx, input.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return errors.Wrap(domainerrors.ErrNotFound, "product not found")
			}

			return errors.Wrap(err, "failed to load product")
		}

		found, err := cartRepo.FindOrCreateByOwner(ctx, owner)
		if err != nil {
			return errors.Wrap(err, "failed to load cart")
		}

		existing := found.FindItem(input.ProductID)
		current := 0
		if existing != nil {
			current = existing.Quantity
		}
		if current+input.Quantity > product.StockQuantity {
			return errors.Wrapf(domainerrors.ErrOutOfStock,
				"requested %d, in cart %d, in stock %d", input.Quantity, current, product.StockQuantity)
		}

		if existing != nil {
			if err := cartRepo.UpdateItemQuantity(ctx, existing.ID, current+input.Quantity); err != nil {
				return errors.Wrap(err, "failed to update cart item")
			}
		} else {
			item := &entity.CartItem{
				CartID:    found.ID,
				ProductID: input.ProductID,
				Quantity:  input.Quantity,
			}
			if err := cartRepo.CreateItem(ctx, item); err != nil {
				return errors.Wrap(err, "failed to create cart item")
			}
		}

		reloaded, err := cartRepo.FindByOwner(ctx, owner)
		if err != nil {
			return errors.Wrap(err, "failed to reload cart")
		}
		cart = reloaded

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.invalidateCartCache(ctx, owner)

	return &usecase.CartView{Cart: cart, Total: cart.Total()}, nil
}

// UpdateItem overwrites the quantity of an existing cart line.
func (srv *cartService) UpdateItem(ctx context.Context, owner entity.CartOwner, input usecase.UpdateCartItemInput) (*usecase.CartView, error) {
	if owner.IsZero() {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "cart owner is required")
	}
	if input.Quantity < 1 {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "quantity must be at least 1")
	}

	var cart *entity.Cart
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cartRepo := repoFactory.NewCartRepository()
		productRepo := repoFactory.NewProductRepository()

		found, err := cartRepo.FindByOwner(ctx, owner)
		if err != nil {
			if errors.Is(err, repository.ErrCartNotFound) {
				return errors.Wrap(domainerrors.ErrItemNotInCart, "cart is empty")
			}

			return errors.Wrap(err, "failed to load cart")
		}

		existing := found.FindItem(input.ProductID)
		if existing == nil {
			return errors.Wrap(domainerrors.ErrItemNotInCart, "product is not in the cart")
		}

		product, err := productRepo.FindByID(ctx, input.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return errors.Wrap(domainerrors.ErrNotFound, "product not found")
			}

			return errors.Wrap(err, "failed to load product")
		}

		if input.Quantity > product.StockQuantity {
			return errors.Wrapf(domainerrors.ErrOutOfStock,
				"requested %d, in stock %d", input.Quantity, product.StockQuantity)
		}

		if err := cartRepo.UpdateItemQuantity(ctx, existing.ID, input.Quantity); err != nil {
			return errors.Wrap(err, "failed to update cart item")
		}

		reloaded, err := cartRepo.FindByOwner(ctx, owner)
		if err != nil {
			return errors.Wrap(err, "failed to reload cart")
		}
		cart = reloaded

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.invalidateCartCache(ctx, owner)

	return &usecase.CartView{Cart: cart, Total: cart.Total()}, nil
}

// RemoveItem deletes a cart line. Removing an absent product is a no-op.
func (srv *cartService) RemoveItem(ctx context.Context, owner entity.CartOwner, productID uuid.UUID) (*usecase.CartView, error) {
	if owner.IsZero() {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "cart owner is required")
	}

	var cart *entity.Cart
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cartRepo := repoFactory.NewCartRepository()

		found, err := cartRepo.FindOrCreateByOwner(ctx, owner)
		if err != nil {
			return errors.Wrap(err, "failed to load cart")
		}

		if err := cartRepo.DeleteItemByProduct(ctx, found.ID, productID); err != nil {
			return errors.Wrap(err, "failed to remove cart item")
		}

		reloaded, err := cartRepo.FindByOwner(ctx, owner)
		if err != nil {
			return errors.Wrap(err, "failed to reload cart")
		}
		cart = reloaded

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.invalidateCartCache(ctx, owner)

	return &usecase.CartView{Cart: cart, Total: cart.Total()}, nil
}

// ClearCart removes every line from the owner's cart.
func (srv *cartService) ClearCart(ctx context.Context, owner entity.CartOwner) error {
	if owner.IsZero() {
		return errors.Wrap(domainerrors.ErrValidationFailed, "cart owner is required")
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cartRepo := repoFactory.NewCartRepository()

		found, err := cartRepo.FindByOwner(ctx, owner)
		if err != nil {
			if errors.Is(err, repository.ErrCartNotFound) {
				return nil
			}

			return errors.Wrap(err, "failed to load cart")
		}

		return errors.Wrap(cartRepo.ClearItems(ctx, found.ID), "failed to clear cart")
	})
	if err != nil {
		return err
	}

	srv.invalidateCartCache(ctx, owner)

	return nil
}

// Checkout converts the buyer's cart into an order. Stock decrements,
// order line creation and the cart wipe commit in one transaction; the
// async task publish happens after commit and is best-effort.
func (srv *cartService) Checkout(ctx context.Context, buyer entity.Principal, input usecase.CheckoutInput) (*entity.Order, error) {
	if buyer.Can(entity.CapPlaceOrder) == entity.DecisionDeny {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "role may not place orders")
	}

	owner := entity.OwnerForUser(buyer.UserID)
	logger := srv.log(ctx)

	var order *entity.Order
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cartRepo := repoFactory.NewCartRepository()
		productRepo := repoFactory.NewProductRepository()
		orderRepo := repoFactory.NewOrderRepository()

		cart, err := cartRepo.FindByOwner(ctx, owner)
		if err != nil {
			if errors.Is(err, repository.ErrCartNotFound) {
				return errors.Wrap(domainerrors.ErrValidationFailed, "cart is empty")
			}

			return errors.Wrap(err, "failed to load cart")
		}
		if len(cart.Items) == 0 {
			return errors.Wrap(domainerrors.ErrValidationFailed, "cart is empty")
		}

		shippingText, addressID, err := srv.resolveShipping(ctx, repoFactory, buyer.UserID, input)
		if err != nil {
			return err
		}

		order = &entity.Order{
			UserID:          buyer.UserID,
			Status:          entity.OrderProcessing,
			TotalAmount:     input.TotalAmount,
			ShippingAddress: shippingText,
			AddressID:       addressID,
			Payment:         input.Payment,
		}
		if err := orderRepo.CreateOrder(ctx, order); err != nil {
			return errors.Wrap(err, "failed to create order")
		}

		for _, line := range cart.Items {
			product, err := productRepo.FindByID(ctx, line.ProductID)
			if err != nil {
				if errors.Is(err, repository.ErrProductNotFound) {
					// Product vanished between cart-add and checkout.
					// Best-effort policy: skip the line, keep the order.
					logger.Warn("Skipping vanished product at checkout",
						slog.String("orderID", order.ID.String()),
						slog.String("productID", line.ProductID.String()))

					continue
				}

				return errors.Wrap(err, "failed to load product")
			}

			if err := productRepo.DecrementStock(ctx, product.ID, line.Quantity); err != nil {
				if errors.Is(err, repository.ErrInsufficientStock) {
					return errors.Wrapf(domainerrors.ErrOutOfStock,
						"product %s has insufficient stock", product.ID)
				}

				return errors.Wrap(err, "failed to decrement stock")
			}

			item := &entity.OrderItem{
				OrderID:     order.ID,
				ProductID:   product.ID,
				Quantity:    line.Quantity,
				PriceAtTime: product.Price,
			}
			if err := orderRepo.CreateOrderItem(ctx, item); err != nil {
				return errors.Wrap(err, "failed to create order item")
			}
			order.Items = append(order.Items, item)
		}

		if err := cartRepo.ClearItems(ctx, cart.ID); err != nil {
			return errors.Wrap(err, "failed to clear cart")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// The stored total is the caller's figure; a mismatch against the line
	// sum is worth an audit trail entry but never blocks the order.
	if itemsTotal := order.ItemsTotal(); !itemsTotal.Equal(order.TotalAmount) {
		logger.Warn("Order total differs from line sum",
			slog.String("orderID", order.ID.String()),
			slog.String("totalAmount", order.TotalAmount.String()),
			slog.String("itemsTotal", itemsTotal.String()))
	}

	srv.invalidateCartCache(ctx, owner)

	task := &service.OrderPlacedTask{
		RequestID:   deliverycontext.GetRequestIDFromContext(ctx),
		OrderID:     order.ID.String(),
		UserID:      buyer.UserID.String(),
		TotalAmount: order.TotalAmount.String(),
		ItemCount:   len(order.Items),
	}
	if err := srv.publisher.PublishOrderPlaced(ctx, task); err != nil {
		logger.Warn("Failed to publish order placed task", slog.Any("error", err))
	}

	logger.Info("Checkout completed",
		slog.String("orderID", order.ID.String()),
		slog.Int("items", len(order.Items)))

	return order, nil
}

// resolveShipping picks the order's shipping snapshot. An explicit address
// reference wins, then explicit shipping text, then the buyer's main address.
func (srv *cartService) resolveShipping(
	ctx context.Context,
	repoFactory repository.RepositoryFactory,
	userID uuid.UUID,
	input usecase.CheckoutInput,
) (string, *uuid.UUID, error) {
	addressRepo := repoFactory.NewAddressRepository()

	if input.AddressID != nil {
		address, err := addressRepo.FindAddressByID(ctx, *input.AddressID)
		if err != nil {
			if errors.Is(err, repository.ErrAddressNotFound) {
				return "", nil, errors.Wrap(domainerrors.ErrAddressNotOwned, "address not found")
			}

			return "", nil, errors.Wrap(err, "failed to load address")
		}
		if address.UserID != userID {
			return "", nil, errors.Wrap(domainerrors.ErrAddressNotOwned, "address belongs to another user")
		}

		return address.ShippingText(), &address.ID, nil
	}

	if input.ShippingAddress != nil && *input.ShippingAddress != "" {
		return *input.ShippingAddress, nil, nil
	}

	main, err := addressRepo.FindMainAddressByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			return "", nil, domainerrors.ErrShippingAddressRequired
		}

		return "", nil, errors.Wrap(err, "failed to load main address")
	}

	return main.ShippingText(), &main.ID, nil
}
