package postgres

import (
	"context"
	"time"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// orderRepository implements the domain's OrderRepository interface using GORM.
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

// CreateOrder persists a new order header.
func (repo *orderRepository) CreateOrder(ctx context.Context, order *entity.Order) error {
	orderM := fromOrderDomain(order)

	if err := repo.db.WithContext(ctx).Create(orderM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound.WrapMessage("order owner does not exist")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create order")
	}

	order.ID = orderM.ID
	order.CreatedAt = orderM.CreatedAt
	order.UpdatedAt = orderM.UpdatedAt

	return nil
}

// CreateOrderItem persists a single order line.
func (repo *orderRepository) CreateOrderItem(ctx context.Context, item *entity.OrderItem) error {
	itemM := model.OrderItemModel{
		OrderID:     item.OrderID,
		ProductID:   item.ProductID,
		Quantity:    item.Quantity,
		PriceAtTime: item.PriceAtTime,
	}

	if err := repo.db.WithContext(ctx).Create(&itemM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create order item")
	}

	item.ID = itemM.ID

	return nil
}

// FindOrderByID retrieves an order with its items and products preloaded.
func (repo *orderRepository) FindOrderByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var orderM model.OrderModel
	err := repo.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_items.created_at ASC")
		}).
		Preload("Items.Product").
		First(&orderM, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order by id")
	}

	return toOrderDomain(&orderM), nil
}

// FindOrderItemByID retrieves a single order line with its parent order preloaded.
func (repo *orderRepository) FindOrderItemByID(ctx context.Context, id uuid.UUID) (*entity.OrderItem, error) {
	var itemM model.OrderItemModel
	err := repo.db.WithContext(ctx).
		Preload("Order").
		Preload("Product").
		First(&itemM, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderItemNotFound
		}

		return nil, errors.Wrap(err, "failed to find order item by id")
	}

	return toOrderItemDomain(&itemM), nil
}

// ListOrdersByUser retrieves all orders placed by a user, newest first.
func (repo *orderRepository) ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error) {
	var orderMs []*model.OrderModel
	err := repo.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orderMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders by user")
	}

	return toOrderDomainSlice(orderMs), nil
}

// ListOrders retrieves all orders, newest first.
func (repo *orderRepository) ListOrders(ctx context.Context) ([]*entity.Order, error) {
	var orderMs []*model.OrderModel
	err := repo.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		Order("created_at DESC").
		Find(&orderMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	return toOrderDomainSlice(orderMs), nil
}

// UpdateStatusIf moves the order between statuses with a guard on the
// current status. A losing writer affects zero rows.
func (repo *orderRepository) UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to entity.OrderStatus) (bool, error) {
	result := repo.db.WithContext(ctx).Model(&model.OrderModel{}).
		Where("id = ? AND status = ?", id, from.String()).
		Update("status", to.String())
	if result.Error != nil {
		return false, domainerrors.NewDatabaseExecuteError(result.Error, "failed to update order status")
	}

	return result.RowsAffected > 0, nil
}

// MarkDelivered moves the order to DELIVERED and stamps the delivery time
// and notes in the same guarded update.
func (repo *orderRepository) MarkDelivered(ctx context.Context, id uuid.UUID, from entity.OrderStatus, deliveredAt time.Time, notes string) (bool, error) {
	result := repo.db.WithContext(ctx).Model(&model.OrderModel{}).
		Where("id = ? AND status = ?", id, from.String()).
		Updates(map[string]any{
			"status":         entity.OrderDelivered.String(),
			"delivered_at":   deliveredAt,
			"delivery_notes": notes,
		})
	if result.Error != nil {
		return false, domainerrors.NewDatabaseExecuteError(result.Error, "failed to mark order delivered")
	}

	return result.RowsAffected > 0, nil
}

// SetApproved flips the approval flag on an order.
func (repo *orderRepository) SetApproved(ctx context.Context, id uuid.UUID, approved bool) error {
	result := repo.db.WithContext(ctx).Model(&model.OrderModel{}).
		Where("id = ?", id).
		Update("is_approved", approved)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to set order approval")
	}
	if result.RowsAffected == 0 {
		return repository.ErrOrderNotFound
	}

	return nil
}

// toOrderDomain maps the persistence model to the pure domain entity.
func toOrderDomain(m *model.OrderModel) *entity.Order {
	items := make([]*entity.OrderItem, 0, len(m.Items))
	for _, itemM := range m.Items {
		items = append(items, toOrderItemDomain(itemM))
	}

	return &entity.Order{
		ID:              m.ID,
		UserID:          m.UserID,
		Status:          entity.OrderStatus(m.Status),
		TotalAmount:     m.TotalAmount,
		ShippingAddress: m.ShippingAddress,
		AddressID:       m.AddressID,
		Payment: entity.PaymentInfo{
			CardLastFour: m.CardLastFour,
			CardHolder:   m.CardHolder,
			ExpiryDate:   m.CardExpiry,
		},
		DeliveredAt:   m.DeliveredAt,
		DeliveryNotes: m.DeliveryNotes,
		IsApproved:    m.IsApproved,
		Items:         items,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toOrderDomainSlice(ms []*model.OrderModel) []*entity.Order {
	orders := make([]*entity.Order, 0, len(ms))
	for _, m := range ms {
		orders = append(orders, toOrderDomain(m))
	}

	return orders
}

// toOrderItemDomain maps an order line, carrying the parent order and the
// product when they were preloaded.
func toOrderItemDomain(m *model.OrderItemModel) *entity.OrderItem {
	item := &entity.OrderItem{
		ID:          m.ID,
		OrderID:     m.OrderID,
		ProductID:   m.ProductID,
		Quantity:    m.Quantity,
		PriceAtTime: m.PriceAtTime,
	}
	if m.Product != nil {
		item.Product = toProductDomain(m.Product)
	}
	if m.Order != nil {
		item.Order = toOrderDomain(m.Order)
	}

	return item
}

// fromOrderDomain maps the domain entity to the persistence model.
// Items are created separately and are not carried here.
func fromOrderDomain(o *entity.Order) *model.OrderModel {
	return &model.OrderModel{
		ID:              o.ID,
		UserID:          o.UserID,
		Status:          o.Status.String(),
		TotalAmount:     o.TotalAmount,
		ShippingAddress: o.ShippingAddress,
		AddressID:       o.AddressID,
		CardLastFour:    o.Payment.CardLastFour,
		CardHolder:      o.Payment.CardHolder,
		CardExpiry:      o.Payment.ExpiryDate,
		DeliveredAt:     o.DeliveredAt,
		DeliveryNotes:   o.DeliveryNotes,
		IsApproved:      o.IsApproved,
	}
}
