package postgres

import (
	"context"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// cartRepository implements the domain's CartRepository interface using GORM.
type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository is the constructor for cartRepository.
func NewCartRepository(db *gorm.DB) repository.CartRepository {
	return &cartRepository{db: db}
}

// ownerScope translates the owner union into the matching WHERE clause.
func ownerScope(owner entity.CartOwner) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if userID, ok := owner.UserID(); ok {
			return db.Where("user_id = ?", userID)
		}

		token, _ := owner.SessionToken()

		return db.Where("session_token = ?", token)
	}
}

// FindByOwner retrieves the owner's cart with items and products preloaded.
func (repo *cartRepository) FindByOwner(ctx context.Context, owner entity.CartOwner) (*entity.Cart, error) {
	var cartM model.CartModel
	err := repo.db.WithContext(ctx).
		Scopes(ownerScope(owner)).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_items.created_at ASC")
		}).
		Preload("Items.Product").
		First(&cartM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCartNotFound
		}

		return nil, errors.Wrap(err, "failed to find cart by owner")
	}

	return toCartDomain(&cartM, owner), nil
}

// FindOrCreateByOwner retrieves the owner's cart, creating an empty one when
// none exists.
func (repo *cartRepository) FindOrCreateByOwner(ctx context.Context, owner entity.CartOwner) (*entity.Cart, error) {
	cart, err := repo.FindByOwner(ctx, owner)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, repository.ErrCartNotFound) {
		return nil, err
	}

	cartM := model.CartModel{}
	if userID, ok := owner.UserID(); ok {
		cartM.UserID = &userID
	} else {
		token, _ := owner.SessionToken()
		cartM.SessionToken = &token
	}

	if err := repo.db.WithContext(ctx).Create(&cartM).Error; err != nil {
		// A concurrent request may have created the cart between the lookup
		// and the insert; the partial unique index turns that into a
		// duplicate-key error and the existing row wins.
		if isUniqueConstraintViolation(err) {
			return repo.FindByOwner(ctx, owner)
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to create cart")
	}

	return toCartDomain(&cartM, owner), nil
}

// CreateItem persists a new cart line.
func (repo *cartRepository) CreateItem(ctx context.Context, item *entity.CartItem) error {
	itemM := model.CartItemModel{
		CartID:    item.CartID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
	}

	if err := repo.db.WithContext(ctx).Create(&itemM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrProductNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create cart item")
	}

	item.ID = itemM.ID

	return nil
}

// UpdateItemQuantity overwrites the quantity of an existing cart line.
func (repo *cartRepository) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	result := repo.db.WithContext(ctx).Model(&model.CartItemModel{}).
		Where("id = ?", itemID).
		Update("quantity", quantity)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update cart item quantity")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCartItemNotFound
	}

	return nil
}

// DeleteItemByProduct removes the cart line for the given product.
// Deleting an absent line is a no-op.
func (repo *cartRepository) DeleteItemByProduct(ctx context.Context, cartID uuid.UUID, productID uuid.UUID) error {
	err := repo.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&model.CartItemModel{}).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete cart item")
	}

	return nil
}

// ClearItems removes every line from the cart. The cart row survives.
func (repo *cartRepository) ClearItems(ctx context.Context, cartID uuid.UUID) error {
	err := repo.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&model.CartItemModel{}).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to clear cart items")
	}

	return nil
}

// toCartDomain maps the persistence model to the pure domain entity.
func toCartDomain(m *model.CartModel, owner entity.CartOwner) *entity.Cart {
	items := make([]*entity.CartItem, 0, len(m.Items))
	for _, itemM := range m.Items {
		item := &entity.CartItem{
			ID:        itemM.ID,
			CartID:    itemM.CartID,
			ProductID: itemM.ProductID,
			Quantity:  itemM.Quantity,
		}
		if itemM.Product != nil {
			item.Product = toProductDomain(itemM.Product)
		}
		items = append(items, item)
	}

	return &entity.Cart{
		ID:        m.ID,
		Owner:     owner,
		Items:     items,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
