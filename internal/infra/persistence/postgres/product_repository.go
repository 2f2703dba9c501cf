package postgres

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// productRepository implements the domain's ProductRepository interface using GORM.
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository is the constructor for productRepository.
func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

// FindByID retrieves a product by its unique ID.
func (repo *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var productM model.ProductModel
	err := repo.db.WithContext(ctx).First(&productM, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to find product by id")
	}

	return toProductDomain(&productM), nil
}

// FindByIDs retrieves the products matching the given IDs. Missing IDs are
// absent from the result.
func (repo *productRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var productMs []*model.ProductModel
	err := repo.db.WithContext(ctx).Where("id IN ?", ids).Find(&productMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find products by ids")
	}

	products := make([]*entity.Product, 0, len(productMs))
	for _, productM := range productMs {
		products = append(products, toProductDomain(productM))
	}

	return products, nil
}

// DecrementStock atomically subtracts quantity from the product's stock.
// The WHERE guard keeps the stored value from going below zero; a losing
// writer affects zero rows instead of tripping the check constraint.
func (repo *productRepository) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error {
	result := repo.db.WithContext(ctx).Model(&model.ProductModel{}).
		Where("id = ? AND stock_quantity >= ?", id, quantity).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to decrement stock")
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := repo.db.WithContext(ctx).Model(&model.ProductModel{}).
			Where("id = ?", id).Count(&count).Error; err != nil {
			return errors.Wrap(err, "failed to check product existence")
		}
		if count == 0 {
			return repository.ErrProductNotFound
		}

		return repository.ErrInsufficientStock
	}

	return nil
}

// toProductDomain maps the persistence model to the pure domain entity.
func toProductDomain(m *model.ProductModel) *entity.Product {
	return &entity.Product{
		ID:              m.ID,
		Name:            m.Name,
		Model:           m.Model,
		SerialNumber:    m.SerialNumber,
		Description:     m.Description,
		Price:           m.Price,
		CostPrice:       m.CostPrice,
		StockQuantity:   m.StockQuantity,
		WarrantyMonths:  m.WarrantyMonths,
		DistributorInfo: m.DistributorInfo,
		IsVisible:       m.IsVisible,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
