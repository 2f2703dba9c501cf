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

// addressRepository implements the domain's AddressRepository interface using GORM.
type addressRepository struct {
	db *gorm.DB
}

// NewAddressRepository is the constructor for addressRepository.
func NewAddressRepository(db *gorm.DB) repository.AddressRepository {
	return &addressRepository{db: db}
}

// CreateAddress persists a new address for a user.
func (repo *addressRepository) CreateAddress(ctx context.Context, address *entity.Address) error {
	addressM := fromAddressDomain(address)

	if err := repo.db.WithContext(ctx).Create(addressM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound.WrapMessage("address owner does not exist")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create address")
	}

	address.ID = addressM.ID
	address.CreatedAt = addressM.CreatedAt
	address.UpdatedAt = addressM.UpdatedAt

	return nil
}

// FindAddressByID retrieves an address by its unique ID.
func (repo *addressRepository) FindAddressByID(ctx context.Context, id uuid.UUID) (*entity.Address, error) {
	var addressM model.AddressModel
	err := repo.db.WithContext(ctx).First(&addressM, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAddressNotFound
		}

		return nil, errors.Wrap(err, "failed to find address by id")
	}

	return toAddressDomain(&addressM), nil
}

// FindAddressesByUser retrieves all addresses for a user, oldest first.
// Creation order doubles as the deterministic promotion order.
func (repo *addressRepository) FindAddressesByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Address, error) {
	var addressMs []*model.AddressModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&addressMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find addresses by user")
	}

	addresses := make([]*entity.Address, 0, len(addressMs))
	for _, addressM := range addressMs {
		addresses = append(addresses, toAddressDomain(addressM))
	}

	return addresses, nil
}

// FindMainAddressByUser retrieves the main address for a user.
func (repo *addressRepository) FindMainAddressByUser(ctx context.Context, userID uuid.UUID) (*entity.Address, error) {
	var addressM model.AddressModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ? AND is_main = ?", userID, true).
		First(&addressM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAddressNotFound
		}

		return nil, errors.Wrap(err, "failed to find main address")
	}

	return toAddressDomain(&addressM), nil
}

// UpdateAddress updates an existing address record.
func (repo *addressRepository) UpdateAddress(ctx context.Context, address *entity.Address) error {
	result := repo.db.WithContext(ctx).Model(&model.AddressModel{}).
		Where("id = ?", address.ID).
		Updates(map[string]any{
			"name":           address.Name,
			"street_address": address.StreetAddress,
			"city":           address.City,
			"state":          address.State,
			"postal_code":    address.PostalCode,
			"country":        address.Country,
			"is_main":        address.IsMain,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update address")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAddressNotFound
	}

	return nil
}

// DeleteAddress removes an address by its ID.
func (repo *addressRepository) DeleteAddress(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Delete(&model.AddressModel{}, "id = ?", id)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete address")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAddressNotFound
	}

	return nil
}

// DemoteMainAddresses clears the main flag on every address of the user
// except the one identified by exceptID.
func (repo *addressRepository) DemoteMainAddresses(ctx context.Context, userID uuid.UUID, exceptID uuid.UUID) error {
	query := repo.db.WithContext(ctx).Model(&model.AddressModel{}).
		Where("user_id = ? AND is_main = ?", userID, true)
	if exceptID != uuid.Nil {
		query = query.Where("id <> ?", exceptID)
	}

	if err := query.Update("is_main", false).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to demote addresses")
	}

	return nil
}

// CountAddressesByUser returns the total count of addresses for a user.
func (repo *addressRepository) CountAddressesByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := repo.db.WithContext(ctx).Model(&model.AddressModel{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "failed to count addresses")
	}

	return count, nil
}

// toAddressDomain maps the persistence model to the pure domain entity.
func toAddressDomain(m *model.AddressModel) *entity.Address {
	return &entity.Address{
		ID:            m.ID,
		UserID:        m.UserID,
		Name:          m.Name,
		StreetAddress: m.StreetAddress,
		City:          m.City,
		State:         m.State,
		PostalCode:    m.PostalCode,
		Country:       m.Country,
		IsMain:        m.IsMain,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// fromAddressDomain maps the domain entity to the persistence model.
func fromAddressDomain(a *entity.Address) *model.AddressModel {
	return &model.AddressModel{
		ID:            a.ID,
		UserID:        a.UserID,
		Name:          a.Name,
		StreetAddress: a.StreetAddress,
		City:          a.City,
		State:         a.State,
		PostalCode:    a.PostalCode,
		Country:       a.Country,
		IsMain:        a.IsMain,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}
