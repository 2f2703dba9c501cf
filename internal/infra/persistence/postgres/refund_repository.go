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

// refundRepository implements the domain's RefundRepository interface using GORM.
type refundRepository struct {
	db *gorm.DB
}

// NewRefundRepository is the constructor for refundRepository.
func NewRefundRepository(db *gorm.DB) repository.RefundRepository {
	return &refundRepository{db: db}
}

// CreateRefund persists a new refund request.
func (repo *refundRepository) CreateRefund(ctx context.Context, refund *entity.RefundRequest) error {
	refundM := fromRefundDomain(refund)

	if err := repo.db.WithContext(ctx).Create(refundM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrOrderItemNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create refund request")
	}

	refund.ID = refundM.ID
	refund.CreatedAt = refundM.CreatedAt
	refund.UpdatedAt = refundM.UpdatedAt

	return nil
}

// FindRefundByID retrieves a refund request with its order item preloaded.
func (repo *refundRepository) FindRefundByID(ctx context.Context, id uuid.UUID) (*entity.RefundRequest, error) {
	var refundM model.RefundRequestModel
	err := repo.db.WithContext(ctx).
		Preload("OrderItem").
		Preload("OrderItem.Order").
		First(&refundM, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRefundNotFound
		}

		return nil, errors.Wrap(err, "failed to find refund request by id")
	}

	return toRefundDomain(&refundM), nil
}

// HasBlockingRefundForItem reports whether the order item already has a
// pending or approved refund request.
func (repo *refundRepository) HasBlockingRefundForItem(ctx context.Context, orderItemID uuid.UUID) (bool, error) {
	var count int64
	err := repo.db.WithContext(ctx).Model(&model.RefundRequestModel{}).
		Where("order_item_id = ? AND status IN ?", orderItemID,
			[]string{entity.RefundPending.String(), entity.RefundApproved.String()}).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "failed to check blocking refund requests")
	}

	return count > 0, nil
}

// UpdateReason overwrites the reason of a refund request.
func (repo *refundRepository) UpdateReason(ctx context.Context, id uuid.UUID, reason string) error {
	result := repo.db.WithContext(ctx).Model(&model.RefundRequestModel{}).
		Where("id = ?", id).
		Update("reason", reason)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update refund reason")
	}
	if result.RowsAffected == 0 {
		return repository.ErrRefundNotFound
	}

	return nil
}

// DeleteRefund removes a refund request by its ID.
func (repo *refundRepository) DeleteRefund(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Delete(&model.RefundRequestModel{}, "id = ?", id)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete refund request")
	}
	if result.RowsAffected == 0 {
		return repository.ErrRefundNotFound
	}

	return nil
}

// ResolveIf moves the refund request between statuses with a guard on the
// current status, stamping the resolution fields in the same update.
func (repo *refundRepository) ResolveIf(ctx context.Context, id uuid.UUID, from, to entity.RefundStatus, res repository.RefundResolution) (bool, error) {
	result := repo.db.WithContext(ctx).Model(&model.RefundRequestModel{}).
		Where("id = ? AND status = ?", id, from.String()).
		Updates(map[string]any{
			"status":           to.String(),
			"approved_by":      res.ResolvedBy,
			"approval_date":    res.ResolvedAt,
			"rejection_reason": res.RejectionReason,
		})
	if result.Error != nil {
		return false, domainerrors.NewDatabaseExecuteError(result.Error, "failed to resolve refund request")
	}

	return result.RowsAffected > 0, nil
}

// ListRefundsByUser retrieves all refund requests filed by a user, newest first.
func (repo *refundRepository) ListRefundsByUser(ctx context.Context, userID uuid.UUID) ([]*entity.RefundRequest, error) {
	var refundMs []*model.RefundRequestModel
	err := repo.db.WithContext(ctx).
		Preload("OrderItem").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&refundMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list refund requests by user")
	}

	return toRefundDomainSlice(refundMs), nil
}

// ListRefunds retrieves all refund requests, newest first.
func (repo *refundRepository) ListRefunds(ctx context.Context) ([]*entity.RefundRequest, error) {
	var refundMs []*model.RefundRequestModel
	err := repo.db.WithContext(ctx).
		Preload("OrderItem").
		Order("created_at DESC").
		Find(&refundMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list refund requests")
	}

	return toRefundDomainSlice(refundMs), nil
}

// toRefundDomain maps the persistence model to the pure domain entity.
func toRefundDomain(m *model.RefundRequestModel) *entity.RefundRequest {
	refund := &entity.RefundRequest{
		ID:              m.ID,
		OrderItemID:     m.OrderItemID,
		UserID:          m.UserID,
		Reason:          m.Reason,
		Status:          entity.RefundStatus(m.Status),
		ApprovedBy:      m.ApprovedBy,
		ApprovalDate:    m.ApprovalDate,
		RejectionReason: m.RejectionReason,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	if m.OrderItem != nil {
		refund.OrderItem = toOrderItemDomain(m.OrderItem)
	}

	return refund
}

func toRefundDomainSlice(ms []*model.RefundRequestModel) []*entity.RefundRequest {
	refunds := make([]*entity.RefundRequest, 0, len(ms))
	for _, m := range ms {
		refunds = append(refunds, toRefundDomain(m))
	}

	return refunds
}

// fromRefundDomain maps the domain entity to the persistence model.
func fromRefundDomain(r *entity.RefundRequest) *model.RefundRequestModel {
	return &model.RefundRequestModel{
		ID:              r.ID,
		OrderItemID:     r.OrderItemID,
		UserID:          r.UserID,
		Reason:          r.Reason,
		Status:          r.Status.String(),
		ApprovedBy:      r.ApprovedBy,
		ApprovalDate:    r.ApprovalDate,
		RejectionReason: r.RejectionReason,
	}
}
