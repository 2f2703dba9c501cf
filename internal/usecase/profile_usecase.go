package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// UpdateProfileInput defines the data for a partial profile update.
// Nil fields are left unchanged.
type UpdateProfileInput struct {
	Username *string
	Email    *string
	Phone    *string
}

// ProfileUsecase defines the interface for profile-view business operations.
// Reads are served cache-aside from the snapshot cache; every profile or
// address write invalidates the snapshot.
type ProfileUsecase interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*entity.ProfileSnapshot, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*entity.ProfileSnapshot, error)
}
