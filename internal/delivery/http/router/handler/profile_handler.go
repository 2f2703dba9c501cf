package handler

import (
	"log/slog"
	"net/http"

	"storefront/internal/delivery/http/response"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// ProfileHandler holds dependencies for profile-view handlers.
type ProfileHandler struct {
	uc     usecase.ProfileUsecase
	logger *slog.Logger
}

// NewProfileHandler is the constructor for ProfileHandler, injected by Fx.
func NewProfileHandler(uc usecase.ProfileUsecase, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		uc:     uc,
		logger: logger,
	}
}

// UpdateProfileRequest represents the request body for a partial profile update.
type UpdateProfileRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone"`
}

// GetProfile returns the caller's profile snapshot.
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	principal, err := getPrincipal(c)
	if err != nil {
		return err
	}

	snapshot, err := h.uc.GetProfile(c.Request().Context(), principal.UserID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, snapshot, "Profile retrieved successfully")
}

// UpdateProfile patches the caller's profile and returns the fresh snapshot.
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	principal, err := getPrincipal(c)
	if err != nil {
		return err
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid profile input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	snapshot, err := h.uc.UpdateProfile(c.Request().Context(), principal.UserID, usecase.UpdateProfileInput{
		Username: req.Username,
		Email:    req.Email,
		Phone:    req.Phone,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, snapshot, "Profile updated successfully")
}
