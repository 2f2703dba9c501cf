package handler

import (
	"log/slog"
	"net/http"

	"storefront/internal/delivery/http/response"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AddressHandler holds dependencies for address-book handlers.
type AddressHandler struct {
	uc     usecase.AddressUsecase
	logger *slog.Logger
}

// NewAddressHandler is the constructor for AddressHandler, injected by Fx.
func NewAddressHandler(uc usecase.AddressUsecase, logger *slog.Logger) *AddressHandler {
	return &AddressHandler{
		uc:     uc,
		logger: logger,
	}
}

// CreateAddressRequest represents the request body for adding an address.
type CreateAddressRequest struct {
	Name          string `json:"name"`
	StreetAddress string `json:"street_address" validate:"required"`
	City          string `json:"city"`
	State         string `json:"state"`
	PostalCode    string `json:"postal_code"`
	Country       string `json:"country"`
	IsMain        bool   `json:"is_main"`
}

// UpdateAddressRequest represents the request body for a partial address update.
type UpdateAddressRequest struct {
	Name          *string `json:"name"`
	StreetAddress *string `json:"street_address"`
	City          *string `json:"city"`
	State         *string `json:"state"`
	PostalCode    *string `json:"postal_code"`
	Country       *string `json:"country"`
	IsMain        *bool   `json:"is_main"`
}

// CreateAddress adds an address to the caller's address book.
func (h *AddressHandler) CreateAddress(c echo.Context) error {
	principal, err := getPrincipal(c)
	if err != nil {
		return err
	}

	var req CreateAddressRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid address input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	address, err := h.uc.CreateAddress(c.Request().Context(), principal.UserID, usecase.CreateAddressInput{
		Name:          req.Name,
		StreetAddress: req.StreetAddress,
		City:          req.City,
		State:         req.State,
		PostalCode:    req.PostalCode,
		Country:       req.Country,
		IsMain:        req.IsMain,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, toAddressView(address), "Address created successfully")
}

// UpdateAddress patches an address in the caller's address book.
func (h *AddressHandler) UpdateAddress(c echo.Context) error {
	principal, err := getPrincipal(c)
	if err != nil {
		return err
	}

	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid address ID")
	}

	var req UpdateAddressRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid address input")
	}

	address, err := h.uc.UpdateAddress(c.Request().Context(), principal.UserID, addressID, usecase.UpdateAddressInput{
		Name:          req.Name,
		StreetAddress: req.StreetAddress,
		City:          req.City,
		State:         req.State,
		PostalCode:    req.PostalCode,
		Country:       req.Country,
		IsMain:        req.IsMain,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, toAddressView(address), "Address updated successfully")
}

// DeleteAddress removes an address from the caller's address book.
func (h *AddressHandler) DeleteAddress(c echo.Context) error {
	principal, err := getPrincipal(c)
	if err != nil {
		return err
	}

	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid address ID")
	}

	if err := h.uc.DeleteAddress(c.Request().Context(), principal.UserID, addressID); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Address deleted"}, "Address deleted successfully")
}

// ListAddresses returns the caller's address book, oldest first.
func (h *AddressHandler) ListAddresses(c echo.Context) error {
	principal, err := getPrincipal(c)
	if err != nil {
		return err
	}

	addresses, err := h.uc.ListAddresses(c.Request().Context(), principal.UserID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, toAddressViews(addresses), "Addresses retrieved successfully")
}

// GetAddress returns a single address from the caller's address book.
func (h *AddressHandler) GetAddress(c echo.Context) error {
	principal, err := getPrincipal(c)
	if err != nil {
		return err
	}

	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid address ID")
	}

	address, err := h.uc.GetAddress(c.Request().Context(), principal.UserID, addressID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, toAddressView(address), "Address retrieved successfully")
}
