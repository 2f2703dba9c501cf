package handler

import (
	"log/slog"
	"net/http"

	"storefront/internal/delivery/http/middleware"
	"storefront/internal/delivery/http/response"
	"storefront/internal/domain/entity"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// CartHandler holds dependencies for cart and checkout handlers.
type CartHandler struct {
	uc     usecase.CartUsecase
	logger *slog.Logger
}

// NewCartHandler is the constructor for CartHandler, injected by Fx.
func NewCartHandler(uc usecase.CartUsecase, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		uc:     uc,
		logger: logger,
	}
}

// CartItemRequest represents the request body for adding or updating a cart line.
type CartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

// CheckoutRequest represents the request body for converting a cart into an order.
type CheckoutRequest struct {
	AddressID       *uuid.UUID `json:"address_id"`
	ShippingAddress *string    `json:"shipping_address"`
	TotalAmount     string     `json:"total_amount" validate:"required"`
	CardLastFour    string     `json:"card_last_four" validate:"required,len=4,numeric"`
	CardHolder      string     `json:"card_holder" validate:"required"`
	ExpiryDate      string     `json:"expiry_date" validate:"required"`
}

// GetCart returns the caller's cart, creating an empty one on first touch.
func (h *CartHandler) GetCart(c echo.Context) error {
	owner, err := h.getOwner(c)
	if err != nil {
		return err
	}

	view, err := h.uc.GetCart(c.Request().Context(), owner)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, toCartView(view), "Cart retrieved successfully")
}

// AddItem adds a product to the cart, merging quantities on repeat adds.
func (h *CartHandler) AddItem(c echo.Context) error {
	owner, err := h.getOwner(c)
	if err != nil {
		return err
	}

	var req CartItemRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid cart item input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	view, err := h.uc.AddItem(c.Request().Context(), owner, usecase.AddCartItemInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, toCartView(view), "Item added to cart")
}

// UpdateItem overwrites the quantity of an existing cart line.
func (h *CartHandler) UpdateItem(c echo.Context) error {
	owner, err := h.getOwner(c)
	if err != nil {
		return err
	}

	var req CartItemRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid cart item input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	view, err := h.uc.UpdateItem(c.Request().Context(), owner, usecase.UpdateCartItemInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, toCartView(view), "Cart item updated")
}

// RemoveItem deletes a cart line. Removing an absent product is a no-op.
func (h *CartHandler) RemoveItem(c echo.Context) error {
	owner, err := h.getOwner(c)
	if err != nil {
		return err
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid product ID")
	}

	view, err := h.uc.RemoveItem(c.Request().Context(), owner, productID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, toCartView(view), "Item removed from cart")
}

// ClearCart removes every line from the caller's cart.
func (h *CartHandler) ClearCart(c echo.Context) error {
	owner, err := h.getOwner(c)
	if err != nil {
		return err
	}

	if err := h.uc.ClearCart(c.Request().Context(), owner); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Cart cleared"}, "Cart cleared")
}

// Checkout converts the signed-in caller's cart into an order.
func (h *CartHandler) Checkout(c echo.Context) error {
	principal, err := getPrincipal(c)
	if err != nil {
		return err
	}

	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid checkout input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	totalAmount, err := decimal.NewFromString(req.TotalAmount)
	if err != nil {
		return response.BadRequest(c, "INVALID_AMOUNT", "Invalid total amount")
	}

	order, err := h.uc.Checkout(c.Request().Context(), principal, usecase.CheckoutInput{
		AddressID:       req.AddressID,
		ShippingAddress: req.ShippingAddress,
		Payment: entity.PaymentInfo{
			CardLastFour: req.CardLastFour,
			CardHolder:   req.CardHolder,
			ExpiryDate:   req.ExpiryDate,
		},
		TotalAmount: totalAmount,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, toOrderView(order), "Order placed successfully")
}

// getOwner extracts the resolved cart owner from the context.
func (h *CartHandler) getOwner(c echo.Context) (entity.CartOwner, error) {
	owner, ok := c.Get(middleware.ContextKeyCartOwner).(entity.CartOwner)
	if !ok || owner.IsZero() {
		return entity.CartOwner{}, response.BadRequest(c, "MISSING_CART_SESSION", "No cart session could be resolved")
	}

	return owner, nil
}
