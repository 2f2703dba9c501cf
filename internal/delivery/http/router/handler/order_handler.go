package handler

import (
	"log/slog"
	"net/http"

	"storefront/internal/delivery/http/response"
	"storefront/internal/domain/entity"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// OrderHandler holds dependencies for order lifecycle handlers.
type OrderHandler struct {
	uc     usecase.OrderUsecase
	logger *slog.Logger
}

// NewOrderHandler is the constructor for OrderHandler, injected by Fx.
func NewOrderHandler(uc usecase.OrderUsecase, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		uc:     uc,
		logger: logger,
	}
}

// AdvanceOrderRequest represents the request body for a delivery transition.
type AdvanceOrderRequest struct {
	Status        string `json:"status" validate:"required,oneof=IN_TRANSIT DELIVERED"`
	DeliveryNotes string `json:"delivery_notes"`
}

// GetOrder returns a single order visible to the caller.
func (h *OrderHandler) GetOrder(c echo.Context) error {
	principal, err := getPrincipal(c)
	if err != nil {
		return err
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid order ID")
	}

	order, err := h.uc.GetOrder(c.Request().Context(), principal, orderID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, toOrderView(order), "Order retrieved successfully")
}

// ListOrders returns the caller's orders, or every order for managers.
func (h *OrderHandler) ListOrders(c echo.Context) error {
	principal, err := getPrincipal(c)
	if err != nil {
		return err
	}

	orders, err := h.uc.ListOrders(c.Request().Context(), principal)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, toOrderViews(orders), "Orders retrieved successfully")
}

// CancelOrder cancels the caller's own order while it is still processing.
func (h *OrderHandler) CancelOrder(c echo.Context) error {
	principal, err := getPrincipal(c)
	if err != nil {
		return err
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid order ID")
	}

	order, err := h.uc.CancelOrder(c.Request().Context(), principal, orderID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, toOrderView(order), "Order cancelled")
}

// AdvanceOrder performs a manager-side forward delivery transition.
func (h *OrderHandler) AdvanceOrder(c echo.Context) error {
	principal, err := getPrincipal(c)
	if err != nil {
		return err
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid order ID")
	}

	var req AdvanceOrderRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid status input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	order, err := h.uc.AdvanceOrder(c.Request().Context(), principal, usecase.AdvanceOrderInput{
		OrderID:       orderID,
		ToStatus:      entity.OrderStatus(req.Status),
		DeliveryNotes: req.DeliveryNotes,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, toOrderView(order), "Order status updated")
}

// ApproveOrder flags an order as reviewed by a sales manager.
func (h *OrderHandler) ApproveOrder(c echo.Context) error {
	principal, err := getPrincipal(c)
	if err != nil {
		return err
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid order ID")
	}

	order, err := h.uc.ApproveOrder(c.Request().Context(), principal, orderID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, toOrderView(order), "Order approved")
}
