package handler

import (
	"log/slog"
	"net/http"

	"storefront/internal/delivery/http/response"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RefundHandler holds dependencies for refund request handlers.
type RefundHandler struct {
	uc     usecase.RefundUsecase
	logger *slog.Logger
}

// NewRefundHandler is the constructor for RefundHandler, injected by Fx.
func NewRefundHandler(uc usecase.RefundUsecase, logger *slog.Logger) *RefundHandler {
	return &RefundHandler{
		uc:     uc,
		logger: logger,
	}
}

// RequestRefundRequest represents the request body for opening a refund request.
type RequestRefundRequest struct {
	OrderItemID uuid.UUID `json:"order_item_id" validate:"required"`
	Reason      string    `json:"reason" validate:"required"`
}

// UpdateReasonRequest represents the request body for rewriting a refund reason.
type UpdateReasonRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// RejectRefundRequest represents the request body for rejecting a refund request.
type RejectRefundRequest struct {
	RejectionReason string `json:"rejection_reason" validate:"required"`
}

// RequestRefund opens a refund request for one of the caller's delivered order items.
func (h *RefundHandler) RequestRefund(c echo.Context) error {
	principal, err := getPrincipal(c)
	if err != nil {
		return err
	}

	var req RequestRefundRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid refund input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	refund, err := h.uc.RequestRefund(c.Request().Context(), principal, usecase.RequestRefundInput{
		OrderItemID: req.OrderItemID,
		Reason:      req.Reason,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, toRefundView(refund), "Refund request created")
}

// UpdateReason rewrites the reason of the caller's own pending request.
func (h *RefundHandler) UpdateReason(c echo.Context) error {
	principal, err := getPrincipal(c)
	if err != nil {
		return err
	}

	refundID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid refund request ID")
	}

	var req UpdateReasonRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid reason input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	refund, err := h.uc.UpdateReason(c.Request().Context(), principal, refundID, req.Reason)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, toRefundView(refund), "Refund reason updated")
}

// CancelRequest withdraws the caller's own pending request.
func (h *RefundHandler) CancelRequest(c echo.Context) error {
	principal, err := getPrincipal(c)
	if err != nil {
		return err
	}

	refundID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid refund request ID")
	}

	if err := h.uc.CancelRequest(c.Request().Context(), principal, refundID); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Refund request cancelled"}, "Refund request cancelled")
}

// ApproveRefund moves a pending request to APPROVED.
func (h *RefundHandler) ApproveRefund(c echo.Context) error {
	principal, err := getPrincipal(c)
	if err != nil {
		return err
	}

	refundID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid refund request ID")
	}

	refund, err := h.uc.ApproveRefund(c.Request().Context(), principal, refundID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, toRefundView(refund), "Refund request approved")
}

// RejectRefund moves a pending request to REJECTED with a reason.
func (h *RefundHandler) RejectRefund(c echo.Context) error {
	principal, err := getPrincipal(c)
	if err != nil {
		return err
	}

	refundID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid refund request ID")
	}

	var req RejectRefundRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid rejection input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	refund, err := h.uc.RejectRefund(c.Request().Context(), principal, usecase.RejectRefundInput{
		RefundID:        refundID,
		RejectionReason: req.RejectionReason,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, toRefundView(refund), "Refund request rejected")
}

// ListRefunds returns the caller's requests, or every request for managers.
func (h *RefundHandler) ListRefunds(c echo.Context) error {
	principal, err := getPrincipal(c)
	if err != nil {
		return err
	}

	refunds, err := h.uc.ListRefunds(c.Request().Context(), principal)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, toRefundViews(refunds), "Refund requests retrieved successfully")
}
