package handler

import (
	"time"

	"storefront/internal/domain/entity"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// View structs shape the JSON the API returns. Entities stay free of
// serialization concerns; the mapping happens once, here.

// UserView is the public projection of a user account.
type UserView struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserView(u *entity.User) *UserView {
	return &UserView{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role.String(),
		Phone:     u.Phone,
		CreatedAt: u.CreatedAt,
	}
}

// AddressView is the JSON projection of an address-book entry.
type AddressView struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name,omitempty"`
	StreetAddress string    `json:"street_address"`
	City          string    `json:"city,omitempty"`
	State         string    `json:"state,omitempty"`
	PostalCode    string    `json:"postal_code,omitempty"`
	Country       string    `json:"country,omitempty"`
	IsMain        bool      `json:"is_main"`
	CreatedAt     time.Time `json:"created_at"`
}

func toAddressView(a *entity.Address) *AddressView {
	return &AddressView{
		ID:            a.ID,
		Name:          a.Name,
		StreetAddress: a.StreetAddress,
		City:          a.City,
		State:         a.State,
		PostalCode:    a.PostalCode,
		Country:       a.Country,
		IsMain:        a.IsMain,
		CreatedAt:     a.CreatedAt,
	}
}

func toAddressViews(addresses []*entity.Address) []*AddressView {
	views := make([]*AddressView, 0, len(addresses))
	for _, a := range addresses {
		views = append(views, toAddressView(a))
	}

	return views
}

// CartItemView is the JSON projection of a cart line.
type CartItemView struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name,omitempty"`
	UnitPrice   string    `json:"unit_price,omitempty"`
	Quantity    int       `json:"quantity"`
	LineTotal   string    `json:"line_total,omitempty"`
}

// CartViewResponse is the JSON projection of a cart with its computed total.
type CartViewResponse struct {
	ID    uuid.UUID       `json:"id"`
	Items []*CartItemView `json:"items"`
	Total string          `json:"total"`
}

func toCartView(view *usecase.CartView) *CartViewResponse {
	items := make([]*CartItemView, 0, len(view.Cart.Items))
	for _, item := range view.Cart.Items {
		itemView := &CartItemView{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
		if item.Product != nil {
			itemView.ProductName = item.Product.Name
			itemView.UnitPrice = item.Product.Price.String()
			itemView.LineTotal = item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))).String()
		}
		items = append(items, itemView)
	}

	return &CartViewResponse{
		ID:    view.Cart.ID,
		Items: items,
		Total: view.Total.String(),
	}
}

// OrderItemView is the JSON projection of a frozen order line.
type OrderItemView struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name,omitempty"`
	Quantity    int       `json:"quantity"`
	PriceAtTime string    `json:"price_at_time"`
	LineTotal   string    `json:"line_total"`
}

// OrderView is the JSON projection of an order.
type OrderView struct {
	ID              uuid.UUID        `json:"id"`
	UserID          uuid.UUID        `json:"user_id"`
	Status          string           `json:"status"`
	TotalAmount     string           `json:"total_amount"`
	ShippingAddress string           `json:"shipping_address"`
	CardLastFour    string           `json:"card_last_four,omitempty"`
	DeliveredAt     *time.Time       `json:"delivered_at,omitempty"`
	DeliveryNotes   string           `json:"delivery_notes,omitempty"`
	IsApproved      bool             `json:"is_approved"`
	Items           []*OrderItemView `json:"items"`
	CreatedAt       time.Time        `json:"created_at"`
}

func toOrderView(o *entity.Order) *OrderView {
	items := make([]*OrderItemView, 0, len(o.Items))
	for _, item := range o.Items {
		itemView := &OrderItemView{
			ID:          item.ID,
			ProductID:   item.ProductID,
			Quantity:    item.Quantity,
			PriceAtTime: item.PriceAtTime.String(),
			LineTotal:   item.LineTotal().String(),
		}
		if item.Product != nil {
			itemView.ProductName = item.Product.Name
		}
		items = append(items, itemView)
	}

	return &OrderView{
		ID:              o.ID,
		UserID:          o.UserID,
		Status:          o.Status.String(),
		TotalAmount:     o.TotalAmount.String(),
		ShippingAddress: o.ShippingAddress,
		CardLastFour:    o.Payment.CardLastFour,
		DeliveredAt:     o.DeliveredAt,
		DeliveryNotes:   o.DeliveryNotes,
		IsApproved:      o.IsApproved,
		Items:           items,
		CreatedAt:       o.CreatedAt,
	}
}

func toOrderViews(orders []*entity.Order) []*OrderView {
	views := make([]*OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, toOrderView(o))
	}

	return views
}

// RefundView is the JSON projection of a refund request.
type RefundView struct {
	ID              uuid.UUID  `json:"id"`
	OrderItemID     uuid.UUID  `json:"order_item_id"`
	UserID          uuid.UUID  `json:"user_id"`
	Reason          string     `json:"reason"`
	Status          string     `json:"status"`
	ApprovedBy      *uuid.UUID `json:"approved_by,omitempty"`
	ApprovalDate    *time.Time `json:"approval_date,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func toRefundView(r *entity.RefundRequest) *RefundView {
	return &RefundView{
		ID:              r.ID,
		OrderItemID:     r.OrderItemID,
		UserID:          r.UserID,
		Reason:          r.Reason,
		Status:          r.Status.String(),
		ApprovedBy:      r.ApprovedBy,
		ApprovalDate:    r.ApprovalDate,
		RejectionReason: r.RejectionReason,
		CreatedAt:       r.CreatedAt,
	}
}

func toRefundViews(refunds []*entity.RefundRequest) []*RefundView {
	views := make([]*RefundView, 0, len(refunds))
	for _, r := range refunds {
		views = append(views, toRefundView(r))
	}

	return views
}
