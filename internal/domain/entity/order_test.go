package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderProcessing, OrderInTransit, true},
		{OrderProcessing, OrderCancelled, true},
		{OrderProcessing, OrderDelivered, false},
		{OrderInTransit, OrderDelivered, true},
		{OrderInTransit, OrderCancelled, false},
		{OrderInTransit, OrderProcessing, false},
		{OrderDelivered, OrderProcessing, false},
		{OrderDelivered, OrderInTransit, false},
		{OrderCancelled, OrderProcessing, false},
		{OrderCancelled, OrderInTransit, false},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestOrderStatus_IsTerminal(t *testing.T) {
	assert.False(t, OrderProcessing.IsTerminal())
	assert.False(t, OrderInTransit.IsTerminal())
	assert.True(t, OrderDelivered.IsTerminal())
	assert.True(t, OrderCancelled.IsTerminal())
}

func TestOrder_ItemsTotal(t *testing.T) {
	order := &Order{
		Items: []*OrderItem{
			{Quantity: 2, PriceAtTime: decimal.RequireFromString("10.50")},
			{Quantity: 1, PriceAtTime: decimal.RequireFromString("4.25")},
		},
	}

	assert.True(t, decimal.RequireFromString("25.25").Equal(order.ItemsTotal()))
}

func TestRefundEligible(t *testing.T) {
	now := time.Now()

	assert.True(t, RefundEligible(now.Add(-29*24*time.Hour), now))
	assert.False(t, RefundEligible(now.Add(-30*24*time.Hour), now))
	assert.False(t, RefundEligible(now.Add(-31*24*time.Hour), now))
}

func TestRefundStatus_Blocks(t *testing.T) {
	assert.True(t, RefundPending.Blocks())
	assert.True(t, RefundApproved.Blocks())
	assert.False(t, RefundRejected.Blocks())
}

func TestCartOwner_Union(t *testing.T) {
	userID := uuid.New()

	userOwner := OwnerForUser(userID)
	assert.True(t, userOwner.IsUser())
	gotID, ok := userOwner.UserID()
	assert.True(t, ok)
	assert.Equal(t, userID, gotID)
	_, ok = userOwner.SessionToken()
	assert.False(t, ok)
	assert.Equal(t, "cart:user:"+userID.String(), userOwner.CacheKey())

	sessionOwner := OwnerForSession("tok-123")
	assert.False(t, sessionOwner.IsUser())
	token, ok := sessionOwner.SessionToken()
	assert.True(t, ok)
	assert.Equal(t, "tok-123", token)
	assert.Equal(t, "cart:session:tok-123", sessionOwner.CacheKey())
}

func TestCart_Total_SkipsMissingProducts(t *testing.T) {
	cart := &Cart{
		Items: []*CartItem{
			{Quantity: 3, Product: &Product{Price: decimal.RequireFromString("2.00")}},
			{Quantity: 5, Product: nil},
		},
	}

	assert.True(t, decimal.RequireFromString("6.00").Equal(cart.Total()))
}

func TestRole_Can(t *testing.T) {
	assert.True(t, RoleCustomer.Can(CapPlaceOrder).Allowed())
	assert.True(t, RoleCustomer.Can(CapRequestRefund).Allowed())
	assert.False(t, RoleCustomer.Can(CapResolveRefund).Allowed())
	assert.False(t, RoleCustomer.Can(CapAdvanceOrder).Allowed())

	assert.True(t, RoleSalesManager.Can(CapResolveRefund).Allowed())
	assert.True(t, RoleSalesManager.Can(CapApproveOrder).Allowed())
	assert.False(t, RoleSalesManager.Can(CapPlaceOrder).Allowed())

	assert.True(t, RoleProductManager.Can(CapAdvanceOrder).Allowed())
	assert.False(t, RoleProductManager.Can(CapResolveRefund).Allowed())
}

func TestAddress_ShippingText(t *testing.T) {
	addr := &Address{
		StreetAddress: "123 Test Street",
		City:          "Test City",
		State:         "Test State",
		PostalCode:    "12345",
		Country:       "Test Country",
	}

	assert.Equal(t, "123 Test Street, Test City, Test State, 12345, Test Country", addr.ShippingText())

	partial := &Address{StreetAddress: "5 Elm Rd", City: "Springfield", Country: "US"}
	assert.Equal(t, "5 Elm Rd, Springfield, US", partial.ShippingText())
}
