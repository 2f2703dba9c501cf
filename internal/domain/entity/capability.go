// Package entity contains the core business objects of the project.
package entity

// Capability names a single guarded action in the order and refund lifecycle.
type Capability string

const (
	// CapPlaceOrder covers cart mutation and checkout.
	CapPlaceOrder Capability = "order.place"
	// CapCancelOwnOrder covers a customer cancelling their own order.
	CapCancelOwnOrder Capability = "order.cancel_own"
	// CapAdvanceOrder covers moving an order through the delivery pipeline.
	CapAdvanceOrder Capability = "order.advance"
	// CapApproveOrder covers the manager sign-off flag on an order.
	CapApproveOrder Capability = "order.approve"
	// CapRequestRefund covers creating, editing, and cancelling own refund requests.
	CapRequestRefund Capability = "refund.request"
	// CapResolveRefund covers approving or rejecting refund requests.
	CapResolveRefund Capability = "refund.resolve"
	// CapViewAllOrders covers listing orders across all customers.
	CapViewAllOrders Capability = "order.view_all"
)

// Decision is the typed outcome of a capability check.
type Decision int

const (
	// DecisionDeny refuses the action for the principal's role.
	DecisionDeny Decision = iota
	// DecisionAllow permits the action for the principal's role.
	DecisionAllow
)

// Allowed reports whether the decision permits the action.
func (d Decision) Allowed() bool {
	return d == DecisionAllow
}

// roleCapabilities is the closed capability table keyed by role.
var roleCapabilities = map[Role]map[Capability]struct{}{
	RoleCustomer: {
		CapPlaceOrder:     {},
		CapCancelOwnOrder: {},
		CapRequestRefund:  {},
	},
	RoleSalesManager: {
		CapAdvanceOrder:  {},
		CapApproveOrder:  {},
		CapResolveRefund: {},
		CapViewAllOrders: {},
	},
	RoleProductManager: {
		CapAdvanceOrder:  {},
		CapViewAllOrders: {},
	},
}

// Can evaluates whether the role holds the given capability.
func (r Role) Can(c Capability) Decision {
	caps, ok := roleCapabilities[r]
	if !ok {
		return DecisionDeny
	}
	if _, ok := caps[c]; !ok {
		return DecisionDeny
	}

	return DecisionAllow
}
