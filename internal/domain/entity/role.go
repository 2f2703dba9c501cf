// Package entity contains the core business objects of the project.
package entity

// Role represents the type of role a principal can have in the system.
type Role string

const (
	// RoleCustomer indicates a regular shopper.
	RoleCustomer Role = "CUSTOMER"
	// RoleSalesManager indicates a sales manager who approves orders and refunds.
	RoleSalesManager Role = "SALES_MANAGER"
	// RoleProductManager indicates a product manager who maintains the catalog.
	RoleProductManager Role = "PRODUCT_MANAGER"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleSalesManager, RoleProductManager:
		return true
	default:
		return false
	}
}

// IsManager reports whether the role carries back-office privileges.
func (r Role) IsManager() bool {
	return r == RoleSalesManager || r == RoleProductManager
}

// RoleFromString converts a string to a Role, returning false for unknown values.
func RoleFromString(s string) (Role, bool) {
	role := Role(s)

	return role, role.IsValid()
}
