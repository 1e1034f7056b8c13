package domain

import "strings"

// Role of the caller as asserted by the upstream gateway.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
)

// ParseRole maps a header value to a Role. Anything unknown is a customer.
func ParseRole(raw string) Role {
	if strings.EqualFold(strings.TrimSpace(raw), string(RoleStaff)) {
		return RoleStaff
	}
	return RoleCustomer
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID int64
	Role   Role
}

// IsStaff reports whether the actor acts on behalf of a service center.
func (a Actor) IsStaff() bool {
	return a.Role == RoleStaff
}

// CanAccessCustomer reports whether the actor may read or act on data of customerID.
func (a Actor) CanAccessCustomer(customerID int64) bool {
	return a.IsStaff() || a.UserID == customerID
}

// CanSetStatus reports whether the actor may move a booking of customerID to target.
// Customers may only cancel their own bookings.
func (a Actor) CanSetStatus(customerID int64, target BookingStatus) bool {
	if a.IsStaff() {
		return true
	}
	return a.UserID == customerID && target == StatusCancelled
}
