package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestServicePackage_DiscountedPrice(t *testing.T) {
	tests := []struct {
		discount float64
		base     float64
		want     float64
	}{
		{discount: 20, base: 500_000, want: 400_000},
		{discount: 0, base: 123.45, want: 123.45},
		{discount: 100, base: 999, want: 0},
		{discount: 15, base: 10.01, want: 8.51},
	}

	for _, tt := range tests {
		p := ServicePackage{DiscountPercent: tt.discount}
		assert.Equal(t, tt.want, p.DiscountedPrice(tt.base), "discount=%v base=%v", tt.discount, tt.base)
	}
}

func TestServicePackage_IsExpired(t *testing.T) {
	now := time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)
	before := now.Add(-time.Hour)
	after := now.Add(time.Hour)

	assert.False(t, (&ServicePackage{}).IsExpired(now))
	assert.False(t, (&ServicePackage{ValidFrom: &before, ValidUntil: &after}).IsExpired(now))
	assert.True(t, (&ServicePackage{ValidUntil: &before}).IsExpired(now))
	assert.True(t, (&ServicePackage{ValidFrom: &after}).IsExpired(now))
}

func TestCustomerServiceCredit_Usability(t *testing.T) {
	now := time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)
	c := CustomerServiceCredit{
		TotalCredits: 3,
		UsedCredits:  1,
		ExpiryDate:   now.AddDate(0, 0, 1),
		Status:       CreditStatusActive,
	}

	assert.Equal(t, 2, c.Remaining())
	assert.True(t, c.IsUsable(now))

	c.UsedCredits = 3
	assert.Equal(t, 0, c.Remaining())
	assert.False(t, c.IsUsable(now))

	c.UsedCredits = 5
	assert.Equal(t, 0, c.Remaining(), "остаток не уходит в минус")

	c.UsedCredits = 0
	c.ExpiryDate = now
	assert.True(t, c.IsExpired(now), "кредит истекает в момент ExpiryDate")
	assert.False(t, c.IsUsable(now))

	c.ExpiryDate = now.AddDate(0, 0, 1)
	c.Status = CreditStatusExpired
	assert.False(t, c.IsUsable(now))
}

func TestActor_Permissions(t *testing.T) {
	customer := Actor{UserID: 1, Role: ParseRole("customer")}
	staff := Actor{UserID: 9, Role: ParseRole(" STAFF ")}
	unknown := Actor{UserID: 3, Role: ParseRole("admin")}

	assert.False(t, customer.IsStaff())
	assert.True(t, staff.IsStaff())
	assert.Equal(t, RoleCustomer, unknown.Role)

	assert.True(t, customer.CanAccessCustomer(1))
	assert.False(t, customer.CanAccessCustomer(2))
	assert.True(t, staff.CanAccessCustomer(2))

	assert.True(t, customer.CanSetStatus(1, StatusCancelled))
	assert.False(t, customer.CanSetStatus(1, StatusConfirmed))
	assert.False(t, customer.CanSetStatus(2, StatusCancelled))
	assert.True(t, staff.CanSetStatus(2, StatusPaid))
}

func TestAvailableSlot_DurationMinutes(t *testing.T) {
	s := AvailableSlot{StartTime: "08:00", EndTime: "10:30"}
	assert.Equal(t, 150, s.DurationMinutes())

	s.EndTime = "bad"
	assert.Equal(t, 0, s.DurationMinutes())
}
