package domain

import (
	"math"
	"time"
)

// CreditStatus is the stored state of a customer service credit.
type CreditStatus string

const (
	CreditStatusActive  CreditStatus = "ACTIVE"
	CreditStatusUsedUp  CreditStatus = "USED_UP"
	CreditStatusExpired CreditStatus = "EXPIRED"
)

// ServicePackage is a prepaid bundle of TotalUses uses of one service sold at a discount.
type ServicePackage struct {
	ID              int64
	Code            string
	Name            string
	ServiceID       int64
	TotalUses       int
	DiscountPercent float64
	IsActive        bool
	ValidFrom       *time.Time
	ValidUntil      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsExpired returns true if the package is outside its validity window at now.
func (p *ServicePackage) IsExpired(now time.Time) bool {
	if p.ValidUntil != nil && now.After(*p.ValidUntil) {
		return true
	}
	if p.ValidFrom != nil && now.Before(*p.ValidFrom) {
		return true
	}
	return false
}

// DiscountedPrice applies the package discount to a base price, rounded to cents.
func (p *ServicePackage) DiscountedPrice(basePrice float64) float64 {
	return RoundMoney(basePrice * (1 - p.DiscountPercent/100))
}

// CustomerServiceCredit tracks how many uses of a purchased package remain.
// Invariant: 0 <= UsedCredits <= TotalCredits.
type CustomerServiceCredit struct {
	ID           int64
	CustomerID   int64
	PackageID    int64
	ServiceID    int64
	TotalCredits int
	UsedCredits  int
	PurchaseDate time.Time
	ExpiryDate   time.Time
	Status       CreditStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Remaining returns TotalCredits - UsedCredits, never negative.
func (c *CustomerServiceCredit) Remaining() int {
	if c.UsedCredits >= c.TotalCredits {
		return 0
	}
	return c.TotalCredits - c.UsedCredits
}

// IsExpired checks the expiry date, independently of the stored status.
func (c *CustomerServiceCredit) IsExpired(now time.Time) bool {
	return !now.Before(c.ExpiryDate)
}

// IsUsable returns true if at least one use can be consumed at now.
func (c *CustomerServiceCredit) IsUsable(now time.Time) bool {
	return c.Status == CreditStatusActive && !c.IsExpired(now) && c.Remaining() > 0
}

// RoundMoney rounds an amount to two decimal places.
func RoundMoney(amount float64) float64 {
	return math.Round(amount*100) / 100
}
