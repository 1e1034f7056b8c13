package memory

import (
	"context"
	"sort"
	"time"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
	creditRepo "github.com/m04kA/SMC-MaintenanceBooking/internal/infra/storage/credit"
)

// CreditRepository in-memory аналог credit.Repository
type CreditRepository struct {
	s *Store
}

func (r *CreditRepository) Create(_ context.Context, credit *domain.CustomerServiceCredit) (*domain.CustomerServiceCredit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected("credit.Create"); err != nil {
		return nil, err
	}

	now := r.s.now()
	credit.ID = r.s.nextID()
	credit.CreatedAt = now
	credit.UpdatedAt = now
	r.s.st.credits[credit.ID] = *credit
	return credit, nil
}

func (r *CreditRepository) GetByID(_ context.Context, id int64) (*domain.CustomerServiceCredit, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.st.credits[id]
	if !ok {
		return nil, creditRepo.ErrCreditNotFound
	}
	return &c, nil
}

func (r *CreditRepository) GetByCustomerID(_ context.Context, customerID int64) ([]*domain.CustomerServiceCredit, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]*domain.CustomerServiceCredit, 0)
	for _, c := range r.s.st.credits {
		if c.CustomerID == customerID {
			c := c
			result = append(result, &c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (r *CreditRepository) FindUsable(_ context.Context, customerID, packageID int64, now time.Time) (*domain.CustomerServiceCredit, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var best *domain.CustomerServiceCredit
	for _, c := range r.s.st.credits {
		if c.CustomerID != customerID || c.PackageID != packageID || !c.IsUsable(now) {
			continue
		}
		c := c
		if best == nil || c.ExpiryDate.Before(best.ExpiryDate) ||
			(c.ExpiryDate.Equal(best.ExpiryDate) && c.ID < best.ID) {
			best = &c
		}
	}
	if best == nil {
		return nil, creditRepo.ErrCreditNotFound
	}
	return best, nil
}

func (r *CreditRepository) Consume(_ context.Context, id int64, n int) (*domain.CustomerServiceCredit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.st.credits[id]
	if !ok {
		return nil, creditRepo.ErrCreditNotFound
	}
	if c.UsedCredits+n > c.TotalCredits {
		return nil, creditRepo.ErrInsufficientCredits
	}

	c.UsedCredits += n
	if c.UsedCredits >= c.TotalCredits {
		c.Status = domain.CreditStatusUsedUp
	}
	c.UpdatedAt = r.s.now()
	r.s.st.credits[id] = c
	return &c, nil
}

func (r *CreditRepository) RefundOne(_ context.Context, id int64) (*domain.CustomerServiceCredit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.st.credits[id]
	if !ok {
		return nil, creditRepo.ErrCreditNotFound
	}
	if c.UsedCredits <= 0 {
		return nil, creditRepo.ErrNothingToRefund
	}

	c.UsedCredits--
	if c.Status == domain.CreditStatusUsedUp {
		c.Status = domain.CreditStatusActive
	}
	c.UpdatedAt = r.s.now()
	r.s.st.credits[id] = c
	return &c, nil
}

func (r *CreditRepository) UpdateStatus(_ context.Context, id int64, status domain.CreditStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected("credit.UpdateStatus"); err != nil {
		return err
	}
	c, ok := r.s.st.credits[id]
	if !ok {
		return creditRepo.ErrCreditNotFound
	}
	c.Status = status
	c.UpdatedAt = r.s.now()
	r.s.st.credits[id] = c
	return nil
}

// Delete удаляет кредит и, как ON DELETE SET NULL, обнуляет ссылки из бронирований
func (r *CreditRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected("credit.Delete"); err != nil {
		return err
	}
	if _, ok := r.s.st.credits[id]; !ok {
		return creditRepo.ErrCreditNotFound
	}
	delete(r.s.st.credits, id)

	for bid, b := range r.s.st.bookings {
		if b.AppliedCreditID != nil && *b.AppliedCreditID == id {
			b.AppliedCreditID = nil
			r.s.st.bookings[bid] = b
		}
	}
	return nil
}

func (r *CreditRepository) ExpireOverdue(_ context.Context, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var expired int64
	for id, c := range r.s.st.credits {
		if c.Status == domain.CreditStatusActive && c.IsExpired(now) {
			c.Status = domain.CreditStatusExpired
			c.UpdatedAt = r.s.now()
			r.s.st.credits[id] = c
			expired++
		}
	}
	return expired, nil
}
