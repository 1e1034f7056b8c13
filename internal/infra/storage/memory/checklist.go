package memory

import (
	"context"
	"sort"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
	checklistRepo "github.com/m04kA/SMC-MaintenanceBooking/internal/infra/storage/checklist"
)

// ChecklistRepository in-memory аналог checklist.Repository
type ChecklistRepository struct {
	s *Store
}

func (r *ChecklistRepository) GetActiveTemplateByServiceID(_ context.Context, serviceID int64) (*domain.ChecklistTemplate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if err := r.s.injected("checklist.GetActiveTemplateByServiceID"); err != nil {
		return nil, err
	}

	var found *domain.ChecklistTemplate
	for _, tpl := range r.s.st.templates {
		if tpl.ServiceID != serviceID || !tpl.IsActive {
			continue
		}
		tpl := tpl
		if found == nil || tpl.ID < found.ID {
			found = &tpl
		}
	}
	if found == nil {
		return nil, checklistRepo.ErrTemplateNotFound
	}
	return found, nil
}

func (r *ChecklistRepository) GetTemplateItems(_ context.Context, templateID int64) ([]*domain.ChecklistTemplateItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if err := r.s.injected("checklist.GetTemplateItems"); err != nil {
		return nil, err
	}

	items := r.s.st.templateItems[templateID]
	result := make([]*domain.ChecklistTemplateItem, 0, len(items))
	for _, item := range items {
		item := item
		if item.PartID != nil {
			if name, ok := r.s.st.parts[*item.PartID]; ok {
				item.PartName = &name
			}
		}
		result = append(result, &item)
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].SortOrder != result[j].SortOrder {
			return result[i].SortOrder < result[j].SortOrder
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *ChecklistRepository) CreateChecklist(_ context.Context, checklist *domain.MaintenanceChecklist) (*domain.MaintenanceChecklist, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected("checklist.CreateChecklist"); err != nil {
		return nil, err
	}

	now := r.s.now()
	checklist.ID = r.s.nextID()
	checklist.CreatedAt = now
	checklist.UpdatedAt = now
	r.s.st.checklists[checklist.ID] = *checklist
	return checklist, nil
}

func (r *ChecklistRepository) CreateResults(_ context.Context, results []*domain.MaintenanceChecklistResult) error {
	if len(results) == 0 {
		return nil
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected("checklist.CreateResults"); err != nil {
		return err
	}

	for _, res := range results {
		res.ID = r.s.nextID()
		r.s.st.results[res.ID] = *res
	}
	return nil
}

func (r *ChecklistRepository) GetByBookingID(_ context.Context, bookingID int64) (*domain.MaintenanceChecklist, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, c := range r.s.st.checklists {
		if c.BookingID != bookingID {
			continue
		}
		c.ResultCount = 0
		for _, res := range r.s.st.results {
			if res.ChecklistID == c.ID {
				c.ResultCount++
			}
		}
		return &c, nil
	}
	return nil, checklistRepo.ErrChecklistNotFound
}

func (r *ChecklistRepository) GetResults(_ context.Context, checklistID int64) ([]*domain.MaintenanceChecklistResult, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]*domain.MaintenanceChecklistResult, 0)
	for _, res := range r.s.st.results {
		if res.ChecklistID == checklistID {
			res := res
			result = append(result, &res)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *ChecklistRepository) CancelByBookingID(_ context.Context, bookingID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.injected("checklist.CancelByBookingID"); err != nil {
		return false, err
	}

	for id, c := range r.s.st.checklists {
		if c.BookingID != bookingID {
			continue
		}
		c.Status = domain.ChecklistStatusCancelled
		c.UpdatedAt = r.s.now()
		r.s.st.checklists[id] = c

		for resID, res := range r.s.st.results {
			if res.ChecklistID == id {
				res.Status = domain.ChecklistStatusCancelled
				r.s.st.results[resID] = res
			}
		}
		return true, nil
	}
	return false, nil
}
