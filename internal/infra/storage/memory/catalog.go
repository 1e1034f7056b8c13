package memory

import (
	"context"
	"sort"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
	directoryRepo "github.com/m04kA/SMC-MaintenanceBooking/internal/infra/storage/directory"
	packageRepo "github.com/m04kA/SMC-MaintenanceBooking/internal/infra/storage/servicepackage"
)

// PackageRepository in-memory аналог servicepackage.Repository
type PackageRepository struct {
	s *Store
}

func (r *PackageRepository) GetByCode(_ context.Context, code string) (*domain.ServicePackage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.st.packages {
		if p.Code == code {
			p := p
			return &p, nil
		}
	}
	return nil, packageRepo.ErrPackageNotFound
}

func (r *PackageRepository) GetByID(_ context.Context, id int64) (*domain.ServicePackage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.st.packages[id]
	if !ok {
		return nil, packageRepo.ErrPackageNotFound
	}
	return &p, nil
}

// DirectoryRepository in-memory аналог directory.Repository
type DirectoryRepository struct {
	s *Store
}

func (r *DirectoryRepository) GetCustomer(_ context.Context, id int64) (*domain.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if err := r.s.injected("directory.GetCustomer"); err != nil {
		return nil, err
	}
	c, ok := r.s.st.customers[id]
	if !ok {
		return nil, directoryRepo.ErrCustomerNotFound
	}
	return &c, nil
}

func (r *DirectoryRepository) GetVehicle(_ context.Context, id int64) (*domain.Vehicle, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	v, ok := r.s.st.vehicles[id]
	if !ok {
		return nil, directoryRepo.ErrVehicleNotFound
	}
	return &v, nil
}

func (r *DirectoryRepository) GetCenter(_ context.Context, id int64) (*domain.ServiceCenter, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.st.centers[id]
	if !ok {
		return nil, directoryRepo.ErrCenterNotFound
	}
	return &c, nil
}

func (r *DirectoryRepository) GetService(_ context.Context, id int64) (*domain.Service, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	svc, ok := r.s.st.services[id]
	if !ok {
		return nil, directoryRepo.ErrServiceNotFound
	}
	return &svc, nil
}

func (r *DirectoryRepository) GetTechnician(_ context.Context, id int64) (*domain.Technician, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.st.technicians[id]
	if !ok {
		return nil, directoryRepo.ErrTechnicianNotFound
	}
	return &t, nil
}

func (r *DirectoryRepository) GetTimeSlot(_ context.Context, id int64) (*domain.TimeSlot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ts, ok := r.s.st.timeSlots[id]
	if !ok {
		return nil, directoryRepo.ErrTimeSlotNotFound
	}
	return &ts, nil
}

func (r *DirectoryRepository) ListTimeSlots(_ context.Context) ([]*domain.TimeSlot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]*domain.TimeSlot, 0, len(r.s.st.timeSlots))
	for _, ts := range r.s.st.timeSlots {
		ts := ts
		result = append(result, &ts)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].StartTime != result[j].StartTime {
			return result[i].StartTime.IsBefore(result[j].StartTime)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}
