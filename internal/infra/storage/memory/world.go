package memory

import (
	"time"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
	"github.com/m04kA/SMC-MaintenanceBooking/pkg/ptr"
)

// World типовой набор справочников для тестов: один центр, техник
// с двумя слотами на дату, услуга с шаблоном чек-листа и пакет на нее
type World struct {
	Store *Store

	Customer      domain.Customer
	OtherCustomer domain.Customer
	Vehicle       domain.Vehicle
	Center        domain.ServiceCenter
	Service       domain.Service
	Package       domain.ServicePackage
	Technician    domain.Technician

	Morning   domain.TimeSlot
	Afternoon domain.TimeSlot

	MorningSlot   domain.TechnicianTimeSlot
	AfternoonSlot domain.TechnicianTimeSlot

	Template      domain.ChecklistTemplate
	TemplateItems int
}

// NewWorld наполняет новое хранилище на рабочую дату date
func NewWorld(date time.Time) *World {
	s := NewStore()
	w := &World{Store: s}

	w.Customer = s.AddCustomer(domain.Customer{ID: 1, FullName: "Nguyen Van An", Phone: ptr.Ptr("+84901234567")})
	w.OtherCustomer = s.AddCustomer(domain.Customer{ID: 2, FullName: "Tran Thi Binh"})
	w.Vehicle = s.AddVehicle(domain.Vehicle{ID: 3, CustomerID: w.Customer.ID, LicensePlate: "51A-123.45", Model: "Honda Vision", Mileage: 12000})
	w.Center = s.AddCenter(domain.ServiceCenter{ID: 4, Name: "District 1", Address: "12 Le Loi", IsActive: true})
	w.Service = s.AddService(domain.Service{ID: 5, Name: "Oil change", BasePrice: 500_000, DurationMinutes: 60, IsActive: true})
	w.Package = s.AddPackage(domain.ServicePackage{
		ID:              6,
		Code:            "PKG-A",
		Name:            "Three oil changes",
		ServiceID:       w.Service.ID,
		TotalUses:       3,
		DiscountPercent: 20,
		IsActive:        true,
	})
	w.Technician = s.AddTechnician(domain.Technician{ID: 7, CenterID: w.Center.ID, FullName: "Le Van Cuong", IsActive: true})

	w.Morning = s.AddTimeSlot(domain.TimeSlot{ID: 8, Label: "Morning", StartTime: "08:00", EndTime: "10:00"})
	w.Afternoon = s.AddTimeSlot(domain.TimeSlot{ID: 9, Label: "Afternoon", StartTime: "14:00", EndTime: "16:00"})

	w.MorningSlot = s.AddTechnicianSlot(domain.TechnicianTimeSlot{
		ID: 10, TechnicianID: w.Technician.ID, SlotID: w.Morning.ID, WorkDate: date, IsAvailable: true,
	})
	w.AfternoonSlot = s.AddTechnicianSlot(domain.TechnicianTimeSlot{
		ID: 11, TechnicianID: w.Technician.ID, SlotID: w.Afternoon.ID, WorkDate: date, IsAvailable: true,
	})

	s.AddPart(100, "Engine oil")
	s.AddPart(101, "Oil filter")
	w.Template = s.AddChecklistTemplate(
		domain.ChecklistTemplate{ID: 12, ServiceID: w.Service.ID, Name: "Oil change checklist", IsActive: true},
		[]domain.ChecklistTemplateItem{
			{PartID: ptr.Ptr(int64(100)), Description: "Drain and refill engine oil", SortOrder: 1},
			{PartID: ptr.Ptr(int64(101)), Description: "Replace oil filter", SortOrder: 2},
			{Description: "Check for leaks", SortOrder: 3},
		},
	)
	w.TemplateItems = 3

	return w
}

// Slot возвращает текущее состояние слота техника
func (w *World) Slot(id int64) domain.TechnicianTimeSlot {
	w.Store.mu.RLock()
	defer w.Store.mu.RUnlock()
	return w.Store.st.techSlots[id]
}

// BookingCount возвращает число сохраненных бронирований
func (w *World) BookingCount() int {
	w.Store.mu.RLock()
	defer w.Store.mu.RUnlock()
	return len(w.Store.st.bookings)
}

// CreditCount возвращает число кредитов
func (w *World) CreditCount() int {
	w.Store.mu.RLock()
	defer w.Store.mu.RUnlock()
	return len(w.Store.st.credits)
}

// AddBooking сохраняет бронирование напрямую, минуя ledger слотов
func (s *Store) AddBooking(b domain.Booking) domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == 0 {
		b.ID = s.nextID()
	}
	s.st.bookings[b.ID] = b
	return b
}
