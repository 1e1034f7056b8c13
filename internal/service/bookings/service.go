package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-MaintenanceBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/service/bookings/models"
)

// Service чтение бронирований и сборка их представлений
type Service struct {
	bookingRepo BookingRepository
	directory   Directory
	slots       SlotReader
	packages    PackageRepository
	credits     CreditReader
	checklists  ChecklistReader
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	directory Directory,
	slots SlotReader,
	packages PackageRepository,
	credits CreditReader,
	checklists ChecklistReader,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		directory:   directory,
		slots:       slots,
		packages:    packages,
		credits:     credits,
		checklists:  checklists,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID.
// Клиент видит только свои бронирования, сотрудник центра видит любые.
func (s *Service) GetByID(ctx context.Context, id int64, actor domain.Actor) (*models.BookingView, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, actor.UserID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if !actor.CanAccessCustomer(booking.CustomerID) {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", actor.UserID, id)
		return nil, ErrAccessDenied
	}

	return s.Compose(ctx, booking), nil
}

// GetCustomerBookings возвращает историю бронирований клиента, опционально по статусу
func (s *Service) GetCustomerBookings(ctx context.Context, req *models.GetCustomerBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetCustomerBookings: fetching bookings for customer=%d, status=%v", req.CustomerID, req.Status)

	if !req.Actor.CanAccessCustomer(req.CustomerID) {
		s.logger.Warn("GetCustomerBookings: access denied for user=%d to customer=%d", req.Actor.UserID, req.CustomerID)
		return nil, ErrAccessDenied
	}

	var status *domain.BookingStatus
	if req.Status != nil {
		parsed, err := domain.ParseBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetCustomerBookings: invalid status=%s for customer=%d", *req.Status, req.CustomerID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		status = &parsed
	}

	bookings, err := s.bookingRepo.GetByCustomerID(ctx, req.CustomerID, status)
	if err != nil {
		s.logger.Error("GetCustomerBookings: repository error for customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: GetCustomerBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetCustomerBookings: fetched %d bookings for customer=%d", len(bookings), req.CustomerID)
	return models.FromDomainBookingList(bookings), nil
}

// GetCenterBookings возвращает бронирования центра с фильтрацией по дате и статусу.
// Доступно только сотрудникам. Отмененные бронирования скрыты, если не запрошены явно.
func (s *Service) GetCenterBookings(ctx context.Context, req *models.GetCenterBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetCenterBookings: fetching bookings for center=%d, user=%d", req.CenterID, req.Actor.UserID)

	if !req.Actor.IsStaff() {
		s.logger.Warn("GetCenterBookings: user=%d is not staff", req.Actor.UserID)
		return nil, ErrAccessDenied
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetCenterBookings: invalid filter for center=%d: %v", req.CenterID, err)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByCenterWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetCenterBookings: repository error for center=%d: %v", req.CenterID, err)
		return nil, fmt.Errorf("%w: GetCenterBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetCenterBookings: fetched %d bookings for center=%d", len(bookings), req.CenterID)
	return models.FromDomainBookingList(bookings), nil
}

// Compose собирает представление бронирования.
// Справочные данные подгружаются по возможности: ошибка чтения справочника
// логируется и оставляет соответствующий блок пустым.
func (s *Service) Compose(ctx context.Context, booking *domain.Booking) *models.BookingView {
	view := &models.BookingView{
		BookingResponse:    *models.FromDomainBooking(booking),
		AllowedTransitions: make([]string, 0),
	}
	for _, status := range booking.Status.AllowedTransitions() {
		view.AllowedTransitions = append(view.AllowedTransitions, status.String())
	}

	if customer, err := s.directory.GetCustomer(ctx, booking.CustomerID); err == nil {
		view.Customer = &models.CustomerInfo{
			ID:       customer.ID,
			FullName: customer.FullName,
			Phone:    customer.Phone,
			Email:    customer.Email,
		}
	} else {
		s.logger.Warn("Compose: customer id=%d for booking id=%d: %v", booking.CustomerID, booking.ID, err)
	}

	if vehicle, err := s.directory.GetVehicle(ctx, booking.VehicleID); err == nil {
		view.Vehicle = &models.VehicleInfo{
			ID:           vehicle.ID,
			LicensePlate: vehicle.LicensePlate,
			Model:        vehicle.Model,
		}
	} else {
		s.logger.Warn("Compose: vehicle id=%d for booking id=%d: %v", booking.VehicleID, booking.ID, err)
	}

	if center, err := s.directory.GetCenter(ctx, booking.CenterID); err == nil {
		view.Center = &models.CenterInfo{
			ID:      center.ID,
			Name:    center.Name,
			Address: center.Address,
		}
	} else {
		s.logger.Warn("Compose: center id=%d for booking id=%d: %v", booking.CenterID, booking.ID, err)
	}

	// Услуга пакетного бронирования берется из пакета
	serviceID := booking.ServiceID
	if booking.PackageID != nil {
		if pkg, err := s.packages.GetByID(ctx, *booking.PackageID); err == nil {
			view.Package = models.FromDomainPackage(pkg)
			serviceID = &pkg.ServiceID
		} else {
			s.logger.Warn("Compose: package id=%d for booking id=%d: %v", *booking.PackageID, booking.ID, err)
		}
	}

	if serviceID != nil {
		if svc, err := s.directory.GetService(ctx, *serviceID); err == nil {
			view.Service = &models.ServiceInfo{
				ID:              svc.ID,
				Name:            svc.Name,
				BasePrice:       svc.BasePrice,
				DurationMinutes: svc.DurationMinutes,
			}
		} else {
			s.logger.Warn("Compose: service id=%d for booking id=%d: %v", *serviceID, booking.ID, err)
		}
	}

	if booking.TechnicianSlotID != nil {
		if slot, err := s.slots.Get(ctx, *booking.TechnicianSlotID); err == nil {
			view.Slot = &models.SlotInfo{
				TechnicianSlotID: slot.ID,
				TechnicianID:     slot.TechnicianID,
				TechnicianName:   slot.TechnicianName,
				SlotID:           slot.SlotID,
				Label:            slot.SlotLabel,
				StartTime:        slot.StartTime.String(),
				EndTime:          slot.EndTime.String(),
			}
		} else {
			s.logger.Warn("Compose: technician slot id=%d for booking id=%d: %v", *booking.TechnicianSlotID, booking.ID, err)
		}
	}

	if booking.AppliedCreditID != nil {
		if credit, err := s.credits.Get(ctx, *booking.AppliedCreditID); err == nil {
			view.Credit = models.FromDomainCredit(credit)
		} else {
			s.logger.Warn("Compose: credit id=%d for booking id=%d: %v", *booking.AppliedCreditID, booking.ID, err)
		}
	}

	if checklist, _, err := s.checklists.Get(ctx, booking.ID); err == nil {
		view.Checklist = &models.ChecklistInfo{
			ID:        checklist.ID,
			Status:    string(checklist.Status),
			ItemCount: checklist.ResultCount,
		}
	}

	return view
}
