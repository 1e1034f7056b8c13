package models

import (
	"time"

	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
)

// Request модели

// GetCustomerBookingsRequest запрос истории бронирований клиента
type GetCustomerBookingsRequest struct {
	Actor      domain.Actor
	CustomerID int64
	Status     *string
}

// GetCenterBookingsRequest запрос расписания бронирований центра
type GetCenterBookingsRequest struct {
	Actor            domain.Actor
	CenterID         int64
	Date             *time.Time
	Status           *string
	IncludeCancelled bool
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetCenterBookingsRequest) ToDomainFilter() (domain.CenterBookingsFilter, error) {
	filter := domain.CenterBookingsFilter{
		CenterID:         r.CenterID,
		Date:             r.Date,
		IncludeCancelled: r.IncludeCancelled,
	}

	if r.Status != nil {
		status, err := domain.ParseBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// CustomerInfo данные клиента
type CustomerInfo struct {
	ID       int64   `json:"id"`
	FullName string  `json:"fullName"`
	Phone    *string `json:"phone,omitempty"`
	Email    *string `json:"email,omitempty"`
}

// VehicleInfo данные автомобиля
type VehicleInfo struct {
	ID           int64  `json:"id"`
	LicensePlate string `json:"licensePlate"`
	Model        string `json:"model"`
}

// CenterInfo данные сервисного центра
type CenterInfo struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

// ServiceInfo данные услуги
type ServiceInfo struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	BasePrice       float64 `json:"basePrice"`
	DurationMinutes int     `json:"durationMinutes"`
}

// PackageInfo данные пакета, по которому посчитана цена
type PackageInfo struct {
	ID              int64   `json:"id"`
	Code            string  `json:"code"`
	Name            string  `json:"name"`
	DiscountPercent float64 `json:"discountPercent"`
	TotalUses       int     `json:"totalUses"`
}

// SlotInfo данные слота техника
type SlotInfo struct {
	TechnicianSlotID int64  `json:"technicianSlotId"`
	TechnicianID     int64  `json:"technicianId"`
	TechnicianName   string `json:"technicianName"`
	SlotID           int64  `json:"slotId"`
	Label            string `json:"label"`
	StartTime        string `json:"startTime"`
	EndTime          string `json:"endTime"`
}

// CreditInfo данные примененного кредита
type CreditInfo struct {
	ID           int64  `json:"id"`
	CustomerID   int64  `json:"customerId"`
	PackageID    int64  `json:"packageId"`
	ServiceID    int64  `json:"serviceId"`
	TotalCredits int    `json:"totalCredits"`
	UsedCredits  int    `json:"usedCredits"`
	Remaining    int    `json:"remaining"`
	PurchaseDate string `json:"purchaseDate"`
	ExpiryDate   string `json:"expiryDate"`
	Status       string `json:"status"`
}

// ChecklistInfo сводка чек-листа
type ChecklistInfo struct {
	ID        int64  `json:"id"`
	Status    string `json:"status"`
	ItemCount int    `json:"itemCount"`
}

// BookingResponse краткие данные бронирования для списков
type BookingResponse struct {
	ID                 int64   `json:"id"`
	CustomerID         int64   `json:"customerId"`
	VehicleID          int64   `json:"vehicleId"`
	CenterID           int64   `json:"centerId"`
	ServiceID          *int64  `json:"serviceId,omitempty"`
	PackageID          *int64  `json:"packageId,omitempty"`
	TechnicianSlotID   *int64  `json:"technicianSlotId,omitempty"`
	BookingDate        string  `json:"bookingDate"` // "2025-10-15"
	Status             string  `json:"status"`
	TotalAmount        float64 `json:"totalAmount"`
	PricingSource      string  `json:"pricingSource"`
	AppliedCreditID    *int64  `json:"appliedCreditId,omitempty"`
	SpecialRequest     *string `json:"specialRequest,omitempty"`
	Mileage            *int    `json:"mileage,omitempty"`
	LicensePlate       *string `json:"licensePlate,omitempty"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingView полное представление бронирования с данными справочников
type BookingView struct {
	BookingResponse

	AllowedTransitions []string `json:"allowedTransitions"`

	Customer  *CustomerInfo  `json:"customer,omitempty"`
	Vehicle   *VehicleInfo   `json:"vehicle,omitempty"`
	Center    *CenterInfo    `json:"center,omitempty"`
	Service   *ServiceInfo   `json:"service,omitempty"`
	Package   *PackageInfo   `json:"package,omitempty"`
	Slot      *SlotInfo      `json:"slot,omitempty"`
	Credit    *CreditInfo    `json:"credit,omitempty"`
	Checklist *ChecklistInfo `json:"checklist,omitempty"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// CreditListResponse ответ со списком кредитов клиента
type CreditListResponse struct {
	Credits []CreditInfo `json:"credits"`
}

// Методы конвертации

// PricingSource возвращает "package" или "service"
func PricingSource(b *domain.Booking) string {
	if b.IsPackageBooking() {
		return "package"
	}
	return "service"
}

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		CustomerID:         b.CustomerID,
		VehicleID:          b.VehicleID,
		CenterID:           b.CenterID,
		ServiceID:          b.ServiceID,
		PackageID:          b.PackageID,
		TechnicianSlotID:   b.TechnicianSlotID,
		BookingDate:        b.BookingDate.Format(domain.DateFormat),
		Status:             b.Status.String(),
		TotalAmount:        b.TotalAmount,
		PricingSource:      PricingSource(b),
		AppliedCreditID:    b.AppliedCreditID,
		SpecialRequest:     b.SpecialRequest,
		Mileage:            b.Mileage,
		LicensePlate:       b.LicensePlate,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if b.CancelledAt != nil {
		cancelled := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelled
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}
	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, *FromDomainBooking(b))
	}
	return resp
}

// FromDomainCredit конвертирует кредит в DTO
func FromDomainCredit(c *domain.CustomerServiceCredit) *CreditInfo {
	if c == nil {
		return nil
	}
	return &CreditInfo{
		ID:           c.ID,
		CustomerID:   c.CustomerID,
		PackageID:    c.PackageID,
		ServiceID:    c.ServiceID,
		TotalCredits: c.TotalCredits,
		UsedCredits:  c.UsedCredits,
		Remaining:    c.Remaining(),
		PurchaseDate: c.PurchaseDate.Format(domain.DateFormat),
		ExpiryDate:   c.ExpiryDate.Format(domain.DateFormat),
		Status:       string(c.Status),
	}
}

// FromDomainPackage конвертирует пакет в DTO
func FromDomainPackage(p *domain.ServicePackage) *PackageInfo {
	if p == nil {
		return nil
	}
	return &PackageInfo{
		ID:              p.ID,
		Code:            p.Code,
		Name:            p.Name,
		DiscountPercent: p.DiscountPercent,
		TotalUses:       p.TotalUses,
	}
}
