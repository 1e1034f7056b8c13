package domain

// Default configuration values
const (
	DefaultCreditValidityDays = 365
	DefaultTimeZone           = "Asia/Ho_Chi_Minh"
)

// Business validation constants
const (
	MaxSpecialRequestLength     = 500
	MaxCancellationReasonLength = 500
	MaxPackageCodeLength        = 64
	MaxMileage                  = 5_000_000
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Outbox event types
const (
	EventBookingCreated       = "booking.created"
	EventBookingStatusChanged = "booking.status_changed"
	EventCreditPurchased      = "credit.purchased"

	AggregateBooking = "booking"
	AggregateCredit  = "credit"
)
