package domain

import "time"

// OutboxMessage is an event stored in the same transaction as the state change
// it describes and published to the broker afterwards.
type OutboxMessage struct {
	ID            string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// OutboxStats describes the current backlog of the outbox.
type OutboxStats struct {
	PendingCount    int
	OldestPendingAt time.Time
}

// BookingEvent is the payload of booking outbox events.
type BookingEvent struct {
	BookingID        int64     `json:"booking_id"`
	CustomerID       int64     `json:"customer_id"`
	CenterID         int64     `json:"center_id"`
	TechnicianSlotID *int64    `json:"technician_slot_id,omitempty"`
	PreviousStatus   string    `json:"previous_status,omitempty"`
	Status           string    `json:"status"`
	TotalAmount      float64   `json:"total_amount"`
	AppliedCreditID  *int64    `json:"applied_credit_id,omitempty"`
	ActorID          int64     `json:"actor_id,omitempty"`
	OccurredAt       time.Time `json:"occurred_at"`
}

// CreditEvent is the payload of credit outbox events.
type CreditEvent struct {
	CreditID     int64     `json:"credit_id"`
	CustomerID   int64     `json:"customer_id"`
	PackageID    int64     `json:"package_id"`
	TotalCredits int       `json:"total_credits"`
	ExpiryDate   time.Time `json:"expiry_date"`
	OccurredAt   time.Time `json:"occurred_at"`
}
