package domain

import "time"

// ChecklistStatus is shared by checklists and their result rows.
type ChecklistStatus string

const (
	ChecklistStatusPending    ChecklistStatus = "PENDING"
	ChecklistStatusInProgress ChecklistStatus = "IN_PROGRESS"
	ChecklistStatusCompleted  ChecklistStatus = "COMPLETED"
	ChecklistStatusCancelled  ChecklistStatus = "CANCELLED"
)

type ChecklistTemplate struct {
	ID        int64
	ServiceID int64
	Name      string
	IsActive  bool
}

type ChecklistTemplateItem struct {
	ID          int64
	TemplateID  int64
	PartID      *int64
	PartName    *string
	Description string
	SortOrder   int
}

// MaintenanceChecklist is the per-booking copy of a service checklist template.
type MaintenanceChecklist struct {
	ID         int64
	BookingID  int64
	TemplateID int64
	Status     ChecklistStatus
	Notes      *string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	ResultCount int
}

// MaintenanceChecklistResult is one line of a checklist; Result stays nil until assessed.
type MaintenanceChecklistResult struct {
	ID          int64
	ChecklistID int64
	PartID      *int64
	PartName    *string
	Description string
	Result      *string
	Status      ChecklistStatus
}
