package domain

// Read-only directory entities. They are maintained by other parts of the
// platform; the booking engine only looks them up.

type Customer struct {
	ID       int64
	FullName string
	Phone    *string
	Email    *string
}

type Vehicle struct {
	ID           int64
	CustomerID   int64
	LicensePlate string
	Model        string
	Mileage      int
}

type ServiceCenter struct {
	ID       int64
	Name     string
	Address  string
	IsActive bool
}

type Service struct {
	ID              int64
	Name            string
	BasePrice       float64
	DurationMinutes int
	IsActive        bool
}

type Technician struct {
	ID       int64
	CenterID int64
	FullName string
	IsActive bool
}
