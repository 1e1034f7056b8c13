package purchase_package

import (
	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
	"github.com/m04kA/SMC-MaintenanceBooking/internal/service/bookings/models"
)

// Request модель запроса на покупку пакета
type Request struct {
	Actor       domain.Actor
	CustomerID  int64
	PackageCode string
}

// Response купленный кредит и пакет
type Response struct {
	Credit  *models.CreditInfo  `json:"credit"`
	Package *models.PackageInfo `json:"package"`
}
