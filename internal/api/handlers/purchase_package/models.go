package purchase_package

import (
	"github.com/m04kA/SMC-MaintenanceBooking/internal/domain"
	purchasePackage "github.com/m04kA/SMC-MaintenanceBooking/internal/usecase/purchase_package"
)

// PurchasePackageRequest HTTP request model
type PurchasePackageRequest struct {
	CustomerID  int64  `json:"customerId"`
	PackageCode string `json:"packageCode"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *PurchasePackageRequest) ToUseCaseRequest(actor domain.Actor) *purchasePackage.Request {
	return &purchasePackage.Request{
		Actor:       actor,
		CustomerID:  r.CustomerID,
		PackageCode: r.PackageCode,
	}
}
