package purchase_package

import (
	"context"

	purchasePackage "github.com/m04kA/SMC-MaintenanceBooking/internal/usecase/purchase_package"
)

type PurchasePackageUseCase interface {
	Execute(ctx context.Context, req *purchasePackage.Request) (*purchasePackage.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
