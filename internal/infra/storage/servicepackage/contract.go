package servicepackage

import (
	"github.com/m04kA/SMC-MaintenanceBooking/pkg/dbmetrics"
)

type DBExecutor = dbmetrics.DBExecutor
