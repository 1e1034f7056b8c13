package outbox

import (
	"github.com/m04kA/SMC-MaintenanceBooking/pkg/dbmetrics"
)

type DBExecutor = dbmetrics.DBExecutor
