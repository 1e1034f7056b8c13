package booking

import (
	"github.com/m04kA/SMC-MaintenanceBooking/pkg/dbmetrics"
)

// Переиспользуем интерфейс из dbmetrics для работы с БД.
// Поддерживает *sql.DB, *dbmetrics.DB и транзакцию из контекста.
type DBExecutor = dbmetrics.DBExecutor
