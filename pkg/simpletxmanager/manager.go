package simpletxmanager

import (
	"database/sql"

	"github.com/m04kA/SMC-MaintenanceBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-MaintenanceBooking/pkg/txmanager"
)

// NewTransactionManager создает менеджер транзакций поверх голого *sql.DB (без метрик)
func NewTransactionManager(db *sql.DB) *txmanager.TransactionManager {
	return txmanager.NewTransactionManager(dbmetrics.SqlDBWrapper{DB: db})
}
