package techslot

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот техника не найден
	ErrSlotNotFound = errors.New("techslot.repository: technician slot not found")

	// ErrSlotNotReserved возвращается при попытке привязать бронирование к слоту, который не зарезервирован
	// или уже занят другим бронированием
	ErrSlotNotReserved = errors.New("techslot.repository: technician slot is not reserved")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("techslot.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("techslot.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("techslot.repository: failed to scan row")
)
