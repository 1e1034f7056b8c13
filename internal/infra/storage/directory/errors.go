package directory

import "errors"

var (
	ErrCustomerNotFound   = errors.New("directory.repository: customer not found")
	ErrVehicleNotFound    = errors.New("directory.repository: vehicle not found")
	ErrCenterNotFound     = errors.New("directory.repository: service center not found")
	ErrServiceNotFound    = errors.New("directory.repository: service not found")
	ErrTechnicianNotFound = errors.New("directory.repository: technician not found")
	ErrTimeSlotNotFound   = errors.New("directory.repository: time slot not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("directory.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("directory.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("directory.repository: failed to scan row")
)
