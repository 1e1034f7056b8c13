package purchase_package

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("purchase_package: invalid input data")

	// ErrAccessDenied возвращается, когда клиент покупает пакет за другого клиента
	ErrAccessDenied = errors.New("purchase_package: access denied")

	ErrCustomerNotFound = errors.New("purchase_package: customer not found")
	ErrPackageNotFound  = errors.New("purchase_package: package not found")
	ErrPackageInactive  = errors.New("purchase_package: package is not active")
	ErrPackageExpired   = errors.New("purchase_package: package has expired")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("purchase_package: internal error")
)
