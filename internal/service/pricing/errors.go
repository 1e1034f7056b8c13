package pricing

import "errors"

var (
	// ErrInvalidSelection возвращается, когда не указано ровно одно из: услуга или код пакета
	ErrInvalidSelection = errors.New("pricing: exactly one of service id or package code must be provided")

	ErrServiceNotFound = errors.New("pricing: service not found")
	ErrServiceInactive = errors.New("pricing: service is not active")
	ErrPackageNotFound = errors.New("pricing: package not found")
	ErrPackageInactive = errors.New("pricing: package is not active")
	ErrPackageExpired  = errors.New("pricing: package has expired")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("pricing: internal error")
)
