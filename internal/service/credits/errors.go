package credits

import "errors"

var (
	// ErrCreditNotFound возвращается, когда кредит не найден
	ErrCreditNotFound = errors.New("credits: credit not found")

	// ErrCreditExpired возвращается при попытке использовать кредит после даты истечения
	ErrCreditExpired = errors.New("credits: credit has expired")

	// ErrCreditInactive возвращается, когда кредит не в статусе ACTIVE
	ErrCreditInactive = errors.New("credits: credit is not active")

	// ErrInsufficientCredits возвращается, когда остатка не хватает для списания
	ErrInsufficientCredits = errors.New("credits: insufficient credits")

	// ErrNothingToRefund возвращается, когда возвращать нечего
	ErrNothingToRefund = errors.New("credits: nothing to refund")

	// ErrInvalidAmount возвращается при неположительном количестве единиц
	ErrInvalidAmount = errors.New("credits: amount must be positive")

	ErrPackageNotFound = errors.New("credits: package not found")
	ErrPackageInactive = errors.New("credits: package is not active")
	ErrPackageExpired  = errors.New("credits: package has expired")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("credits: internal error")
)
