package credit

import "errors"

var (
	// ErrCreditNotFound возвращается, когда кредит клиента не найден
	ErrCreditNotFound = errors.New("credit.repository: credit not found")

	// ErrInsufficientCredits возвращается, когда остатка кредита не хватает для списания
	ErrInsufficientCredits = errors.New("credit.repository: insufficient credits")

	// ErrNothingToRefund возвращается, когда у кредита нет использованных единиц для возврата
	ErrNothingToRefund = errors.New("credit.repository: nothing to refund")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("credit.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("credit.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("credit.repository: failed to scan row")
)
