package get_customer_credits

import "errors"

var (
	ErrInvalidInput = errors.New("get_customer_credits: invalid input data")
	ErrAccessDenied = errors.New("get_customer_credits: access denied")
	ErrInternal     = errors.New("get_customer_credits: internal error")
)
