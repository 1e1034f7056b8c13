package checklist

import "errors"

var (
	// ErrChecklistNotFound возвращается, когда у бронирования нет чек-листа
	ErrChecklistNotFound = errors.New("checklist: checklist not found")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("checklist: internal error")
)
