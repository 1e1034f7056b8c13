package slotledger

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот техника не найден
	ErrSlotNotFound = errors.New("slotledger: technician slot not found")

	// ErrSlotNotReserved возвращается, когда бронирование привязывается к незарезервированному слоту
	ErrSlotNotReserved = errors.New("slotledger: technician slot is not reserved")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("slotledger: internal error")
)
