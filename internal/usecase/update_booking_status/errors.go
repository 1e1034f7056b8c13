package update_booking_status

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("update_booking_status: invalid input data")

	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("update_booking_status: booking not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав на смену статуса
	ErrAccessDenied = errors.New("update_booking_status: access denied")

	// ErrInvalidTransition возвращается, когда таблица переходов запрещает смену статуса
	ErrInvalidTransition = errors.New("update_booking_status: transition rejected")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_booking_status: internal error")
)
