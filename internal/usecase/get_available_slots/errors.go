package get_available_slots

import "errors"

var (
	// ErrReservationNotFound возвращается, когда исключаемое бронирование не найдено
	ErrReservationNotFound = errors.New("get_available_slots: reservation not found")

	// ErrAccessDenied возвращается, когда исключаемое бронирование принадлежит другому пользователю
	ErrAccessDenied = errors.New("get_available_slots: access denied")

	// ErrStepNotAllowed возвращается, когда шаг не входит в список разрешенных
	ErrStepNotAllowed = errors.New("get_available_slots: step is not allowed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
