package reservation

import "errors"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("reservation.repository: reservation not found")

	// ErrOverlapConflict возвращается при нарушении exclusion constraint (SQLSTATE 23P01)
	ErrOverlapConflict = errors.New("reservation.repository: reservation overlaps an existing one")

	// ErrInvalidInterval возвращается при нарушении CHECK (start_time < end_time)
	ErrInvalidInterval = errors.New("reservation.repository: invalid interval")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("reservation.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("reservation.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("reservation.repository: failed to scan row")
)
