package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidInterval начало интервала не раньше конца или границы не разобраны
	ErrInvalidInterval = errors.New("domain: invalid interval")

	// ErrInvalidConfiguration некорректное окно дня или шаг сетки слотов
	ErrInvalidConfiguration = errors.New("domain: invalid slots configuration")

	// ErrOverlapConflict интервал пересекается с существующим бронированием
	ErrOverlapConflict = errors.New("domain: reservation overlaps an existing reservation")
)

// OverlapConflictError несет идентификаторы бронирований, с которыми пересекся кандидат.
// errors.Is(err, ErrOverlapConflict) для него истинно.
type OverlapConflictError struct {
	ConflictingIDs []int64
}

// NewOverlapConflictError копирует ids, чтобы ошибка не зависела от чужого слайса
func NewOverlapConflictError(ids []int64) *OverlapConflictError {
	return &OverlapConflictError{ConflictingIDs: append([]int64(nil), ids...)}
}

func (e *OverlapConflictError) Error() string {
	if len(e.ConflictingIDs) == 0 {
		return ErrOverlapConflict.Error()
	}
	ids := make([]string, len(e.ConflictingIDs))
	for i, id := range e.ConflictingIDs {
		ids[i] = strconv.FormatInt(id, 10)
	}
	return fmt.Sprintf("%s: ids=[%s]", ErrOverlapConflict.Error(), strings.Join(ids, ","))
}

func (e *OverlapConflictError) Unwrap() error {
	return ErrOverlapConflict
}

// ConflictingIDs извлекает ids из цепочки ошибок, если там есть OverlapConflictError
func ConflictingIDs(err error) []int64 {
	var conflict *OverlapConflictError
	if errors.As(err, &conflict) {
		return conflict.ConflictingIDs
	}
	return nil
}
