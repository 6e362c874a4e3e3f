package get_available_slots

import (
	"fmt"
	"slices"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: empty request", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.ExcludeID != nil && *req.ExcludeID <= 0 {
		return fmt.Errorf("%w: excludeId must be positive", ErrInvalidInput)
	}

	if req.ExcludeID != nil && req.UserID == nil {
		return fmt.Errorf("%w: excludeId requires authentication", ErrAccessDenied)
	}

	return nil
}

// resolveStep возвращает шаг сетки: заданный в запросе или шаг по умолчанию
func resolveStep(requested *int, defaultStep int, allowed []int) (int, error) {
	if requested == nil {
		return defaultStep, nil
	}

	if !slices.Contains(allowed, *requested) {
		return 0, fmt.Errorf("%w: %d (allowed %v)", ErrStepNotAllowed, *requested, allowed)
	}

	return *requested, nil
}
