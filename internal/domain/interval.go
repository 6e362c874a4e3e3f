package domain

import (
	"fmt"

	"github.com/m04kA/SMC-CarReservation/pkg/types"
)

// TimeInterval полуоткрытый интервал [Start, End) в пределах одних суток.
// Интервалы, которые только соприкасаются концами, не пересекаются.
type TimeInterval struct {
	Start types.TimeString
	End   types.TimeString
}

// Validate возвращает ErrInvalidInterval, если границы не разобраны или Start >= End
func (i TimeInterval) Validate() error {
	if err := i.Start.Validate(); err != nil {
		return fmt.Errorf("%w: start: %v", ErrInvalidInterval, err)
	}
	if err := i.End.Validate(); err != nil {
		return fmt.Errorf("%w: end: %v", ErrInvalidInterval, err)
	}
	if !i.End.IsAfter(i.Start) {
		return fmt.Errorf("%w: start %s is not before end %s", ErrInvalidInterval, i.Start, i.End)
	}
	return nil
}

// Overlaps проверяет пересечение двух полуоткрытых интервалов: a0 < b1 && b0 < a1
func (i TimeInterval) Overlaps(other TimeInterval) bool {
	return i.Start.IsBefore(other.End) && other.Start.IsBefore(i.End)
}

func (i TimeInterval) String() string {
	return fmt.Sprintf("[%s, %s)", i.Start, i.End)
}
