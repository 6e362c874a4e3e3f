package reservation

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CarReservation/internal/availability"
	"github.com/m04kA/SMC-CarReservation/internal/domain"
	"github.com/m04kA/SMC-CarReservation/pkg/types"
)

func TestMapWriteError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "exclusion constraint",
			err:  &pq.Error{Code: pgExclusionViolation, Constraint: "reservations_no_overlap"},
			want: ErrOverlapConflict,
		},
		{
			name: "check constraint",
			err:  &pq.Error{Code: pgCheckViolation, Constraint: "reservations_interval_check"},
			want: ErrInvalidInterval,
		},
		{
			name: "other postgres error",
			err:  &pq.Error{Code: "08006"},
			want: ErrExecQuery,
		},
		{
			name: "driver error",
			err:  errors.New("connection reset"),
			want: ErrExecQuery,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapWriteError("Create", tt.err), tt.want)
		})
	}
}

func TestMapWriteError_KeepsDriverError(t *testing.T) {
	pqErr := &pq.Error{Code: "40001"}

	var target *pq.Error
	assert.True(t, errors.As(mapWriteError("Update", pqErr), &target))
	assert.Equal(t, pq.ErrorCode("40001"), target.Code)
}

// driverRow отдает значения в том виде, в каком их возвращает lib/pq
type driverRow struct {
	values []interface{}
}

func (r driverRow) Scan(dest ...interface{}) error {
	if len(dest) != len(r.values) {
		return fmt.Errorf("expected %d destinations, got %d", len(r.values), len(dest))
	}
	for i, d := range dest {
		switch target := d.(type) {
		case sql.Scanner:
			if err := target.Scan(r.values[i]); err != nil {
				return err
			}
		case *int64:
			*target = r.values[i].(int64)
		case *string:
			*target = r.values[i].(string)
		case *time.Time:
			*target = r.values[i].(time.Time)
		default:
			return fmt.Errorf("unsupported destination %T", d)
		}
	}
	return nil
}

func TestScanReservation_EndOfDayKeepsConflicting(t *testing.T) {
	date := time.Date(2025, time.March, 7, 0, 0, 0, 0, time.UTC)
	zeroDate := time.Date(0, 1, 1, 0, 0, 0, 0, time.UTC)
	created := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)

	row := driverRow{values: []interface{}{
		int64(7),
		int64(3),
		date,
		zeroDate.Add(22 * time.Hour),
		zeroDate.Add(24 * time.Hour),
		"late@example.com",
		created,
		created,
	}}

	reservation, err := scanReservation(row)
	require.NoError(t, err)

	assert.Equal(t, types.MustTimeString("22:00"), reservation.Interval.Start)
	assert.Equal(t, types.EndOfDay, reservation.Interval.End)
	require.NoError(t, reservation.Interval.Validate())

	result, err := availability.CheckOverlap(
		domain.TimeInterval{Start: types.MustTimeString("23:00"), End: types.MustTimeString("23:30")},
		[]*domain.Reservation{reservation},
		nil,
	)
	require.NoError(t, err)
	assert.True(t, result.HasConflict)
	assert.Equal(t, []int64{7}, result.ConflictingIDs)
}
