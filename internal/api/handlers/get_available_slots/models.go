package get_available_slots

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/m04kA/SMC-CarReservation/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-CarReservation/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date        string          `json:"date"`
	StepMinutes int             `json:"stepMinutes"`
	DayStart    string          `json:"dayStart"`
	DayEnd      string          `json:"dayEnd"`
	Slots       []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Available bool   `json:"available"`
}

var (
	errMissingDate = errors.New("date is required")
	errInvalidDate = errors.New("invalid date")
	errInvalidStep = errors.New("invalid step")
	errInvalidID   = errors.New("invalid excludeId")
)

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			StartTime: slot.StartTime.String(),
			EndTime:   slot.EndTime.String(),
			Available: slot.Available,
		}
	}

	return &AvailableSlotsResponse{
		Date:        resp.Date.Format(domain.DateFormat),
		StepMinutes: resp.StepMinutes,
		DayStart:    resp.DayStart.String(),
		DayEnd:      resp.DayEnd.String(),
		Slots:       slots,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(query url.Values, userID *int64) (*getAvailableSlots.Request, error) {
	dateStr := query.Get("date")
	if dateStr == "" {
		return nil, errMissingDate
	}

	date, err := domain.ParseDate(dateStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidDate, err)
	}

	req := &getAvailableSlots.Request{Date: date, UserID: userID}

	if stepStr := query.Get("step"); stepStr != "" {
		step, err := strconv.Atoi(stepStr)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errInvalidStep, err)
		}
		req.StepMinutes = &step
	}

	if excludeStr := query.Get("excludeId"); excludeStr != "" {
		excludeID, err := strconv.ParseInt(excludeStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errInvalidID, err)
		}
		req.ExcludeID = &excludeID
	}

	return req, nil
}
