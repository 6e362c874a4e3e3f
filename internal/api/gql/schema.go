package gql

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/graphql-go/graphql"

	"github.com/m04kA/SMC-CarReservation/internal/api/middleware"
	"github.com/m04kA/SMC-CarReservation/internal/availability"
	"github.com/m04kA/SMC-CarReservation/internal/domain"
	"github.com/m04kA/SMC-CarReservation/internal/service/reservations"
	reservationModels "github.com/m04kA/SMC-CarReservation/internal/service/reservations/models"
	"github.com/m04kA/SMC-CarReservation/internal/service/users"
	createReservation "github.com/m04kA/SMC-CarReservation/internal/usecase/create_reservation"
	getAvailableSlots "github.com/m04kA/SMC-CarReservation/internal/usecase/get_available_slots"
	updateReservation "github.com/m04kA/SMC-CarReservation/internal/usecase/update_reservation"
	"github.com/m04kA/SMC-CarReservation/pkg/types"
)

const (
	msgUnauthorized = "требуется авторизация"
	msgNotFound     = "бронирование не найдено"
	msgForbidden    = "доступ запрещен"
	msgInvalidDate  = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime  = "некорректный формат времени, ожидается HH:MM"
	msgInvalidInput = "некорректные данные бронирования"
)

var (
	errUnauthorized = errors.New(msgUnauthorized)
	errInternal     = errors.New("внутренняя ошибка сервера")
)

// Resolvers зависимости резолверов схемы
type Resolvers struct {
	Users             UserService
	Reservations      ReservationService
	CreateReservation CreateReservationUseCase
	UpdateReservation UpdateReservationUseCase
	AvailableSlots    GetAvailableSlotsUseCase
	Logger            Logger
}

// NewSchema собирает схему: запросы me, reservations, reservation, reservationsByDate, availableSlots
// и мутации createReservation, updateReservation, deleteReservation
func NewSchema(r *Resolvers) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"me": &graphql.Field{
				Type:    userType,
				Resolve: r.me,
			},
			"reservations": &graphql.Field{
				Type:    graphql.NewList(reservationType),
				Resolve: r.reservations,
			},
			"reservation": &graphql.Field{
				Type: reservationType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.reservation,
			},
			"reservationsByDate": &graphql.Field{
				Type: graphql.NewList(reservationType),
				Args: graphql.FieldConfigArgument{
					"date": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.reservationsByDate,
			},
			"availableSlots": &graphql.Field{
				Type: availableSlotsType,
				Args: graphql.FieldConfigArgument{
					"date":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"step":      &graphql.ArgumentConfig{Type: graphql.Int},
					"excludeId": &graphql.ArgumentConfig{Type: graphql.ID},
				},
				Resolve: r.availableSlots,
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createReservation": &graphql.Field{
				Type: reservationPayloadType,
				Args: graphql.FieldConfigArgument{
					"date":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"startTime": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"endTime":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.createReservation,
			},
			"updateReservation": &graphql.Field{
				Type: reservationPayloadType,
				Args: graphql.FieldConfigArgument{
					"id":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"date":      &graphql.ArgumentConfig{Type: graphql.String},
					"startTime": &graphql.ArgumentConfig{Type: graphql.String},
					"endTime":   &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.updateReservation,
			},
			"deleteReservation": &graphql.Field{
				Type: deletePayloadType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.deleteReservation,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}

func (r *Resolvers) me(p graphql.ResolveParams) (interface{}, error) {
	userID, ok := middleware.GetUserID(p.Context)
	if !ok {
		return nil, nil
	}

	user, err := r.Users.GetByID(p.Context, userID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return nil, nil
		}
		r.Logger.Error("graphql me: user_id=%d, error=%v", userID, err)
		return nil, errInternal
	}
	return user, nil
}

func (r *Resolvers) reservations(p graphql.ResolveParams) (interface{}, error) {
	result, err := r.Reservations.ListAll(p.Context)
	if err != nil {
		r.Logger.Error("graphql reservations: %v", err)
		return nil, errInternal
	}
	return result.Reservations, nil
}

func (r *Resolvers) reservation(p graphql.ResolveParams) (interface{}, error) {
	userID, ok := middleware.GetUserID(p.Context)
	if !ok {
		return nil, errUnauthorized
	}

	id, err := idArg(p.Args, "id")
	if err != nil {
		return nil, err
	}

	result, err := r.Reservations.GetByID(p.Context, id, userID)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrReservationNotFound), errors.Is(err, reservations.ErrAccessDenied):
			return nil, nil
		}
		r.Logger.Error("graphql reservation: id=%d, error=%v", id, err)
		return nil, errInternal
	}
	return result, nil
}

func (r *Resolvers) reservationsByDate(p graphql.ResolveParams) (interface{}, error) {
	date, err := domain.ParseDate(stringArg(p.Args, "date"))
	if err != nil {
		return nil, errors.New(msgInvalidDate)
	}

	result, err := r.Reservations.ListByDate(p.Context, date)
	if err != nil {
		r.Logger.Error("graphql reservationsByDate: %v", err)
		return nil, errInternal
	}
	return result.Reservations, nil
}

func (r *Resolvers) availableSlots(p graphql.ResolveParams) (interface{}, error) {
	date, err := domain.ParseDate(stringArg(p.Args, "date"))
	if err != nil {
		return nil, errors.New(msgInvalidDate)
	}

	req := &getAvailableSlots.Request{Date: date}
	if userID, ok := middleware.GetUserID(p.Context); ok {
		req.UserID = &userID
	}
	if step, ok := p.Args["step"].(int); ok {
		req.StepMinutes = &step
	}
	if _, ok := p.Args["excludeId"]; ok {
		excludeID, err := idArg(p.Args, "excludeId")
		if err != nil {
			return nil, err
		}
		req.ExcludeID = &excludeID
	}

	result, err := r.AvailableSlots.Execute(p.Context, req)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrAccessDenied):
			return nil, errors.New(msgForbidden)
		case errors.Is(err, getAvailableSlots.ErrReservationNotFound):
			return nil, errors.New(msgNotFound)
		case errors.Is(err, getAvailableSlots.ErrStepNotAllowed), errors.Is(err, getAvailableSlots.ErrInvalidInput):
			return nil, errors.New(msgInvalidInput)
		case errors.Is(err, domain.ErrInvalidConfiguration):
			return nil, errors.New(availability.UserMessage(err))
		}
		r.Logger.Error("graphql availableSlots: %v", err)
		return nil, errInternal
	}

	view := availableSlotsView{
		Date:        result.Date.Format(domain.DateFormat),
		StepMinutes: result.StepMinutes,
		DayStart:    result.DayStart.String(),
		DayEnd:      result.DayEnd.String(),
		Slots:       make([]slotView, len(result.Slots)),
	}
	for i, slot := range result.Slots {
		view.Slots[i] = slotView{
			StartTime: slot.StartTime.String(),
			EndTime:   slot.EndTime.String(),
			Available: slot.Available,
		}
	}
	return view, nil
}

func (r *Resolvers) createReservation(p graphql.ResolveParams) (interface{}, error) {
	userID, ok := middleware.GetUserID(p.Context)
	if !ok {
		return failed(msgUnauthorized), nil
	}

	date, err := domain.ParseDate(stringArg(p.Args, "date"))
	if err != nil {
		return failed(msgInvalidDate), nil
	}
	start, err := types.NewTimeStringFromString(stringArg(p.Args, "startTime"))
	if err != nil {
		return failed(msgInvalidTime), nil
	}
	end, err := types.NewTimeStringFromString(stringArg(p.Args, "endTime"))
	if err != nil {
		return failed(msgInvalidTime), nil
	}

	result, err := r.CreateReservation.Execute(p.Context, &createReservation.Request{
		UserID:    userID,
		Date:      date,
		StartTime: start,
		EndTime:   end,
	})
	if err != nil {
		if payload, ok := businessError(err); ok {
			return payload, nil
		}
		if errors.Is(err, createReservation.ErrInvalidInput) {
			return failed(msgInvalidInput), nil
		}
		r.Logger.Error("graphql createReservation: user_id=%d, error=%v", userID, err)
		return nil, errInternal
	}

	return reservationPayload{
		Reservation: toReservationView(result.ID, result.UserID, result.Date, result.StartTime, result.EndTime,
			result.UserEmail, result.CreatedAt, result.UpdatedAt),
		Errors: []string{},
	}, nil
}

func (r *Resolvers) updateReservation(p graphql.ResolveParams) (interface{}, error) {
	userID, ok := middleware.GetUserID(p.Context)
	if !ok {
		return failed(msgUnauthorized), nil
	}

	id, err := idArg(p.Args, "id")
	if err != nil {
		return nil, err
	}

	req := &updateReservation.Request{ID: id, UserID: userID}
	if s, ok := p.Args["date"].(string); ok {
		date, err := domain.ParseDate(s)
		if err != nil {
			return failed(msgInvalidDate), nil
		}
		req.Date = &date
	}
	if s, ok := p.Args["startTime"].(string); ok {
		start, err := types.NewTimeStringFromString(s)
		if err != nil {
			return failed(msgInvalidTime), nil
		}
		req.StartTime = &start
	}
	if s, ok := p.Args["endTime"].(string); ok {
		end, err := types.NewTimeStringFromString(s)
		if err != nil {
			return failed(msgInvalidTime), nil
		}
		req.EndTime = &end
	}

	result, err := r.UpdateReservation.Execute(p.Context, req)
	if err != nil {
		switch {
		case errors.Is(err, updateReservation.ErrReservationNotFound):
			return failed(msgNotFound), nil
		case errors.Is(err, updateReservation.ErrAccessDenied):
			return failed(msgForbidden), nil
		case errors.Is(err, updateReservation.ErrInvalidInput):
			return failed(msgInvalidInput), nil
		}
		if payload, ok := businessError(err); ok {
			return payload, nil
		}
		r.Logger.Error("graphql updateReservation: id=%d, error=%v", id, err)
		return nil, errInternal
	}

	return reservationPayload{
		Reservation: toReservationView(result.ID, result.UserID, result.Date, result.StartTime, result.EndTime,
			result.UserEmail, result.CreatedAt, result.UpdatedAt),
		Errors: []string{},
	}, nil
}

func (r *Resolvers) deleteReservation(p graphql.ResolveParams) (interface{}, error) {
	userID, ok := middleware.GetUserID(p.Context)
	if !ok {
		return deletePayload{Errors: []string{msgUnauthorized}}, nil
	}

	id, err := idArg(p.Args, "id")
	if err != nil {
		return nil, err
	}

	if err := r.Reservations.Cancel(p.Context, id, userID); err != nil {
		switch {
		case errors.Is(err, reservations.ErrReservationNotFound):
			return deletePayload{Errors: []string{msgNotFound}}, nil
		case errors.Is(err, reservations.ErrAccessDenied):
			return deletePayload{Errors: []string{msgForbidden}}, nil
		}
		r.Logger.Error("graphql deleteReservation: id=%d, error=%v", id, err)
		return nil, errInternal
	}

	return deletePayload{Success: true, Errors: []string{}}, nil
}

// businessError переводит ошибки проверки интервала в payload мутации
func businessError(err error) (reservationPayload, bool) {
	switch {
	case errors.Is(err, domain.ErrOverlapConflict):
		payload := failed(availability.UserMessage(err))
		payload.ConflictingIDs = domain.ConflictingIDs(err)
		return payload, true
	case errors.Is(err, domain.ErrInvalidInterval):
		return failed(availability.UserMessage(err)), true
	}
	return reservationPayload{}, false
}

func failed(message string) reservationPayload {
	return reservationPayload{Errors: []string{message}}
}

func toReservationView(id, userID int64, date time.Time, start, end types.TimeString, email string, createdAt, updatedAt time.Time) *reservationModels.ReservationResponse {
	return reservationModels.FromDomainReservation(&domain.Reservation{
		ID:        id,
		UserID:    userID,
		Date:      date,
		Interval:  domain.TimeInterval{Start: start, End: end},
		UserEmail: email,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	})
}

func stringArg(args map[string]interface{}, name string) string {
	s, _ := args[name].(string)
	return s
}

func idArg(args map[string]interface{}, name string) (int64, error) {
	raw := fmt.Sprint(args[name])
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("некорректный %s: %q", name, raw)
	}
	return id, nil
}
