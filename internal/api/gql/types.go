package gql

import (
	"github.com/graphql-go/graphql"
)

var userType = graphql.NewObject(graphql.ObjectConfig{
	Name: "User",
	Fields: graphql.Fields{
		"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"email":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"createdAt": &graphql.Field{Type: graphql.DateTime},
	},
})

var reservationType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Reservation",
	Fields: graphql.Fields{
		"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"userId":    &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"date":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"startTime": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"endTime":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"userEmail": &graphql.Field{Type: graphql.String},
		"userName":  &graphql.Field{Type: graphql.String},
		"createdAt": &graphql.Field{Type: graphql.DateTime},
		"updatedAt": &graphql.Field{Type: graphql.DateTime},
	},
})

var slotType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Slot",
	Fields: graphql.Fields{
		"startTime": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"endTime":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"available": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
	},
})

var availableSlotsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "AvailableSlots",
	Fields: graphql.Fields{
		"date":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"stepMinutes": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"dayStart":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"dayEnd":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"slots":       &graphql.Field{Type: graphql.NewList(slotType)},
	},
})

// Бизнес-ошибки мутаций возвращаются в поле errors, а не как ошибки GraphQL
var reservationPayloadType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ReservationPayload",
	Fields: graphql.Fields{
		"reservation":    &graphql.Field{Type: reservationType},
		"errors":         &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.String)))},
		"conflictingIds": &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(graphql.ID))},
	},
})

var deletePayloadType = graphql.NewObject(graphql.ObjectConfig{
	Name: "DeleteReservationPayload",
	Fields: graphql.Fields{
		"success": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		"errors":  &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.String)))},
	},
})

// reservationPayload результат createReservation/updateReservation
type reservationPayload struct {
	Reservation    interface{} `json:"reservation"`
	Errors         []string    `json:"errors"`
	ConflictingIDs []int64     `json:"conflictingIds"`
}

// deletePayload результат deleteReservation
type deletePayload struct {
	Success bool     `json:"success"`
	Errors  []string `json:"errors"`
}

type slotView struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Available bool   `json:"available"`
}

type availableSlotsView struct {
	Date        string     `json:"date"`
	StepMinutes int        `json:"stepMinutes"`
	DayStart    string     `json:"dayStart"`
	DayEnd      string     `json:"dayEnd"`
	Slots       []slotView `json:"slots"`
}
