package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/m04kA/SMC-CarReservation/internal/domain"
)

// ErrPublish ошибка отправки события
var ErrPublish = errors.New("events: failed to publish event")

// Заголовки Kafka-сообщения
const (
	headerEventID   = "event-id"
	headerEventType = "event-type"
)

// Event событие жизненного цикла бронирования
type Event struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	ReservationID int64     `json:"reservationId"`
	UserID        int64     `json:"userId"`
	Date          string    `json:"date"`
	StartTime     string    `json:"startTime"`
	EndTime       string    `json:"endTime"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// NewReservationEvent строит событие по бронированию
func NewReservationEvent(eventType string, reservation *domain.Reservation, occurredAt time.Time) Event {
	return Event{
		ID:            uuid.NewString(),
		Type:          eventType,
		ReservationID: reservation.ID,
		UserID:        reservation.UserID,
		Date:          reservation.Date.Format(domain.DateFormat),
		StartTime:     reservation.Interval.Start.String(),
		EndTime:       reservation.Interval.End.String(),
		OccurredAt:    occurredAt.UTC(),
	}
}

// MessageWriter часть *kafka.Writer, которой пользуется издатель
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher пишет события в топик, ключ сообщения - ID бронирования,
// поэтому события одного бронирования попадают в одну партицию по порядку.
type KafkaPublisher struct {
	writer MessageWriter
}

// NewKafkaPublisher создает издателя с kafka.Writer
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
	}
	return NewPublisherWithWriter(writer)
}

// NewPublisherWithWriter создает издателя с произвольным writer
func NewPublisherWithWriter(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

// Publish отправляет событие
func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrPublish, err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.ReservationID, 10)),
		Value: payload,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: headerEventID, Value: []byte(event.ID)},
			{Key: headerEventType, Value: []byte(event.Type)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("%w: %v", ErrPublish, err)
	}
	return nil
}

// Close закрывает writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher используется, когда Kafka выключена
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error {
	return nil
}

func (NoopPublisher) Close() error {
	return nil
}
