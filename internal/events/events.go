// Package events publishes booking lifecycle events to the message
// pipeline. Publishing is best effort: the booking write has already
// committed by the time an event goes out, so a broker failure is logged
// and never surfaced to the API caller.
package events

import (
	"context"
	"time"

	"roombook/pkg/kafka"
	"roombook/pkg/logger"
	"roombook/pkg/model"
)

const (
	TopicBookingEvents = "booking-events"
	TopicDLQ           = "booking-events-dlq"

	TypeBookingCreated       = "booking.created"
	TypeBookingUpdated       = "booking.updated"
	TypeBookingStatusChanged = "booking.status_changed"
	TypeBookingDeleted       = "booking.deleted"
)

// BookingEvent is the payload carried on every booking lifecycle event.
type BookingEvent struct {
	EventType   string    `json:"event_type"`
	BookingID   string    `json:"booking_id"`
	UserID      string    `json:"user_id"`
	RoomID      string    `json:"room_id"`
	BookingDate time.Time `json:"booking_date"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	Status      string    `json:"status"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type producer interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// Publisher emits booking events. A nil *Publisher is valid and publishes
// nothing, so services never need to branch on whether events are enabled.
type Publisher struct {
	producer producer
	source   string
	log      *logger.Logger
}

func NewPublisher(p producer, source string, log *logger.Logger) *Publisher {
	if p == nil {
		return nil
	}
	return &Publisher{
		producer: p,
		source:   source,
		log:      log,
	}
}

func (p *Publisher) publish(ctx context.Context, eventType string, booking *model.Booking) {
	if p == nil {
		return
	}

	event := BookingEvent{
		EventType:   eventType,
		BookingID:   booking.ID,
		UserID:      booking.UserID,
		RoomID:      booking.RoomID,
		BookingDate: booking.BookingDate,
		StartTime:   booking.StartTime,
		EndTime:     booking.EndTime,
		Status:      booking.Status,
		OccurredAt:  time.Now().UTC(),
	}

	msg := kafka.NewMessage().
		WithKey(booking.ID).
		WithValue(event).
		WithEventType(eventType).
		WithSource(p.source).
		Build()

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Warn("Failed to publish booking event",
			"event_type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
	}
}

func (p *Publisher) BookingCreated(ctx context.Context, booking *model.Booking) {
	p.publish(ctx, TypeBookingCreated, booking)
}

func (p *Publisher) BookingUpdated(ctx context.Context, booking *model.Booking) {
	p.publish(ctx, TypeBookingUpdated, booking)
}

func (p *Publisher) BookingStatusChanged(ctx context.Context, booking *model.Booking) {
	p.publish(ctx, TypeBookingStatusChanged, booking)
}

func (p *Publisher) BookingDeleted(ctx context.Context, booking *model.Booking) {
	p.publish(ctx, TypeBookingDeleted, booking)
}
