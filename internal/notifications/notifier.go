// Package notifications consumes booking events and turns them into
// user-facing notifications. Delivery is currently log-based; the
// handler is the seam where mail or chat integrations plug in.
package notifications

import (
	"context"
	"fmt"

	"roombook/internal/events"
	"roombook/pkg/kafka"
	"roombook/pkg/logger"
)

type Notifier struct {
	log *logger.Logger
}

func NewNotifier(log *logger.Logger) *Notifier {
	return &Notifier{log: log}
}

// Handle is the kafka.MessageHandler for the booking events topic.
// Unknown event types are logged and committed rather than retried,
// so a newer producer never wedges an older consumer.
func (n *Notifier) Handle(ctx context.Context, msg kafka.Message) error {
	var event events.BookingEvent
	if err := msg.DecodeValue(&event); err != nil {
		return fmt.Errorf("failed to decode booking event: %w", err)
	}

	switch event.EventType {
	case events.TypeBookingCreated:
		n.notify(event, "booking request received")
	case events.TypeBookingUpdated:
		n.notify(event, "booking details changed")
	case events.TypeBookingStatusChanged:
		n.notify(event, fmt.Sprintf("booking %s", event.Status))
	case events.TypeBookingDeleted:
		n.notify(event, "booking cancelled")
	default:
		n.log.Warn("skipping unknown booking event type",
			"event_type", event.EventType,
			"booking_id", event.BookingID,
		)
	}
	return nil
}

func (n *Notifier) notify(event events.BookingEvent, summary string) {
	n.log.Info("notifying user about booking change",
		"summary", summary,
		"booking_id", event.BookingID,
		"user_id", event.UserID,
		"room_id", event.RoomID,
		"booking_date", event.BookingDate.Format("2006-01-02"),
		"start_time", event.StartTime,
		"end_time", event.EndTime,
		"status", event.Status,
	)
}
