package service

import (
	"context"
	"time"
	"vizit/pkg/kafka"
	"vizit/pkg/model"
)

// Booking lifecycle event types, carried in the event-type message header.
const (
	EventBookingCreated       = "booking.created"
	EventBookingStatusChanged = "booking.status_changed"
	EventBookingSlotChanged   = "booking.slot_changed"
	EventRescheduleProposed   = "booking.reschedule_proposed"
	EventRescheduleResolved   = "booking.reschedule_resolved"
)

const (
	eventSchemaVersion = "1"
	eventSource        = "vizit-scheduler"
)

// EventPublisher is the booking event stream. A nil publisher disables
// eventing entirely.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type bookingEvent struct {
	BookingID   string              `json:"booking_id"`
	PropertyID  string              `json:"property_id"`
	RequesterID string              `json:"requester_id"`
	Date        string              `json:"date"`
	Slot        string              `json:"slot"`
	Status      model.BookingStatus `json:"status"`
	OccurredAt  time.Time           `json:"occurred_at"`
	Extra       map[string]any      `json:"extra,omitempty"`
}

// publish emits a lifecycle event keyed by booking id so per-booking
// ordering survives partitioning. Delivery is best effort; a failed publish
// never fails the request that caused it.
func (s *bookingService) publish(ctx context.Context, eventType string, b *model.Booking, extra map[string]any) {
	if s.events == nil {
		return
	}

	msg := kafka.NewMessage().
		WithKey(b.ID).
		WithValue(bookingEvent{
			BookingID:   b.ID,
			PropertyID:  b.PropertyID,
			RequesterID: b.RequesterID,
			Date:        b.Date,
			Slot:        b.Slot,
			Status:      b.Status,
			OccurredAt:  time.Now().UTC(),
			Extra:       extra,
		}).
		WithEventType(eventType).
		WithSchemaVersion(eventSchemaVersion).
		WithSource(eventSource).
		Build()

	if err := s.events.Publish(ctx, msg); err != nil {
		s.cfg.Log.Warn("Failed to publish booking event",
			"event_type", eventType,
			"booking_id", b.ID,
			"error", err,
		)
	}
}
