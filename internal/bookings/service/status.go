package service

import (
	"context"
	"errors"
	bookingserrors "vizit/internal/bookings/errors"
	apperrors "vizit/pkg/errors"
	"vizit/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

// allowedTransitions is the full lifecycle: pending forks to approved or
// rejected, approved completes. Rejected and completed accept nothing.
var allowedTransitions = map[model.BookingStatus][]model.BookingStatus{
	model.StatusPending:  {model.StatusApproved, model.StatusRejected},
	model.StatusApproved: {model.StatusCompleted},
}

func transitionAllowed(from, to model.BookingStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s *bookingService) TransitionStatus(ctx context.Context, actor model.Actor, id string, req *model.StatusChangeRequest) (*model.Booking, error) {
	if !actor.IsAdministrator() {
		return nil, apperrors.Forbidden("Only administrators may change booking status")
	}

	if err := s.validator.ValidateStatusChange(req); err != nil {
		s.cfg.Log.Warn("Status change validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid status change input", map[string]any{"error": err.Error()})
	}

	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if !transitionAllowed(booking.Status, req.Status) {
		return nil, apperrors.InvalidTransition(string(booking.Status), string(req.Status))
	}

	updated := *booking
	updated.Status = req.Status
	if req.Status.Terminal() {
		updated.RescheduleProposal = nil
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		// A terminal booking no longer occupies its slot.
		if req.Status.Terminal() {
			if err := s.claims.Release(sessCtx, booking.PropertyID, booking.Date, booking.Slot); err != nil {
				return s.storeError("Failed to release slot claim", err)
			}
		}

		if err := s.repo.Update(sessCtx, id, &updated, booking.UpdatedAt); err != nil {
			if errors.Is(err, bookingserrors.ErrStale) {
				return apperrors.Conflict("Booking was modified concurrently, retry with fresh state", apperrors.ReasonConcurrentModification)
			}
			return s.storeError("Failed to update booking status", err)
		}

		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to transition booking status",
			"id", id,
			"from", booking.Status,
			"to", req.Status,
			"error", err,
		)
		return nil, err
	}

	s.publish(ctx, EventBookingStatusChanged, &updated, map[string]any{
		"previous_status": booking.Status,
	})

	s.cfg.Log.Info("Booking status changed successfully",
		"id", id,
		"from", booking.Status,
		"to", req.Status,
	)
	return &updated, nil
}
