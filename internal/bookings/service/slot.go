package service

import (
	"context"
	"errors"
	"fmt"
	bookingserrors "vizit/internal/bookings/errors"
	apperrors "vizit/pkg/errors"
	"vizit/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

func (s *bookingService) UpdateSlot(ctx context.Context, actor model.Actor, id string, req *model.SlotChangeRequest) (*model.Booking, error) {
	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdministrator() && !actor.Owns(booking) {
		return nil, apperrors.Forbidden("You may only reschedule your own bookings")
	}

	if booking.Status.Terminal() {
		return nil, apperrors.InvalidTransitionMsg(
			fmt.Sprintf("cannot change the slot of a %s booking", booking.Status),
		)
	}

	if err := s.validator.ValidateSlotChange(req); err != nil {
		s.cfg.Log.Warn("Slot change validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid slot change input", map[string]any{"error": err.Error()})
	}
	if err := s.checkSchedulable(req.Date, req.Slot); err != nil {
		return nil, err
	}

	// Re-picking the current slot skips the claim swap but still settles
	// any open negotiation: a successful slot edit never leaves a proposal
	// behind.
	if booking.Date == req.Date && booking.Slot == req.Slot {
		if booking.RescheduleProposal == nil {
			return booking, nil
		}
		return s.withdrawProposal(ctx, booking)
	}

	updated, err := s.applySlotChange(ctx, booking, req.Date, req.Slot)
	if err != nil {
		s.cfg.Log.Error("Failed to change booking slot", "id", id, "error", err)
		return nil, err
	}

	s.publish(ctx, EventBookingSlotChanged, updated, map[string]any{
		"previous_date": booking.Date,
		"previous_slot": booking.Slot,
	})

	s.cfg.Log.Info("Booking slot changed successfully",
		"id", id,
		"date", updated.Date,
		"slot", updated.Slot,
	)
	return updated, nil
}

// applySlotChange moves a booking to a new (date, slot) pair: the old claim
// is released, the new one acquired, and the booking rewritten, all in one
// transaction guarded by the optimistic updated_at precondition. Any open
// reschedule proposal is cleared because it negotiated the old slot.
func (s *bookingService) applySlotChange(ctx context.Context, booking *model.Booking, date, slot string) (*model.Booking, error) {
	updated := *booking
	updated.Date = date
	updated.Slot = slot
	updated.RescheduleProposal = nil

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.claims.Release(sessCtx, booking.PropertyID, booking.Date, booking.Slot); err != nil {
			return s.storeError("Failed to release previous slot claim", err)
		}

		if err := s.claims.Acquire(sessCtx, model.NewSlotClaim(&updated)); err != nil {
			if errors.Is(err, bookingserrors.ErrClaimHeld) {
				return apperrors.Conflict("This visit slot is already booked", apperrors.ReasonSlotTaken)
			}
			return s.storeError("Failed to claim visit slot", err)
		}

		if err := s.repo.Update(sessCtx, booking.ID, &updated, booking.UpdatedAt); err != nil {
			if errors.Is(err, bookingserrors.ErrStale) {
				return apperrors.Conflict("Booking was modified concurrently, retry with fresh state", apperrors.ReasonConcurrentModification)
			}
			return s.storeError("Failed to update booking", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}
