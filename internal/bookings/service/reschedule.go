package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	bookingserrors "vizit/internal/bookings/errors"
	apperrors "vizit/pkg/errors"
	"vizit/pkg/model"
	"vizit/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

// ProposeReschedule opens (or replaces) a negotiation on an approved
// booking. Only administrators propose; the owning requester answers via
// ResolveReschedule.
func (s *bookingService) ProposeReschedule(ctx context.Context, actor model.Actor, id string, req *model.RescheduleProposalRequest) (*model.Booking, error) {
	if !actor.IsAdministrator() {
		return nil, apperrors.Forbidden("Only administrators may propose a reschedule")
	}

	req.Reason = sanitizer.TrimAndNormalize(req.Reason)

	if err := s.validator.ValidateProposal(req); err != nil {
		s.cfg.Log.Warn("Reschedule proposal validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid reschedule proposal", map[string]any{"error": err.Error()})
	}
	for _, opt := range req.ProposedSlots {
		if err := s.checkSchedulable(opt.Date, opt.Slot); err != nil {
			return nil, err
		}
	}

	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.Status != model.StatusApproved {
		return nil, apperrors.InvalidTransitionMsg(
			fmt.Sprintf("cannot propose a reschedule for a %s booking, only approved bookings negotiate", booking.Status),
		)
	}

	updated := *booking
	updated.RescheduleProposal = &model.RescheduleProposal{
		Reason:        req.Reason,
		ProposedSlots: req.ProposedSlots,
		ProposedBy:    actor.ID,
		ProposedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}

	if err := s.repo.Update(ctx, id, &updated, booking.UpdatedAt); err != nil {
		if errors.Is(err, bookingserrors.ErrStale) {
			return nil, apperrors.Conflict("Booking was modified concurrently, retry with fresh state", apperrors.ReasonConcurrentModification)
		}
		s.cfg.Log.Error("Failed to store reschedule proposal", "id", id, "error", err)
		return nil, s.storeError("Failed to store reschedule proposal", err)
	}

	s.publish(ctx, EventRescheduleProposed, &updated, map[string]any{
		"proposed_slots": req.ProposedSlots,
		"reason":         req.Reason,
	})

	s.cfg.Log.Info("Reschedule proposed successfully",
		"id", id,
		"proposed_by", actor.ID,
		"options", len(req.ProposedSlots),
	)
	return &updated, nil
}

// ResolveReschedule closes an open negotiation. The owning requester
// accepts one of the proposed options, moving the booking to that slot.
// Either the owner or an administrator may withdraw by sending no chosen
// slot, which leaves the booking where it was.
func (s *bookingService) ResolveReschedule(ctx context.Context, actor model.Actor, id string, req *model.RescheduleResolutionRequest) (*model.Booking, error) {
	if err := s.validator.ValidateResolution(req); err != nil {
		s.cfg.Log.Warn("Reschedule resolution validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid reschedule resolution", map[string]any{"error": err.Error()})
	}

	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdministrator() && !actor.Owns(booking) {
		return nil, apperrors.Forbidden("You may only resolve proposals on your own bookings")
	}

	proposal := booking.RescheduleProposal
	if proposal == nil {
		return nil, apperrors.InvalidTransitionMsg("booking has no open reschedule proposal")
	}

	if req.ChosenSlot == nil {
		return s.withdrawProposal(ctx, booking)
	}

	if !actor.Owns(booking) {
		return nil, apperrors.Forbidden("Only the booking requester may accept a proposed slot")
	}

	if !proposal.Contains(*req.ChosenSlot) {
		return nil, apperrors.InvalidInput(
			fmt.Sprintf("Chosen slot %s %s is not among the proposed options", req.ChosenSlot.Date, req.ChosenSlot.Slot),
		)
	}

	updated, err := s.applySlotChange(ctx, booking, req.ChosenSlot.Date, req.ChosenSlot.Slot)
	if err != nil {
		s.cfg.Log.Error("Failed to accept reschedule proposal", "id", id, "error", err)
		return nil, err
	}

	s.publish(ctx, EventRescheduleResolved, updated, map[string]any{
		"outcome":       "accepted",
		"previous_date": booking.Date,
		"previous_slot": booking.Slot,
	})

	s.cfg.Log.Info("Reschedule proposal accepted",
		"id", id,
		"date", updated.Date,
		"slot", updated.Slot,
	)
	return updated, nil
}

func (s *bookingService) withdrawProposal(ctx context.Context, booking *model.Booking) (*model.Booking, error) {
	updated := *booking
	updated.RescheduleProposal = nil

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Update(sessCtx, booking.ID, &updated, booking.UpdatedAt); err != nil {
			if errors.Is(err, bookingserrors.ErrStale) {
				return apperrors.Conflict("Booking was modified concurrently, retry with fresh state", apperrors.ReasonConcurrentModification)
			}
			return s.storeError("Failed to withdraw reschedule proposal", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to withdraw reschedule proposal", "id", booking.ID, "error", err)
		return nil, err
	}

	s.publish(ctx, EventRescheduleResolved, &updated, map[string]any{
		"outcome": "withdrawn",
	})

	s.cfg.Log.Info("Reschedule proposal withdrawn", "id", booking.ID)
	return &updated, nil
}
