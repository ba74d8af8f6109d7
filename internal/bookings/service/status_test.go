package service

import (
	"context"
	"testing"
	"time"
	bookingserrors "vizit/internal/bookings/errors"
	apperrors "vizit/pkg/errors"
	"vizit/pkg/model"
)

func storedBooking(status model.BookingStatus) *model.Booking {
	return &model.Booking{
		ID:          "booking-1",
		PropertyID:  "prop-1",
		RequesterID: "user-1",
		Date:        futureDate(7),
		Slot:        "09:00-10:00",
		Status:      status,
		UpdatedAt:   time.Now().UTC().Truncate(time.Millisecond),
	}
}

func TestTransitionStatus_Lifecycle(t *testing.T) {
	tests := []struct {
		name    string
		from    model.BookingStatus
		to      model.BookingStatus
		allowed bool
	}{
		{"pending to approved", model.StatusPending, model.StatusApproved, true},
		{"pending to rejected", model.StatusPending, model.StatusRejected, true},
		{"approved to completed", model.StatusApproved, model.StatusCompleted, true},
		{"pending to completed", model.StatusPending, model.StatusCompleted, false},
		{"approved to rejected", model.StatusApproved, model.StatusRejected, false},
		{"approved to pending", model.StatusApproved, model.StatusPending, false},
		{"rejected to approved", model.StatusRejected, model.StatusApproved, false},
		{"rejected to pending", model.StatusRejected, model.StatusPending, false},
		{"completed to approved", model.StatusCompleted, model.StatusApproved, false},
		{"completed to pending", model.StatusCompleted, model.StatusPending, false},
		{"pending to pending", model.StatusPending, model.StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockBookingRepo{
				findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
					return storedBooking(tt.from), nil
				},
			}
			svc := newTestService(repo, &mockClaimRepo{}, nil)

			updated, err := svc.TransitionStatus(context.Background(), admin("admin-1"), "booking-1", &model.StatusChangeRequest{Status: tt.to})

			if tt.allowed {
				if err != nil {
					t.Fatalf("expected transition to succeed: %v", err)
				}
				if updated.Status != tt.to {
					t.Errorf("expected status %s, got %s", tt.to, updated.Status)
				}
				return
			}

			if err == nil {
				t.Fatal("expected invalid transition error")
			}
			appErr := apperrors.AsAppError(err)
			if appErr.Code != apperrors.CodeInvalidTransition {
				t.Errorf("expected %s, got %s", apperrors.CodeInvalidTransition, appErr.Code)
			}
			if appErr.StatusCode() != 409 {
				t.Errorf("expected HTTP 409, got %d", appErr.StatusCode())
			}
			if appErr.Details["from"] != string(tt.from) || appErr.Details["to"] != string(tt.to) {
				t.Errorf("expected from/to details, got %v", appErr.Details)
			}
		})
	}
}

func TestTransitionStatus_AdminOnly(t *testing.T) {
	svc := newTestService(&mockBookingRepo{}, &mockClaimRepo{}, nil)

	_, err := svc.TransitionStatus(context.Background(), requester("user-1"), "booking-1", &model.StatusChangeRequest{Status: model.StatusApproved})
	if err == nil {
		t.Fatal("expected forbidden error")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeForbidden {
		t.Errorf("expected %s, got %s", apperrors.CodeForbidden, appErr.Code)
	}
}

func TestTransitionStatus_TerminalReleasesClaim(t *testing.T) {
	released := map[string]bool{}
	claims := &mockClaimRepo{
		releaseFunc: func(ctx context.Context, propertyID, date, slot string) error {
			released[model.SlotClaimID(propertyID, date, slot)] = true
			return nil
		},
	}

	booking := storedBooking(model.StatusPending)
	repo := &mockBookingRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return booking, nil
		},
	}
	svc := newTestService(repo, claims, nil)

	if _, err := svc.TransitionStatus(context.Background(), admin("admin-1"), "booking-1", &model.StatusChangeRequest{Status: model.StatusRejected}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !released[model.SlotClaimID("prop-1", booking.Date, "09:00-10:00")] {
		t.Error("rejecting a booking must release its slot claim")
	}
}

func TestTransitionStatus_ApprovalKeepsClaim(t *testing.T) {
	releaseCalled := false
	claims := &mockClaimRepo{
		releaseFunc: func(ctx context.Context, propertyID, date, slot string) error {
			releaseCalled = true
			return nil
		},
	}
	repo := &mockBookingRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return storedBooking(model.StatusPending), nil
		},
	}
	svc := newTestService(repo, claims, nil)

	if _, err := svc.TransitionStatus(context.Background(), admin("admin-1"), "booking-1", &model.StatusChangeRequest{Status: model.StatusApproved}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if releaseCalled {
		t.Error("approving a booking must keep its slot claim")
	}
}

func TestTransitionStatus_TerminalClearsProposal(t *testing.T) {
	booking := storedBooking(model.StatusApproved)
	booking.RescheduleProposal = &model.RescheduleProposal{
		Reason:        "owner unavailable",
		ProposedSlots: []model.SlotOption{{Date: futureDate(8), Slot: "10:00-11:00"}},
		ProposedBy:    "admin-1",
	}

	var written *model.Booking
	repo := &mockBookingRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return booking, nil
		},
		updateFunc: func(ctx context.Context, id string, b *model.Booking, expectedUpdatedAt time.Time) error {
			written = b
			return nil
		},
	}
	svc := newTestService(repo, &mockClaimRepo{}, nil)

	if _, err := svc.TransitionStatus(context.Background(), admin("admin-1"), "booking-1", &model.StatusChangeRequest{Status: model.StatusCompleted}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if written == nil {
		t.Fatal("expected booking to be written")
	}
	if written.RescheduleProposal != nil {
		t.Error("a terminal transition must clear any open reschedule proposal")
	}
}

func TestTransitionStatus_ConcurrentModification(t *testing.T) {
	repo := &mockBookingRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return storedBooking(model.StatusPending), nil
		},
		updateFunc: func(ctx context.Context, id string, b *model.Booking, expectedUpdatedAt time.Time) error {
			return bookingserrors.ErrStale
		},
	}
	svc := newTestService(repo, &mockClaimRepo{}, nil)

	_, err := svc.TransitionStatus(context.Background(), admin("admin-1"), "booking-1", &model.StatusChangeRequest{Status: model.StatusApproved})
	if err == nil {
		t.Fatal("expected conflict error")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected %s, got %s", apperrors.CodeConflict, appErr.Code)
	}
	if appErr.Details["reason"] != apperrors.ReasonConcurrentModification {
		t.Errorf("expected reason %s, got %v", apperrors.ReasonConcurrentModification, appErr.Details["reason"])
	}
}
