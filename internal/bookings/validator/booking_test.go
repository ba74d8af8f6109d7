package validator

import (
	"strings"
	"testing"
	"time"
	"vizit/pkg/logger"
	"vizit/pkg/model"
)

func newTestValidator() *BookingValidator {
	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	return NewBookingValidator(log)
}

func validBooking() *model.Booking {
	return &model.Booking{
		PropertyID:  "prop-1",
		RequesterID: "user-1",
		Date:        time.Now().UTC().AddDate(0, 0, 7).Format(model.DateLayout),
		Slot:        "09:00-10:00",
		Status:      model.StatusPending,
	}
}

func TestValidate_ValidBooking(t *testing.T) {
	v := newTestValidator()
	if err := v.Validate(validBooking()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_SlotOutsideCatalog(t *testing.T) {
	v := newTestValidator()

	for _, slot := range []string{"13:00-14:00", "08:00-09:00", "18:00-19:00", "9:00-10:00", "morning"} {
		b := validBooking()
		b.Slot = slot
		err := v.Validate(b)
		if err == nil {
			t.Errorf("slot %q: expected validation error", slot)
			continue
		}
		if !strings.Contains(err.Error(), "Slot") {
			t.Errorf("slot %q: expected error naming the Slot field, got %v", slot, err)
		}
	}
}

func TestValidate_DateFormat(t *testing.T) {
	v := newTestValidator()

	for _, date := range []string{"07/08/2026", "2026-8-7", "2026-08-07T10:00:00Z", "tomorrow", ""} {
		b := validBooking()
		b.Date = date
		if err := v.Validate(b); err == nil {
			t.Errorf("date %q: expected validation error", date)
		}
	}
}

func TestValidate_RequiredFields(t *testing.T) {
	v := newTestValidator()

	b := validBooking()
	b.PropertyID = ""
	if err := v.Validate(b); err == nil {
		t.Error("expected error for missing property_id")
	}

	b = validBooking()
	b.RequesterID = ""
	if err := v.Validate(b); err == nil {
		t.Error("expected error for missing requester_id")
	}

	b = validBooking()
	b.Status = "cancelled"
	if err := v.Validate(b); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestValidateSlotChange(t *testing.T) {
	v := newTestValidator()

	if err := v.ValidateSlotChange(&model.SlotChangeRequest{
		Date: "2026-09-15",
		Slot: "14:00-15:00",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := v.ValidateSlotChange(&model.SlotChangeRequest{
		Date: "2026-09-15",
		Slot: "13:00-14:00",
	}); err == nil {
		t.Error("expected error for the lunch-gap slot")
	}
}

func TestValidateProposal(t *testing.T) {
	v := newTestValidator()

	if err := v.ValidateProposal(&model.RescheduleProposalRequest{
		Reason: "owner unavailable",
		ProposedSlots: []model.SlotOption{
			{Date: "2026-09-15", Slot: "10:00-11:00"},
			{Date: "2026-09-16", Slot: "10:00-11:00"},
		},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := v.ValidateProposal(&model.RescheduleProposalRequest{
		Reason:        "owner unavailable",
		ProposedSlots: []model.SlotOption{},
	}); err == nil {
		t.Error("expected error for empty proposal")
	}

	if err := v.ValidateProposal(&model.RescheduleProposalRequest{
		Reason: "x",
		ProposedSlots: []model.SlotOption{
			{Date: "2026-09-15", Slot: "10:00-11:00"},
		},
	}); err == nil {
		t.Error("expected error for a one-character reason")
	}

	if err := v.ValidateProposal(&model.RescheduleProposalRequest{
		Reason: "owner unavailable",
		ProposedSlots: []model.SlotOption{
			{Date: "2026-09-15", Slot: "10:00-11:00"},
			{Date: "2026-09-15", Slot: "10:00-11:00"},
		},
	}); err == nil {
		t.Error("expected error for duplicate options")
	}
}

func TestValidateResolution(t *testing.T) {
	v := newTestValidator()

	// A withdrawal carries no slot and is always structurally valid.
	if err := v.ValidateResolution(&model.RescheduleResolutionRequest{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := v.ValidateResolution(&model.RescheduleResolutionRequest{
		ChosenSlot: &model.SlotOption{Date: "2026-09-15", Slot: "10:00-11:00"},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := v.ValidateResolution(&model.RescheduleResolutionRequest{
		ChosenSlot: &model.SlotOption{Date: "2026-09-15", Slot: "nope"},
	}); err == nil {
		t.Error("expected error for unknown slot")
	}
}
