package model

import "testing"

func TestBookingStatus_ActiveAndTerminal(t *testing.T) {
	tests := []struct {
		status   BookingStatus
		active   bool
		terminal bool
	}{
		{StatusPending, true, false},
		{StatusApproved, true, false},
		{StatusRejected, false, true},
		{StatusCompleted, false, true},
		{"cancelled", false, false},
	}

	for _, tt := range tests {
		if got := tt.status.Active(); got != tt.active {
			t.Errorf("%s.Active() = %v, want %v", tt.status, got, tt.active)
		}
		if got := tt.status.Terminal(); got != tt.terminal {
			t.Errorf("%s.Terminal() = %v, want %v", tt.status, got, tt.terminal)
		}
	}
}

func TestBookingStatus_Valid(t *testing.T) {
	for _, status := range []BookingStatus{StatusPending, StatusApproved, StatusRejected, StatusCompleted} {
		if !status.Valid() {
			t.Errorf("%s must be valid", status)
		}
	}
	for _, status := range []BookingStatus{"", "cancelled", "Pending"} {
		if status.Valid() {
			t.Errorf("%q must be invalid", status)
		}
	}
}

func TestSlotClaimID_Deterministic(t *testing.T) {
	a := SlotClaimID("prop-1", "2026-09-15", "09:00-10:00")
	b := SlotClaimID("prop-1", "2026-09-15", "09:00-10:00")
	if a != b {
		t.Errorf("claim id must be deterministic, got %q and %q", a, b)
	}

	if a == SlotClaimID("prop-1", "2026-09-15", "10:00-11:00") {
		t.Error("different slots must produce different claim ids")
	}
	if a == SlotClaimID("prop-2", "2026-09-15", "09:00-10:00") {
		t.Error("different properties must produce different claim ids")
	}
}

func TestNewSlotClaim(t *testing.T) {
	booking := &Booking{
		ID:          "booking-1",
		PropertyID:  "prop-1",
		RequesterID: "user-1",
		Date:        "2026-09-15",
		Slot:        "09:00-10:00",
	}

	claim := NewSlotClaim(booking)
	if claim.ID != SlotClaimID("prop-1", "2026-09-15", "09:00-10:00") {
		t.Errorf("unexpected claim id %q", claim.ID)
	}
	if claim.BookingID != "booking-1" || claim.RequesterID != "user-1" {
		t.Errorf("claim must carry the booking references, got %+v", claim)
	}
}

func TestRescheduleProposal_Contains(t *testing.T) {
	proposal := &RescheduleProposal{
		ProposedSlots: []SlotOption{
			{Date: "2026-09-15", Slot: "09:00-10:00"},
			{Date: "2026-09-16", Slot: "14:00-15:00"},
		},
	}

	if !proposal.Contains(SlotOption{Date: "2026-09-16", Slot: "14:00-15:00"}) {
		t.Error("expected proposed option to be contained")
	}
	if proposal.Contains(SlotOption{Date: "2026-09-16", Slot: "09:00-10:00"}) {
		t.Error("date and slot must both match")
	}
}

func TestActor_Owns(t *testing.T) {
	booking := &Booking{ID: "booking-1", RequesterID: "user-1"}

	owner := Actor{ID: "user-1", Role: RoleRequester}
	if !owner.Owns(booking) {
		t.Error("the creating requester owns the booking")
	}

	other := Actor{ID: "user-2", Role: RoleRequester}
	if other.Owns(booking) {
		t.Error("another requester does not own the booking")
	}

	// Administrators act through their role, never through ownership.
	adminActor := Actor{ID: "user-1", Role: RoleAdministrator}
	if adminActor.Owns(booking) {
		t.Error("administrators do not own bookings")
	}

	if owner.Owns(nil) {
		t.Error("nobody owns a nil booking")
	}
}

func TestRole_Valid(t *testing.T) {
	if !RoleRequester.Valid() || !RoleAdministrator.Valid() {
		t.Error("known roles must be valid")
	}
	if Role("owner").Valid() || Role("").Valid() {
		t.Error("unknown roles must be invalid")
	}
}
