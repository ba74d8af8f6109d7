package model

import (
	"time"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusApproved  BookingStatus = "approved"
	StatusRejected  BookingStatus = "rejected"
	StatusCompleted BookingStatus = "completed"
)

// ActiveStatuses are the statuses under which a booking occupies its slot.
var ActiveStatuses = []BookingStatus{StatusPending, StatusApproved}

// Active reports whether the booking still occupies a slot.
func (s BookingStatus) Active() bool {
	return s == StatusPending || s == StatusApproved
}

// Terminal reports whether no further mutation of the booking is permitted.
func (s BookingStatus) Terminal() bool {
	return s == StatusRejected || s == StatusCompleted
}

// Valid reports whether the status is one of the four lifecycle states.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCompleted:
		return true
	}
	return false
}

// DateLayout is the calendar-date format for visit bookings.
// Visits carry no time-of-day beyond the chosen slot.
const DateLayout = "2006-01-02"

type Booking struct {
	ID            string        `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	PropertyID    string        `json:"property_id" bson:"property_id" validate:"required,min=1,max=64"`
	RequesterID   string        `json:"requester_id" bson:"requester_id" validate:"required,min=1,max=64"`
	Date          string        `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
	Slot          string        `json:"slot" bson:"slot" validate:"required,visit_slot"`
	Status        BookingStatus `json:"status" bson:"status" validate:"required,oneof=pending approved rejected completed"`
	CreatedByRole Role          `json:"created_by_role,omitempty" bson:"created_by_role" validate:"omitempty,oneof=requester admin"`

	// Denormalized from the property catalog at creation time so list
	// filtering and analytics never fan out on the read path.
	PropertyTitle string `json:"property_title,omitempty" bson:"property_title,omitempty"`
	PropertyCity  string `json:"property_city,omitempty" bson:"property_city,omitempty"`

	RescheduleProposal *RescheduleProposal `json:"reschedule_proposal,omitempty" bson:"reschedule_proposal,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// SlotOption is a (date, slot) pair offered during reschedule negotiation.
type SlotOption struct {
	Date string `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
	Slot string `json:"slot" bson:"slot" validate:"required,visit_slot"`
}

// RescheduleProposal is attached to an approved booking while a slot-change
// negotiation is open and cleared when the negotiation resolves.
type RescheduleProposal struct {
	Reason        string       `json:"reason" bson:"reason" validate:"required,min=2,max=500"`
	ProposedSlots []SlotOption `json:"proposed_slots" bson:"proposed_slots" validate:"required,min=1,max=16,dive"`
	ProposedBy    string       `json:"proposed_by" bson:"proposed_by" validate:"required"`
	ProposedAt    time.Time    `json:"proposed_at" bson:"proposed_at"`
}

// Contains reports whether the option is one of the proposed candidates.
func (p *RescheduleProposal) Contains(opt SlotOption) bool {
	for _, s := range p.ProposedSlots {
		if s.Date == opt.Date && s.Slot == opt.Slot {
			return true
		}
	}
	return false
}

type SlotChangeRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
	Slot string `json:"slot" validate:"required,visit_slot"`
}

type StatusChangeRequest struct {
	Status BookingStatus `json:"status" validate:"required,oneof=pending approved rejected completed"`
}

type RescheduleProposalRequest struct {
	Reason        string       `json:"reason" validate:"required,min=2,max=500"`
	ProposedSlots []SlotOption `json:"proposed_slots" validate:"required,min=1,max=16,dive"`
}

// RescheduleResolutionRequest closes a negotiation. A nil ChosenSlot
// withdraws the proposal and leaves the booking unchanged.
type RescheduleResolutionRequest struct {
	ChosenSlot *SlotOption `json:"chosen_slot,omitempty" validate:"omitempty"`
}

// BookingFilter narrows booking list reads. Zero values mean no filtering.
type BookingFilter struct {
	Status      BookingStatus
	PropertyID  string
	RequesterID string
	City        string
	Query       string
}
