package model

import (
	"fmt"
	"time"
)

// SlotClaim is the durable uniqueness record backing the no-double-booking
// guarantee. Exactly one claim exists per (property, date, slot) while an
// active booking references that slot; the deterministic _id makes the
// insert the single atomic conditional write of the subsystem.
type SlotClaim struct {
	ID          string    `bson:"_id" json:"id"`
	BookingID   string    `bson:"booking_id" json:"booking_id"`
	RequesterID string    `bson:"requester_id" json:"requester_id"`
	PropertyID  string    `bson:"property_id" json:"property_id"`
	Date        string    `bson:"date" json:"date"`
	Slot        string    `bson:"slot" json:"slot"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

func SlotClaimID(propertyID, date, slot string) string {
	return fmt.Sprintf("%s|%s|%s", propertyID, date, slot)
}

func NewSlotClaim(b *Booking) *SlotClaim {
	return &SlotClaim{
		ID:          SlotClaimID(b.PropertyID, b.Date, b.Slot),
		BookingID:   b.ID,
		RequesterID: b.RequesterID,
		PropertyID:  b.PropertyID,
		Date:        b.Date,
		Slot:        b.Slot,
	}
}
