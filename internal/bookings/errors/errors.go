package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrClaimHeld means another active booking already owns the
	// (property, date, slot) claim document.
	ErrClaimHeld = errors.New("visit slot claim already held")

	// ErrStale means the optimistic updated_at precondition failed: the
	// booking changed between read and write.
	ErrStale = errors.New("booking was modified concurrently")

	// ErrActiveBookingExists means the unique partial index on
	// (requester_id, property_id) rejected the insert: the requester
	// already holds an active booking for the property.
	ErrActiveBookingExists = errors.New("requester already has an active booking for this property")
)
