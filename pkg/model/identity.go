package model

type Role string

const (
	RoleRequester     Role = "requester"
	RoleAdministrator Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleRequester || r == RoleAdministrator
}

// Actor is the externally verified identity attached to every call.
// The scheduler never authenticates; it trusts this pair.
type Actor struct {
	ID   string
	Role Role
}

func (a Actor) IsAdministrator() bool {
	return a.Role == RoleAdministrator
}

func (a Actor) IsRequester() bool {
	return a.Role == RoleRequester
}

// Owns reports whether the actor is the requester that created the booking.
func (a Actor) Owns(b *Booking) bool {
	return a.IsRequester() && b != nil && b.RequesterID == a.ID
}
