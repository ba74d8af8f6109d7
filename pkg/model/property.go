package model

// Property is the read-only view of an externally owned listing, consumed
// for display and analytics. The scheduler does not own or validate it.
type Property struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	City    string `json:"city"`
	OwnerID string `json:"owner_id"`
}
