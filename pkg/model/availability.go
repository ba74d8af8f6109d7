package model

// Occupancy classifies a catalog slot for one requester's point of view.
type Occupancy string

const (
	OccupancyFree            Occupancy = "free"
	OccupancyHeldByRequester Occupancy = "held-by-requester"
	OccupancyHeldByOther     Occupancy = "held-by-other"
)

// SlotAvailability is one row of an availability report, in catalog order.
type SlotAvailability struct {
	Slot      string    `json:"slot"`
	Occupancy Occupancy `json:"occupancy"`
}
