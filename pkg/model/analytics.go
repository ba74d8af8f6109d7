package model

// PropertyBookingCount is one top-properties row, with the display title
// resolved from the denormalized booking records.
type PropertyBookingCount struct {
	PropertyID string `json:"property_id" bson:"_id"`
	Title      string `json:"title" bson:"title"`
	Count      int64  `json:"count" bson:"count"`
}

// AnalyticsReport is the read-only dashboard rollup over the booking store.
// It reflects the store at call time; no caching contract beyond that.
type AnalyticsReport struct {
	TotalBookings int64                   `json:"total_bookings"`
	ByStatus      map[BookingStatus]int64 `json:"by_status"`
	ByRole        map[Role]int64          `json:"by_role"`
	TopProperties []PropertyBookingCount  `json:"top_properties"`
}
