package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "vizit"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultPropertyServiceURL     = "http://localhost:8090"
	DefaultPropertyServiceTimeout = 5 * time.Second

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// How far ahead a visit may be booked. 0 disables the horizon check.
	DefaultBookingHorizonDays = 90

	DefaultAnalyticsTopProperties = 5

	DefaultEventsEnabled = false
	DefaultEventsTopic   = "booking-events"
	DefaultEventsDLQ     = "booking-events-dlq"

	DefaultPaginationLimit = 50
)
