package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "dinehall"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Business rules for private dining bookings.
	DefaultAdvanceBookingDays = 30
	DefaultMinBookingHours    = 3
	DefaultCancelNoticeHours  = 24

	// Room calendar lock. Wait is bounded: a creation attempt never blocks
	// indefinitely behind a contended room-day.
	DefaultLockWaitTimeout   = 5 * time.Second
	DefaultLockRetryInterval = 50 * time.Millisecond
	DefaultLockTTL           = 10 * time.Second

	DefaultReservationTopic    = "reservation.confirmed"
	DefaultReservationDLQTopic = "reservation.confirmed.dlq"
	DefaultNotifierGroupID     = "dinehall-notifier"

	DefaultPaginationLimit = 100
)
