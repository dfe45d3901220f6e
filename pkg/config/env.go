package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvAdvanceBookingDays = "ADVANCE_BOOKING_DAYS"
	EnvMinBookingHours    = "MIN_BOOKING_HOURS"
	EnvCancelNoticeHours  = "CANCEL_NOTICE_HOURS"

	EnvLockWaitTimeout   = "LOCK_WAIT_TIMEOUT"
	EnvLockRetryInterval = "LOCK_RETRY_INTERVAL"
	EnvLockTTL           = "LOCK_TTL"

	EnvReservationTopic    = "RESERVATION_TOPIC"
	EnvReservationDLQTopic = "RESERVATION_DLQ_TOPIC"
	EnvNotifierGroupID     = "NOTIFIER_GROUP_ID"
)
