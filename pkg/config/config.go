package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"dinehall/pkg/client"
	"dinehall/pkg/logger"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	AdvanceBookingDays int
	MinBookingHours    int
	CancelNoticeHours  int

	LockWaitTimeout   time.Duration
	LockRetryInterval time.Duration
	LockTTL           time.Duration

	ReservationTopic    string
	ReservationDLQTopic string
	NotifierGroupID     string

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		AdvanceBookingDays: getEnvNum(EnvAdvanceBookingDays, DefaultAdvanceBookingDays),
		MinBookingHours:    getEnvNum(EnvMinBookingHours, DefaultMinBookingHours),
		CancelNoticeHours:  getEnvNum(EnvCancelNoticeHours, DefaultCancelNoticeHours),

		LockWaitTimeout:   getEnvDuration(EnvLockWaitTimeout, DefaultLockWaitTimeout),
		LockRetryInterval: getEnvDuration(EnvLockRetryInterval, DefaultLockRetryInterval),
		LockTTL:           getEnvDuration(EnvLockTTL, DefaultLockTTL),

		ReservationTopic:    getEnvStr(EnvReservationTopic, DefaultReservationTopic),
		ReservationDLQTopic: getEnvStr(EnvReservationDLQTopic, DefaultReservationDLQTopic),
		NotifierGroupID:     getEnvStr(EnvNotifierGroupID, DefaultNotifierGroupID),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.New(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log)
}

func (cfg *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errs = append(errs, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errs = append(errs, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}
	if cfg.MongoDatabaseName == "" {
		errs = append(errs, "MongoDatabaseName cannot be empty")
	}
	if cfg.MongoConnTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}

	for name, d := range map[string]time.Duration{
		"RateLimitWindow":   cfg.RateLimitWindow,
		"RequestTimeout":    cfg.RequestTimeout,
		"IdempotencyTTL":    cfg.IdempotencyTTL,
		"ReadTimeout":       cfg.ReadTimeout,
		"WriteTimeout":      cfg.WriteTimeout,
		"IdleTimeout":       cfg.IdleTimeout,
		"ShutdownTimeout":   cfg.ShutdownTimeout,
		"LockWaitTimeout":   cfg.LockWaitTimeout,
		"LockRetryInterval": cfg.LockRetryInterval,
		"LockTTL":           cfg.LockTTL,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Sprintf("%s must be positive, got: %s", name, d))
		}
	}

	if cfg.RateLimitRequests <= 0 {
		errs = append(errs, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errs = append(errs, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if cfg.AdvanceBookingDays <= 0 {
		errs = append(errs, fmt.Sprintf("AdvanceBookingDays must be positive, got: %d", cfg.AdvanceBookingDays))
	}
	if cfg.MinBookingHours <= 0 {
		errs = append(errs, fmt.Sprintf("MinBookingHours must be positive, got: %d", cfg.MinBookingHours))
	}
	if cfg.CancelNoticeHours < 0 {
		errs = append(errs, fmt.Sprintf("CancelNoticeHours cannot be negative, got: %d", cfg.CancelNoticeHours))
	}
	if cfg.LockRetryInterval >= cfg.LockWaitTimeout {
		errs = append(errs, fmt.Sprintf("LockRetryInterval (%s) must be shorter than LockWaitTimeout (%s)", cfg.LockRetryInterval, cfg.LockWaitTimeout))
	}

	if cfg.ReservationTopic == "" {
		errs = append(errs, "ReservationTopic cannot be empty")
	}

	if len(errs) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, e := range errs {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, e)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"advance_booking_days", cfg.AdvanceBookingDays,
		"min_booking_hours", cfg.MinBookingHours,
		"cancel_notice_hours", cfg.CancelNoticeHours,
		"lock_wait_timeout", cfg.LockWaitTimeout,
		"lock_retry_interval", cfg.LockRetryInterval,
		"lock_ttl", cfg.LockTTL,
		"reservation_topic", cfg.ReservationTopic,
		"reservation_dlq_topic", cfg.ReservationDLQTopic,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		limit = 10
	} else if limit > DefaultPaginationLimit {
		limit = DefaultPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}
