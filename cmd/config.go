package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/pkg/errs"
)

type Config struct {
	HTTPPort                string
	DBHost                  string
	DBPort                  string
	DBUser                  string
	DBPassword              string
	DBName                  string
	DBSslMode               string
	RedisAddr               string
	KafkaHost               string
	KafkaOrderEventsTopic   string
	JWTSecret               string
	FulfillmentJobSchedule  string
	FulfillmentBatchSize    int
	FulfillmentRetryBackoff time.Duration
	StepLedgerTTL           time.Duration
	LogLevel                string
}

var defaults = map[string]string{
	"HTTP_PORT":                 "8080",
	"DB_PORT":                   "5432",
	"DB_SSLMODE":                "disable",
	"REDIS_ADDR":                "localhost:6379",
	"KAFKA_ORDER_EVENTS_TOPIC":  "order-events",
	"FULFILLMENT_BATCH_SIZE":    "10",
	"FULFILLMENT_RETRY_BACKOFF": "1m",
	"STEP_LEDGER_TTL":           "168h",
	"LOG_LEVEL":                 "info",
}

// LoadConfig reads the configuration through lookup, usually os.Getenv after
// godotenv has loaded .env. Unset keys fall back to defaults.
func LoadConfig(lookup func(string) string) (Config, error) {
	get := func(key string) string {
		if v := strings.TrimSpace(lookup(key)); v != "" {
			return v
		}
		return defaults[key]
	}

	batchSize, err := strconv.Atoi(get("FULFILLMENT_BATCH_SIZE"))
	if err != nil {
		return Config{}, errs.NewValueIsInvalidErrorWithCause("FULFILLMENT_BATCH_SIZE", err)
	}
	backoff, err := time.ParseDuration(get("FULFILLMENT_RETRY_BACKOFF"))
	if err != nil {
		return Config{}, errs.NewValueIsInvalidErrorWithCause("FULFILLMENT_RETRY_BACKOFF", err)
	}
	ttl, err := time.ParseDuration(get("STEP_LEDGER_TTL"))
	if err != nil {
		return Config{}, errs.NewValueIsInvalidErrorWithCause("STEP_LEDGER_TTL", err)
	}

	cfg := Config{
		HTTPPort:                get("HTTP_PORT"),
		DBHost:                  get("DB_HOST"),
		DBPort:                  get("DB_PORT"),
		DBUser:                  get("DB_USER"),
		DBPassword:              get("DB_PASSWORD"),
		DBName:                  get("DB_NAME"),
		DBSslMode:               get("DB_SSLMODE"),
		RedisAddr:               get("REDIS_ADDR"),
		KafkaHost:               get("KAFKA_HOST"),
		KafkaOrderEventsTopic:   get("KAFKA_ORDER_EVENTS_TOPIC"),
		JWTSecret:               get("JWT_SECRET"),
		FulfillmentJobSchedule:  get("FULFILLMENT_JOB_SCHEDULE"),
		FulfillmentBatchSize:    batchSize,
		FulfillmentRetryBackoff: backoff,
		StepLedgerTTL:           ttl,
		LogLevel:                get("LOG_LEVEL"),
	}
	return cfg, cfg.Validate()
}

// Validate reports every missing or malformed setting at once.
func (c Config) Validate() error {
	var problems []error
	for key, value := range map[string]string{
		"DB_HOST":    c.DBHost,
		"DB_USER":    c.DBUser,
		"DB_NAME":    c.DBName,
		"KAFKA_HOST": c.KafkaHost,
		"JWT_SECRET": c.JWTSecret,
	} {
		if value == "" {
			problems = append(problems, errs.NewValueIsRequiredError(key))
		}
	}
	if port, err := strconv.Atoi(c.HTTPPort); err != nil || port < 1 || port > 65535 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("HTTP_PORT", c.HTTPPort, 1, 65535))
	}
	if c.FulfillmentBatchSize < 1 || c.FulfillmentBatchSize > commands.MaxPendingOrdersBatch {
		problems = append(problems, errs.NewValueIsOutOfRangeError(
			"FULFILLMENT_BATCH_SIZE", c.FulfillmentBatchSize, 1, commands.MaxPendingOrdersBatch))
	}
	if c.FulfillmentRetryBackoff <= 0 {
		problems = append(problems, errs.NewValueIsInvalidError("FULFILLMENT_RETRY_BACKOFF"))
	}
	if c.StepLedgerTTL < 0 {
		problems = append(problems, errs.NewValueIsInvalidError("STEP_LEDGER_TTL"))
	}
	if _, err := c.SlogLevel(); err != nil {
		problems = append(problems, err)
	}
	return errors.Join(problems...)
}

// DSN is the PostgreSQL connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// KafkaBrokers splits KAFKA_HOST on commas.
func (c Config) KafkaBrokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaHost, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, errs.NewValueIsInvalidErrorWithCause("LOG_LEVEL", err)
	}
	return level, nil
}
