// Package config loads service configuration from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"spotter/internal/verification"
	strutil "spotter/pkg/platform/strings"
)

const devSigningKey = "dev-secret-key-change-in-production"

type Config struct {
	Server   Server
	Database Database
	Redis    RedisConfig
	Kafka    Kafka
	Checkin  Checkin
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	Environment   string
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
	LogLevel      string
	LogFormat     string
}

// Database is empty URL for in-memory stores.
type Database struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig is empty URL to run without the venue cache and with
// process-local rate limiting.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Kafka is empty Brokers to leave the outbox unrelayed.
type Kafka struct {
	Brokers            []string
	Topic              string
	Partitions         int32
	ReplicationFactor  int16
	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	OutboxRetention    time.Duration
	PruneSchedule      string
}

type Checkin struct {
	Verification      verification.Config
	BlockMediumRisk   bool
	AttemptsPerMinute int
	VenueCacheTTL     time.Duration
	RepeatVisitWindow time.Duration
	IPHashKey         string
}

// IsProduction reports whether strict checks apply.
func (s Server) IsProduction() bool {
	return s.Environment == "production"
}

// DefaultConfig returns the configuration used when no variables are set.
func DefaultConfig() Config {
	return Config{
		Server: Server{
			Addr:          ":8080",
			Environment:   "development",
			JWTSigningKey: devSigningKey,
			JWTIssuer:     "spotter",
			JWTAudience:   "spotter-api",
			LogLevel:      "info",
			LogFormat:     "text",
		},
		Database: Database{
			MaxOpenConns:    20,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Redis: RedisConfig{
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: Kafka{
			Topic:              "spotter.audit",
			Partitions:         3,
			ReplicationFactor:  1,
			OutboxPollInterval: time.Second,
			OutboxBatchSize:    100,
			OutboxRetention:    7 * 24 * time.Hour,
			PruneSchedule:      "@hourly",
		},
		Checkin: Checkin{
			Verification:      verification.DefaultConfig(),
			AttemptsPerMinute: 10,
			VenueCacheTTL:     5 * time.Minute,
			RepeatVisitWindow: 24 * time.Hour,
		},
	}
}

// Load reads the environment, layered over .env in the working directory
// when present.
func Load() (*Config, error) {
	return LoadFrom(".env")
}

// LoadFrom is Load with an explicit env file path. A missing file is not an
// error; environment variables win over file values.
func LoadFrom(envFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			v.SetConfigFile(envFile)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read %s: %w", envFile, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat %s: %w", envFile, err)
		}
	}

	brackets := verification.DefaultBrackets
	if raw := v.GetString("CHECKIN_ACCURACY_BRACKETS"); raw != "" {
		parsed, err := verification.ParseBrackets(raw)
		if err != nil {
			return nil, fmt.Errorf("CHECKIN_ACCURACY_BRACKETS: %w", err)
		}
		brackets = parsed
	}

	cfg := &Config{
		Server: Server{
			Addr:          v.GetString("SPOTTER_ADDR"),
			Environment:   v.GetString("SPOTTER_ENV"),
			JWTSigningKey: v.GetString("JWT_SIGNING_KEY"),
			JWTIssuer:     v.GetString("JWT_ISSUER"),
			JWTAudience:   v.GetString("JWT_AUDIENCE"),
			LogLevel:      v.GetString("LOG_LEVEL"),
			LogFormat:     v.GetString("LOG_FORMAT"),
		},
		Database: Database{
			URL:             v.GetString("DATABASE_URL"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		Redis: RedisConfig{
			URL:          v.GetString("REDIS_URL"),
			PoolSize:     v.GetInt("REDIS_POOL_SIZE"),
			MinIdleConns: v.GetInt("REDIS_MIN_IDLE_CONNS"),
			DialTimeout:  v.GetDuration("REDIS_DIAL_TIMEOUT"),
			ReadTimeout:  v.GetDuration("REDIS_READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("REDIS_WRITE_TIMEOUT"),
		},
		Kafka: Kafka{
			Brokers:            strutil.SplitList(v.GetString("KAFKA_BROKERS"), ","),
			Topic:              v.GetString("KAFKA_AUDIT_TOPIC"),
			Partitions:         v.GetInt32("KAFKA_AUDIT_PARTITIONS"),
			ReplicationFactor:  int16(v.GetInt("KAFKA_AUDIT_REPLICATION_FACTOR")),
			OutboxPollInterval: v.GetDuration("OUTBOX_POLL_INTERVAL"),
			OutboxBatchSize:    v.GetInt("OUTBOX_BATCH_SIZE"),
			OutboxRetention:    v.GetDuration("OUTBOX_RETENTION"),
			PruneSchedule:      v.GetString("OUTBOX_PRUNE_SCHEDULE"),
		},
		Checkin: Checkin{
			Verification: verification.Config{
				BaseMaxDistance:          v.GetFloat64("CHECKIN_BASE_MAX_DISTANCE"),
				RequiredAccuracy:         v.GetFloat64("CHECKIN_REQUIRED_ACCURACY"),
				EnableHighAccuracy:       v.GetBool("CHECKIN_ENABLE_HIGH_ACCURACY"),
				Brackets:                 brackets,
				HighConfidenceAccuracy:   v.GetFloat64("CHECKIN_HIGH_CONFIDENCE_ACCURACY"),
				MediumConfidenceAccuracy: v.GetFloat64("CHECKIN_MEDIUM_CONFIDENCE_ACCURACY"),
			},
			BlockMediumRisk:   v.GetBool("CHECKIN_BLOCK_MEDIUM_RISK"),
			AttemptsPerMinute: v.GetInt("CHECKIN_ATTEMPTS_PER_MINUTE"),
			VenueCacheTTL:     v.GetDuration("VENUE_CACHE_TTL"),
			RepeatVisitWindow: v.GetDuration("CHECKIN_REPEAT_VISIT_WINDOW"),
			IPHashKey:         v.GetString("CHECKIN_IP_HASH_KEY"),
		},
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("SPOTTER_ADDR", d.Server.Addr)
	v.SetDefault("SPOTTER_ENV", d.Server.Environment)
	v.SetDefault("JWT_SIGNING_KEY", d.Server.JWTSigningKey)
	v.SetDefault("JWT_ISSUER", d.Server.JWTIssuer)
	v.SetDefault("JWT_AUDIENCE", d.Server.JWTAudience)
	v.SetDefault("LOG_LEVEL", d.Server.LogLevel)
	v.SetDefault("LOG_FORMAT", d.Server.LogFormat)

	v.SetDefault("DB_MAX_OPEN_CONNS", d.Database.MaxOpenConns)
	v.SetDefault("DB_MAX_IDLE_CONNS", d.Database.MaxIdleConns)
	v.SetDefault("DB_CONN_MAX_LIFETIME", d.Database.ConnMaxLifetime)

	v.SetDefault("REDIS_POOL_SIZE", d.Redis.PoolSize)
	v.SetDefault("REDIS_MIN_IDLE_CONNS", d.Redis.MinIdleConns)
	v.SetDefault("REDIS_DIAL_TIMEOUT", d.Redis.DialTimeout)
	v.SetDefault("REDIS_READ_TIMEOUT", d.Redis.ReadTimeout)
	v.SetDefault("REDIS_WRITE_TIMEOUT", d.Redis.WriteTimeout)

	v.SetDefault("KAFKA_AUDIT_TOPIC", d.Kafka.Topic)
	v.SetDefault("KAFKA_AUDIT_PARTITIONS", d.Kafka.Partitions)
	v.SetDefault("KAFKA_AUDIT_REPLICATION_FACTOR", d.Kafka.ReplicationFactor)
	v.SetDefault("OUTBOX_POLL_INTERVAL", d.Kafka.OutboxPollInterval)
	v.SetDefault("OUTBOX_BATCH_SIZE", d.Kafka.OutboxBatchSize)
	v.SetDefault("OUTBOX_RETENTION", d.Kafka.OutboxRetention)
	v.SetDefault("OUTBOX_PRUNE_SCHEDULE", d.Kafka.PruneSchedule)

	v.SetDefault("CHECKIN_BASE_MAX_DISTANCE", d.Checkin.Verification.BaseMaxDistance)
	v.SetDefault("CHECKIN_REQUIRED_ACCURACY", d.Checkin.Verification.RequiredAccuracy)
	v.SetDefault("CHECKIN_ENABLE_HIGH_ACCURACY", d.Checkin.Verification.EnableHighAccuracy)
	v.SetDefault("CHECKIN_HIGH_CONFIDENCE_ACCURACY", verification.DefaultHighConfidenceAccuracy)
	v.SetDefault("CHECKIN_MEDIUM_CONFIDENCE_ACCURACY", verification.DefaultMediumConfidenceAccuracy)
	v.SetDefault("CHECKIN_BLOCK_MEDIUM_RISK", d.Checkin.BlockMediumRisk)
	v.SetDefault("CHECKIN_ATTEMPTS_PER_MINUTE", d.Checkin.AttemptsPerMinute)
	v.SetDefault("VENUE_CACHE_TTL", d.Checkin.VenueCacheTTL)
	v.SetDefault("CHECKIN_REPEAT_VISIT_WINDOW", d.Checkin.RepeatVisitWindow)
}

func (c *Config) validate() error {
	if c.Server.IsProduction() && (c.Server.JWTSigningKey == "" || c.Server.JWTSigningKey == devSigningKey) {
		return errors.New("JWT_SIGNING_KEY must be set in production")
	}
	if c.Checkin.Verification.BaseMaxDistance <= 0 {
		return errors.New("CHECKIN_BASE_MAX_DISTANCE must be positive")
	}
	if c.Checkin.Verification.RequiredAccuracy <= 0 {
		return errors.New("CHECKIN_REQUIRED_ACCURACY must be positive")
	}
	if c.Checkin.AttemptsPerMinute <= 0 {
		return errors.New("CHECKIN_ATTEMPTS_PER_MINUTE must be positive")
	}
	if len(c.Checkin.IPHashKey) > 64 {
		return errors.New("CHECKIN_IP_HASH_KEY must be at most 64 bytes")
	}
	return nil
}
