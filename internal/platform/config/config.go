package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	pstrings "orglink/pkg/platform/strings"
)

// Config is the full process configuration assembled from the environment.
type Config struct {
	Server   Server
	Linkage  Linkage
	Database Database
	Redis    RedisConfig
	Kafka    Kafka
	Log      Log
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr       string
	AdminToken string
}

// Linkage tunes the organization resolution engine.
type Linkage struct {
	FuzzyEnabled     bool
	FuzzyThreshold   float64
	AliasFile        string
	RegistryFixture  string
	BatchConcurrency int
	RefreshInterval  time.Duration
	TargetRate       float64
}

// Database points at the PostgreSQL instance holding organizations and links.
type Database struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig configures the optional shared unmatched-reference set.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Kafka configures the optional audit stream for unmatched references.
type Kafka struct {
	Brokers    []string
	AuditTopic string
}

// Log selects the slog handler and level.
type Log struct {
	Level  string
	Format string
}

const (
	DefaultFuzzyThreshold   = 0.85
	DefaultBatchConcurrency = 4
	DefaultRefreshInterval  = 15 * time.Minute
	DefaultTargetRate       = 95.0
)

// DefaultLinkage returns the engine defaults: fuzzy matching on at 0.85.
func DefaultLinkage() Linkage {
	return Linkage{
		FuzzyEnabled:     true,
		FuzzyThreshold:   DefaultFuzzyThreshold,
		BatchConcurrency: DefaultBatchConcurrency,
		RefreshInterval:  DefaultRefreshInterval,
		TargetRate:       DefaultTargetRate,
	}
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	cfg := Config{
		Server: Server{
			Addr:       envString("ORGLINK_ADDR", ":8080"),
			AdminToken: os.Getenv("ADMIN_API_TOKEN"),
		},
		Linkage: DefaultLinkage(),
		Database: Database{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: Kafka{
			Brokers:    splitList(os.Getenv("KAFKA_BROKERS")),
			AuditTopic: envString("KAFKA_AUDIT_TOPIC", "orglink.unmatched"),
		},
		Log: Log{
			Level:  envString("LOG_LEVEL", "info"),
			Format: envString("LOG_FORMAT", "json"),
		},
	}

	var err error
	if cfg.Linkage.FuzzyEnabled, err = envBool("LINKAGE_FUZZY_ENABLED", cfg.Linkage.FuzzyEnabled); err != nil {
		return Config{}, err
	}
	if cfg.Linkage.FuzzyThreshold, err = envFloat("LINKAGE_FUZZY_THRESHOLD", cfg.Linkage.FuzzyThreshold); err != nil {
		return Config{}, err
	}
	if cfg.Linkage.BatchConcurrency, err = envInt("LINKAGE_BATCH_CONCURRENCY", cfg.Linkage.BatchConcurrency); err != nil {
		return Config{}, err
	}
	if cfg.Linkage.RefreshInterval, err = envDuration("LINKAGE_REFRESH_INTERVAL", cfg.Linkage.RefreshInterval); err != nil {
		return Config{}, err
	}
	if cfg.Linkage.TargetRate, err = envFloat("LINKAGE_TARGET_RATE", cfg.Linkage.TargetRate); err != nil {
		return Config{}, err
	}
	cfg.Linkage.AliasFile = os.Getenv("LINKAGE_ALIAS_FILE")
	cfg.Linkage.RegistryFixture = os.Getenv("LINKAGE_REGISTRY_FIXTURE")

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges that would otherwise surface as odd matching behavior.
func (c Config) Validate() error {
	return c.Linkage.Validate()
}

// Validate enforces the linkage option ranges.
func (l Linkage) Validate() error {
	if l.FuzzyThreshold <= 0 || l.FuzzyThreshold > 1 {
		return fmt.Errorf("fuzzy threshold must be within (0,1], got %v", l.FuzzyThreshold)
	}
	if l.BatchConcurrency < 1 {
		return fmt.Errorf("batch concurrency must be positive, got %d", l.BatchConcurrency)
	}
	if l.RefreshInterval < 0 {
		return fmt.Errorf("refresh interval must not be negative")
	}
	return nil
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return b, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return f, nil
}

func envInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}

func splitList(v string) []string {
	out := pstrings.DedupeAndTrim(strings.Split(v, ","))
	if len(out) == 0 {
		return nil
	}
	return out
}
