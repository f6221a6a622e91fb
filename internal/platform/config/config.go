package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the full service configuration, read once at startup.
type Config struct {
	Server    Server
	Auth      Auth
	Database  DatabaseConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	ColdChain ColdChain
	Stock     Stock
	Recompute Recompute
	Report    Report
	LogLevel  string
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	Environment     string
	AdminToken      string
	ShutdownTimeout time.Duration
}

// Auth configures validation of session tokens minted by the identity provider.
type Auth struct {
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
	Roles         []string
}

// DatabaseConfig selects postgres when URL is set; otherwise stores are in memory.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig enables the audit sink when Brokers is non-empty.
type KafkaConfig struct {
	Brokers    []string
	AuditTopic string
	Partitions int32
	Replicas   int16
}

// ColdChain is the safe storage band for vaccines and the sensor feed channel.
type ColdChain struct {
	MinTempC    float64
	MaxTempC    float64
	FeedChannel string
	FeedBackoff time.Duration
}

type Stock struct {
	DefaultReorderLevel int
}

// Recompute schedules the nightly reclassification. Timezone also fixes the
// calendar day request handlers classify against.
type Recompute struct {
	Enabled  bool
	Cron     string
	Timezone string
}

// Location loads Timezone; an empty value means UTC.
func (r Recompute) Location() (*time.Location, error) {
	tz := strings.TrimSpace(r.Timezone)
	if tz == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	return loc, nil
}

type Report struct {
	DashboardCacheTTL time.Duration
	AuditBuffer       int
}

const (
	devJWTKey     = "dev-secret-key-change-in-production"
	devAdminToken = "dev-admin-token"
)

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr:            getEnv("VAXTRACK_ADDR", ":8080"),
			Environment:     getEnv("VAXTRACK_ENV", "development"),
			AdminToken:      getEnv("ADMIN_API_TOKEN", devAdminToken),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Auth: Auth{
			// development default, rejected by Validate in production
			JWTSigningKey: getEnv("JWT_SIGNING_KEY", devJWTKey),
			JWTIssuer:     getEnv("JWT_ISSUER", "vaxtrack"),
			JWTAudience:   getEnv("JWT_AUDIENCE", "vaxtrack-api"),
			Roles:         getListOr("AUTH_ROLES", []string{"nurse", "supervisor", "district_officer"}),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    getInt("DATABASE_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    getInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDuration("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:    getList("KAFKA_BROKERS"),
			AuditTopic: getEnv("KAFKA_AUDIT_TOPIC", "vaxtrack.audit"),
			Partitions: int32(getInt("KAFKA_AUDIT_PARTITIONS", 3)),
			Replicas:   int16(getInt("KAFKA_AUDIT_REPLICAS", 1)),
		},
		ColdChain: ColdChain{
			MinTempC:    getFloat("COLDCHAIN_MIN_TEMP_C", 2),
			MaxTempC:    getFloat("COLDCHAIN_MAX_TEMP_C", 8),
			FeedChannel: getEnv("COLDCHAIN_FEED_CHANNEL", "coldchain:readings"),
			FeedBackoff: getDuration("COLDCHAIN_FEED_BACKOFF", 2*time.Second),
		},
		Stock: Stock{
			DefaultReorderLevel: getInt("STOCK_DEFAULT_REORDER_LEVEL", 10),
		},
		Recompute: Recompute{
			Enabled:  getBool("RECOMPUTE_ENABLED", true),
			Cron:     getEnv("RECOMPUTE_CRON", "0 2 * * *"),
			Timezone: getEnv("RECOMPUTE_TZ", "Africa/Accra"),
		},
		Report: Report{
			DashboardCacheTTL: getDuration("DASHBOARD_CACHE_TTL", time.Minute),
			AuditBuffer:       getInt("AUDIT_BUFFER", 256),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// IsProduction reports whether development defaults must be refused.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}

// Validate rejects settings that are unsafe or inconsistent.
func (c Config) Validate() error {
	var errs []error
	if c.ColdChain.MinTempC >= c.ColdChain.MaxTempC {
		errs = append(errs, errors.New("COLDCHAIN_MIN_TEMP_C must be below COLDCHAIN_MAX_TEMP_C"))
	}
	if c.Stock.DefaultReorderLevel < 0 {
		errs = append(errs, errors.New("STOCK_DEFAULT_REORDER_LEVEL must not be negative"))
	}
	if len(c.Auth.Roles) == 0 {
		errs = append(errs, errors.New("AUTH_ROLES must list at least one role"))
	}
	if c.Report.AuditBuffer < 0 {
		errs = append(errs, errors.New("AUDIT_BUFFER must not be negative"))
	}
	if _, err := c.Recompute.Location(); err != nil {
		errs = append(errs, fmt.Errorf("RECOMPUTE_TZ: %w", err))
	}
	if c.IsProduction() {
		if c.Auth.JWTSigningKey == devJWTKey || len(c.Auth.JWTSigningKey) < 32 {
			errs = append(errs, errors.New("JWT_SIGNING_KEY must be set to at least 32 bytes in production"))
		}
		if c.Server.AdminToken == devAdminToken || c.Server.AdminToken == "" {
			errs = append(errs, errors.New("ADMIN_API_TOKEN must be set in production"))
		}
		if c.Database.URL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required in production"))
		}
	}
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if f, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return f
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return fallback
}

func getList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getListOr(key string, fallback []string) []string {
	if list := getList(key); len(list) > 0 {
		return list
	}
	return fallback
}
