package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int
}

type KafkaConfig struct {
	Enabled        bool
	Brokers        []string
	ConsumerGroup  string
	RawRatesTopic  string
	RateTableTopic string
	QuotesTopic    string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Enabled reports whether an optimization cache is configured.
func (r RedisConfig) Enabled() bool { return r.Addr != "" }

type ScheduleConfig struct {
	RefreshCron   string
	PurgeCron     string
	RetentionDays int
	RunOnStart    bool
}

// Retention is RetentionDays as a duration.
func (s ScheduleConfig) Retention() time.Duration {
	return time.Duration(s.RetentionDays) * 24 * time.Hour
}

type AuthConfig struct {
	JWTSecret        string
	JWTPublicKeyFile string
	JWTIssuer        string
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

// Enabled reports whether the gRPC server should terminate TLS.
func (t TLSConfig) Enabled() bool { return t.CertFile != "" && t.KeyFile != "" }

type LogConfig struct {
	Level  string
	Format string
}

type Config struct {
	GRPCPort       int
	HTTPPort       int
	GRPCReflection bool
	HTTPRateLimit  int
	DB             DatabaseConfig
	Kafka          KafkaConfig
	Redis          RedisConfig
	Schedule       ScheduleConfig
	Auth           AuthConfig
	TLS            TLSConfig
	Log            LogConfig
	OTLPEndpoint   string
	OTLPInsecure   bool
	PolicyFile     string
	SeedFile       string
	ServiceName    string
}

// Validate reports settings the service cannot start without.
func (c Config) Validate() error {
	var errs []error
	if c.DB.Password == "" {
		errs = append(errs, errors.New("DB_PASSWORD environment variable is required"))
	}
	if c.Auth.JWTSecret == "" && c.Auth.JWTPublicKeyFile == "" {
		errs = append(errs, errors.New("JWT_SECRET or JWT_PUBLIC_KEY_FILE is required"))
	}
	if c.Schedule.RetentionDays <= 0 {
		errs = append(errs, fmt.Errorf("RATE_RETENTION_DAYS must be positive, got %d", c.Schedule.RetentionDays))
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		errs = append(errs, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true"))
	}
	if (c.TLS.CertFile == "") != (c.TLS.KeyFile == "") {
		errs = append(errs, errors.New("TLS_CERT_FILE and TLS_KEY_FILE must be set together"))
	}
	return errors.Join(errs...)
}

func Load() Config {
	return Config{
		GRPCPort:       getEnvInt("GRPC_PORT", 9095),
		HTTPPort:       getEnvInt("HTTP_PORT", 8095),
		GRPCReflection: getEnvBool("GRPC_REFLECTION", false),
		HTTPRateLimit:  getEnvInt("HTTP_RATE_LIMIT_RPS", 100),
		DB: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "bib"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "bib_pricing"),
			SSLMode:  getEnv("DB_SSLMODE", "require"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 10),
		},
		Kafka: KafkaConfig{
			Enabled:        getEnvBool("KAFKA_ENABLED", true),
			Brokers:        getEnvList("KAFKA_BROKERS", "localhost:9092"),
			ConsumerGroup:  getEnv("KAFKA_CONSUMER_GROUP", "mortgage-pricing"),
			RawRatesTopic:  getEnv("KAFKA_RAW_RATES_TOPIC", "pricing.rate-offers.raw"),
			RateTableTopic: getEnv("KAFKA_RATE_TABLE_TOPIC", "pricing.rate-table"),
			QuotesTopic:    getEnv("KAFKA_QUOTES_TOPIC", "pricing.quotes"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			TTL:      getEnvDuration("CACHE_TTL", 15*time.Minute),
		},
		Schedule: ScheduleConfig{
			RefreshCron:   getEnv("RATE_REFRESH_CRON", "0 0 9 * * *"),
			PurgeCron:     getEnv("RATE_PURGE_CRON", "0 30 3 * * *"),
			RetentionDays: getEnvInt("RATE_RETENTION_DAYS", 30),
			RunOnStart:    getEnvBool("RATE_REFRESH_ON_START", true),
		},
		Auth: AuthConfig{
			JWTSecret:        getEnv("JWT_SECRET", ""),
			JWTPublicKeyFile: getEnv("JWT_PUBLIC_KEY_FILE", ""),
			JWTIssuer:        getEnv("JWT_ISSUER", "bib-identity"),
		},
		TLS: TLSConfig{
			CertFile: getEnv("TLS_CERT_FILE", ""),
			KeyFile:  getEnv("TLS_KEY_FILE", ""),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		OTLPEndpoint: getEnv("OTLP_ENDPOINT", ""),
		OTLPInsecure: getEnvBool("OTLP_INSECURE", true),
		PolicyFile:   getEnv("PRICING_POLICY_FILE", ""),
		SeedFile:     getEnv("RATE_SEED_FILE", ""),
		ServiceName:  "mortgage-pricing",
	}
}

func (c Config) GRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// getEnvList splits a comma separated value, dropping blanks.
func getEnvList(key, fallback string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, fallback), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
