package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Logging    LoggingConfig
	OVN        OVNConfig
	Monitor    MonitorConfig
	Collector  CollectorConfig
	Prometheus PrometheusConfig
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig contains database configuration
type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// For SQLite
	Path string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string // json or console
}

// OVNConfig contains settings for reaching the OVN northbound database
// through node debug sessions.
type OVNConfig struct {
	Router         string
	OCBinary       string
	RequestTimeout time.Duration
	// Rate limit on remote debug command executions
	RequestsPerSecond float64
	Burst             int
}

// MonitorConfig contains rule snapshot monitoring defaults
type MonitorConfig struct {
	Duration time.Duration
	Interval time.Duration
}

// CollectorConfig contains periodic collection configuration
type CollectorConfig struct {
	Nodes           []string
	ScanInterval    time.Duration
	MetricsSchedule string
	TrendSchedule   string
	TrendWindowDays int
}

// PrometheusConfig contains the metrics source configuration
type PrometheusConfig struct {
	URL     string
	Timeout time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore errors as it's optional)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "sqlite"),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			Name:            getEnv("DB_NAME", "egresswatch"),
			User:            getEnv("DB_USER", ""),
			Password:        getEnv("DB_PASSWORD", ""),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			Path:            getEnv("DB_PATH", "./egresswatch.db"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		OVN: OVNConfig{
			Router:            getEnv("OVN_CLUSTER_ROUTER", "ovn_cluster_router"),
			OCBinary:          getEnv("OC_BINARY", "oc"),
			RequestTimeout:    getEnvAsDuration("OVN_REQUEST_TIMEOUT", 60*time.Second),
			RequestsPerSecond: getEnvAsFloat("OVN_REQUESTS_PER_SECOND", 2),
			Burst:             getEnvAsInt("OVN_REQUEST_BURST", 4),
		},
		Monitor: MonitorConfig{
			Duration: getEnvAsDuration("MONITOR_DURATION", 5*time.Minute),
			Interval: getEnvAsDuration("MONITOR_INTERVAL", 30*time.Second),
		},
		Collector: CollectorConfig{
			Nodes:           getEnvAsSlice("COLLECTOR_NODES", nil),
			ScanInterval:    getEnvAsDuration("COLLECTOR_SCAN_INTERVAL", 15*time.Minute),
			MetricsSchedule: getEnv("COLLECTOR_METRICS_SCHEDULE", "@every 15m"),
			TrendSchedule:   getEnv("COLLECTOR_TREND_SCHEDULE", "@daily"),
			TrendWindowDays: getEnvAsInt("COLLECTOR_TREND_WINDOW_DAYS", 7),
		},
		Prometheus: PrometheusConfig{
			URL:     getEnv("PROMETHEUS_URL", "http://localhost:9090"),
			Timeout: getEnvAsDuration("PROMETHEUS_TIMEOUT", 30*time.Second),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Driver != "sqlite" && c.Database.Driver != "postgres" {
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}
	if c.Monitor.Interval <= 0 {
		return fmt.Errorf("MONITOR_INTERVAL must be positive")
	}
	if c.Monitor.Duration < c.Monitor.Interval {
		return fmt.Errorf("MONITOR_DURATION must be at least one interval")
	}
	if c.OVN.RequestsPerSecond <= 0 {
		return fmt.Errorf("OVN_REQUESTS_PER_SECOND must be positive")
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
