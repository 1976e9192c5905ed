package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	lotterytypes "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/domain/types"
)

// Config struct to hold the configuration settings
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	NATS          NATSConfig          `yaml:"nats"`
	HTTP          HTTPConfig          `yaml:"http"`
	JWT           JWTConfig           `yaml:"jwt"`
	Oracle        OracleConfig        `yaml:"oracle"`
	Queue         QueueConfig         `yaml:"queue"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// NATSConfig holds NATS configuration.
type NATSConfig struct {
	URL string `yaml:"url"`
}

// HTTPConfig holds the HTTP listener configuration.
type HTTPConfig struct {
	Addr          string  `yaml:"addr"`
	JoinRateLimit float64 `yaml:"join_rate_limit"` // requests per second
	JoinRateBurst int     `yaml:"join_rate_burst"`
}

// JWTConfig holds the admin capability configuration. A single shared
// secret gates round administration; there is no role hierarchy.
type JWTConfig struct {
	Secret     string        `yaml:"secret"`
	DefaultTTL time.Duration `yaml:"default_ttl"`
}

// OracleConfig holds the randomness oracle client configuration.
type OracleConfig struct {
	// RequestSubject is the NATS subject randomness requests are
	// published on.
	RequestSubject string `yaml:"request_subject"`
	// KeyHash names the oracle key the request is made against.
	KeyHash string `yaml:"key_hash"`
	// Fee is debited from the fee reserve per randomness request.
	Fee lotterytypes.Amount `yaml:"fee"`
	// PublicKey is the oracle's nkeys public key used to verify
	// delivered randomness.
	PublicKey string `yaml:"public_key"`
}

// QueueConfig holds the River stall-scan configuration.
type QueueConfig struct {
	// StallAfter is how long a round may sit full before the scanner
	// flags it as stalled.
	StallAfter   time.Duration `yaml:"stall_after"`
	ScanInterval time.Duration `yaml:"scan_interval"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	MetricsAddress  string  `yaml:"metrics_address"`
	OTLPEndpoint    string  `yaml:"otlp_endpoint"`
	OTLPInsecure    bool    `yaml:"otlp_insecure"`
	TraceSampleRate float64 `yaml:"trace_sample_rate"`
	Environment     string  `yaml:"environment"`
}

// LoadConfig loads the configuration from a YAML file.
func LoadConfig(filename string) (*Config, error) {
	// Try reading configuration from the file first
	data, err := os.ReadFile(filename)
	if err != nil {
		// If the file is not found, build the config from environment variables
		cfg := defaultConfig()
		applyEnvOverrides(cfg)
		return cfg, cfg.validate()
	}

	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvOverrides(cfg)
	return cfg, cfg.validate()
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Addr:          ":8080",
			JoinRateLimit: 5,
			JoinRateBurst: 10,
		},
		JWT: JWTConfig{
			DefaultTTL: time.Hour,
		},
		Oracle: OracleConfig{
			RequestSubject: "oracle.vrf.request.v1",
		},
		Queue: QueueConfig{
			StallAfter:   10 * time.Minute,
			ScanInterval: time.Minute,
		},
		Observability: ObservabilityConfig{
			MetricsAddress:  ":9090",
			TraceSampleRate: 1.0,
			Environment:     "development",
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("JWT_DEFAULT_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.JWT.DefaultTTL = d
		}
	}
	if v := os.Getenv("ORACLE_REQUEST_SUBJECT"); v != "" {
		cfg.Oracle.RequestSubject = v
	}
	if v := os.Getenv("ORACLE_KEY_HASH"); v != "" {
		cfg.Oracle.KeyHash = v
	}
	if v := os.Getenv("ORACLE_FEE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Oracle.Fee = lotterytypes.Amount(n)
		}
	}
	if v := os.Getenv("ORACLE_PUBLIC_KEY"); v != "" {
		cfg.Oracle.PublicKey = v
	}
	if v := os.Getenv("STALL_AFTER"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Queue.StallAfter = d
		}
	}
	if v := os.Getenv("STALL_SCAN_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Queue.ScanInterval = d
		}
	}
	if v := os.Getenv("METRICS_ADDRESS"); v != "" {
		cfg.Observability.MetricsAddress = v
	}
	if v := os.Getenv("OTLP_ENDPOINT"); v != "" {
		cfg.Observability.OTLPEndpoint = v
	}
	if v := os.Getenv("OTLP_INSECURE"); v != "" {
		cfg.Observability.OTLPInsecure = v == "true"
	}
	if v := os.Getenv("TRACE_SAMPLE_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Observability.TraceSampleRate = f
		}
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
}

func (c *Config) validate() error {
	if c.Postgres.DSN == "" {
		return fmt.Errorf("postgres.dsn is required")
	}
	if c.NATS.URL == "" {
		return fmt.Errorf("nats.url is required")
	}
	if c.Oracle.Fee < 0 {
		return fmt.Errorf("oracle.fee cannot be negative")
	}
	return nil
}
