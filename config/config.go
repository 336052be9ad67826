package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type GRPC struct {
	Addr string `yaml:"addr"`
}

type HTTP struct {
	Addr string `yaml:"addr"`
}

type Logging struct {
	Env       string `yaml:"env"`       // dev|stage|prod
	Service   string `yaml:"service"`   // course-relay
	Version   string `yaml:"version"`   // v0.1.0
	Backend   string `yaml:"backend"`   // std|zap
	Level     string `yaml:"level"`     // debug|info|warn|error
	AddSource bool   `yaml:"addSource"` // false|true
	Debug     bool   `yaml:"debug"`     // false|true
}

type Relay struct {
	ReadLimit      int64    `yaml:"readLimit"`
	PingInterval   string   `yaml:"pingInterval"`
	SendBuffer     int      `yaml:"sendBuffer"`
	EventBuffer    int      `yaml:"eventBuffer"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

type CORS struct {
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

type Config struct {
	HTTP            HTTP    `yaml:"http"`
	GRPC            GRPC    `yaml:"grpc"`
	Logging         Logging `yaml:"logging"`
	Relay           Relay   `yaml:"relay"`
	CORS            CORS    `yaml:"cors"`
	ShutdownTimeout string  `yaml:"shutdownTimeout"`
}

// LoadConfig reads CONFIG_PATH (default ./config/config.yaml). A missing file
// yields the defaults.
func LoadConfig() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "./config/config.yaml"
	}
	return Load(path)
}

func Load(path string) (*Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	// установка дефолтов, если значения не указаны
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.GRPC.Addr == "" {
		c.GRPC.Addr = ":9090"
	}
	if c.Logging.Service == "" {
		c.Logging.Service = "course-relay"
	}
	if c.Logging.Env == "" {
		c.Logging.Env = "dev"
	}
	if c.Logging.Version == "" {
		c.Logging.Version = "v0.1.0"
	}
	if c.Logging.Backend == "" {
		c.Logging.Backend = "std"
	}
	if c.Logging.Backend != "std" && c.Logging.Backend != "zap" {
		return fmt.Errorf("logging.backend: unknown backend %q", c.Logging.Backend)
	}

	if c.Relay.ReadLimit < 0 {
		return errors.New("relay.readLimit must not be negative")
	}
	if c.Relay.ReadLimit == 0 {
		c.Relay.ReadLimit = 1 << 20
	}
	if c.Relay.SendBuffer < 0 || c.Relay.EventBuffer < 0 {
		return errors.New("relay buffers must not be negative")
	}
	if c.Relay.SendBuffer == 0 {
		c.Relay.SendBuffer = 64
	}
	if c.Relay.EventBuffer == 0 {
		c.Relay.EventBuffer = 256
	}
	if c.Relay.PingInterval != "" {
		if d, err := time.ParseDuration(c.Relay.PingInterval); err != nil || d <= 0 {
			return fmt.Errorf("relay.pingInterval: invalid duration %q", c.Relay.PingInterval)
		}
	}
	if c.ShutdownTimeout != "" {
		if d, err := time.ParseDuration(c.ShutdownTimeout); err != nil || d <= 0 {
			return fmt.Errorf("shutdownTimeout: invalid duration %q", c.ShutdownTimeout)
		}
	}
	if len(c.Relay.AllowedOrigins) == 0 {
		c.Relay.AllowedOrigins = []string{"*"}
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"*"}
	}
	return nil
}

func (c *Config) PingEvery() time.Duration {
	return parseDurationOr(15*time.Second, c.Relay.PingInterval)
}

func (c *Config) ShutdownAfter() time.Duration {
	return parseDurationOr(10*time.Second, c.ShutdownTimeout)
}

// helper для парсинга timeout-ов
func parseDurationOr(def time.Duration, s string) time.Duration {
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return def
}
