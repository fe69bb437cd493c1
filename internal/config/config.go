// Package config loads server settings with Viper.
//
// Precedence, highest first: command-line flags bound by the caller,
// TEAPOT_* environment variables (plus the bare PORT variable), the
// optional YAML config file, and the defaults below.
package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "TEAPOT"

// Keys.
const (
	KeyServerHost            = "server.host"
	KeyServerPort            = "server.port"
	KeyServerReadTimeout     = "server.read_timeout"
	KeyServerWriteTimeout    = "server.write_timeout"
	KeyServerShutdownTimeout = "server.shutdown_timeout"
	KeyLogLevel              = "log.level"
	KeyLogFormat             = "log.format"
	KeyRateLimitPerMinute    = "ratelimit.requests_per_minute"
	KeyRateLimitBurst        = "ratelimit.burst"
	KeyRateLimitTrustProxy   = "ratelimit.trust_proxy_headers"
	KeyHealthMaxHeapMB       = "health.max_heap_mb"
	KeySeedFile              = "seed.file"
)

// Defaults.
const (
	DefaultHost            = "0.0.0.0"
	DefaultPort            = 3000
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultLogLevel        = "info"
	DefaultLogFormat       = FormatJSON
	DefaultRequestsPerMin  = 120
	DefaultBurst           = 20
)

// Log formats.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Health    HealthConfig    `mapstructure:"health"`
	Seed      SeedConfig      `mapstructure:"seed"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns host:port suitable for net.Listen.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ZerologLevel parses Level. Call only on a validated config.
func (l LogConfig) ZerologLevel() zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(l.Level))
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

type RateLimitConfig struct {
	// RequestsPerMinute per client IP. Zero disables rate limiting.
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
	Burst             int `mapstructure:"burst"`
	// TrustProxyHeaders keys clients on X-Forwarded-For / X-Real-IP.
	// Only safe behind a proxy that overwrites them.
	TrustProxyHeaders bool `mapstructure:"trust_proxy_headers"`
}

func (r RateLimitConfig) Enabled() bool { return r.RequestsPerMinute > 0 }

type HealthConfig struct {
	// MaxHeapMB fails the memory readiness check above this heap size.
	// Zero means unlimited.
	MaxHeapMB int `mapstructure:"max_heap_mb"`
}

type SeedConfig struct {
	// File is a YAML fixture loaded into the store at startup.
	File string `mapstructure:"file"`
}

// New returns a Viper instance with defaults and environment bindings set.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault(KeyServerHost, DefaultHost)
	v.SetDefault(KeyServerPort, DefaultPort)
	v.SetDefault(KeyServerReadTimeout, DefaultReadTimeout)
	v.SetDefault(KeyServerWriteTimeout, DefaultWriteTimeout)
	v.SetDefault(KeyServerShutdownTimeout, DefaultShutdownTimeout)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyLogFormat, DefaultLogFormat)
	v.SetDefault(KeyRateLimitPerMinute, DefaultRequestsPerMin)
	v.SetDefault(KeyRateLimitBurst, DefaultBurst)
	v.SetDefault(KeyRateLimitTrustProxy, false)
	v.SetDefault(KeyHealthMaxHeapMB, 0)
	v.SetDefault(KeySeedFile, "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// PORT is honoured for platforms that inject it; TEAPOT_SERVER_PORT wins.
	_ = v.BindEnv(KeyServerPort, EnvPrefix+"_SERVER_PORT", "PORT")

	return v
}

// Load reads the optional config file at path into v and returns the
// validated result.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// validate checks ranges and closed sets.
func validate(cfg *Config) error {
	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535, got %d", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout <= 0 {
		return errors.New("server.read_timeout must be positive")
	}
	if cfg.Server.WriteTimeout <= 0 {
		return errors.New("server.write_timeout must be positive")
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		return errors.New("server.shutdown_timeout must be positive")
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(cfg.Log.Level)); err != nil || cfg.Log.Level == "" {
		return fmt.Errorf("log.level: unknown level %q", cfg.Log.Level)
	}
	switch cfg.Log.Format {
	case FormatJSON, FormatConsole:
	default:
		return fmt.Errorf("log.format: unknown format %q", cfg.Log.Format)
	}
	if cfg.RateLimit.RequestsPerMinute < 0 {
		return errors.New("ratelimit.requests_per_minute must not be negative")
	}
	if cfg.RateLimit.Enabled() && cfg.RateLimit.Burst <= 0 {
		return errors.New("ratelimit.burst must be positive when rate limiting is enabled")
	}
	if cfg.Health.MaxHeapMB < 0 {
		return errors.New("health.max_heap_mb must not be negative")
	}
	return nil
}

// Watch reloads the config file whenever it changes and passes each valid
// result to onChange. An invalid edit is logged and the previous config
// stays in effect. Watch is a no-op when v has no config file.
func Watch(v *viper.Viper, onChange func(*Config)) {
	if v.ConfigFileUsed() == "" {
		return
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := decode(v)
		if err != nil {
			log.Error().Err(err).Str("path", e.Name).Msg("Config reload failed, keeping previous config")
			return
		}
		log.Info().Str("path", e.Name).Msg("Config reloaded")
		onChange(cfg)
	})
	v.WatchConfig()
}
