// Package config loads art-explorer settings from defaults, an optional
// YAML file, ART_EXPLORER_* environment variables and bound command flags,
// in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Sternrassler/art-explorer/pkg/catalog"
	"github.com/Sternrassler/art-explorer/pkg/logging"
	"github.com/Sternrassler/art-explorer/pkg/pagination"
	"github.com/Sternrassler/art-explorer/pkg/render"
)

const (
	// EnvPrefix prefixes every environment override, e.g. ART_EXPLORER_LOG_LEVEL.
	EnvPrefix = "ART_EXPLORER"

	// FileName is the config file name searched for without extension.
	FileName = "art-explorer"

	// DefaultUserAgent identifies the client to the catalog API.
	DefaultUserAgent = "art-explorer/0.1.0 (+https://github.com/Sternrassler/art-explorer)"

	// DefaultKeyword pre-fills the interactive search.
	DefaultKeyword = "flower"
)

// Session store kinds.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config is the complete application configuration.
type Config struct {
	Catalog CatalogConfig `mapstructure:"catalog" yaml:"catalog"`
	Render  RenderConfig  `mapstructure:"render" yaml:"render"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Serve   ServeConfig   `mapstructure:"serve" yaml:"serve"`
	Session SessionConfig `mapstructure:"session" yaml:"session"`
	Redis   RedisConfig   `mapstructure:"redis" yaml:"redis"`
	Search  SearchConfig  `mapstructure:"search" yaml:"search"`
}

type CatalogConfig struct {
	BaseURL       string        `mapstructure:"base_url" yaml:"base_url"`
	UserAgent     string        `mapstructure:"user_agent" yaml:"user_agent"`
	Timeout       time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxImageBytes int64         `mapstructure:"max_image_bytes" yaml:"max_image_bytes"`
}

type RenderConfig struct {
	Concurrency int  `mapstructure:"concurrency" yaml:"concurrency"`
	FetchImages bool `mapstructure:"fetch_images" yaml:"fetch_images"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Pretty bool   `mapstructure:"pretty" yaml:"pretty"`
}

type ServeConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

type SessionConfig struct {
	// Store is "memory" or "redis".
	Store string        `mapstructure:"store" yaml:"store"`
	TTL   time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr" yaml:"addr"`
	Password string `mapstructure:"password" yaml:"password,omitempty"`
	DB       int    `mapstructure:"db" yaml:"db"`
}

type SearchConfig struct {
	DefaultKeyword string `mapstructure:"default_keyword" yaml:"default_keyword"`
}

// SetDefaults registers every key with its default value. Keys must be
// registered for environment overrides to reach Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("catalog.base_url", catalog.DefaultBaseURL)
	v.SetDefault("catalog.user_agent", DefaultUserAgent)
	v.SetDefault("catalog.timeout", catalog.DefaultTimeout)
	v.SetDefault("catalog.max_image_bytes", catalog.DefaultMaxImageBytes)

	v.SetDefault("render.concurrency", 1)
	v.SetDefault("render.fetch_images", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", true)

	v.SetDefault("serve.addr", ":8080")

	v.SetDefault("session.store", StoreMemory)
	v.SetDefault("session.ttl", 30*time.Minute)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("search.default_keyword", DefaultKeyword)
}

// NewViper returns a viper instance with defaults, environment binding and
// the config file read in. cfgFile overrides the search path; a missing
// file on the search path is not an error.
func NewViper(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", FileName))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return v, nil
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := Load(v)
	if err != nil {
		panic(fmt.Sprintf("invalid built-in config: %v", err))
	}
	return cfg
}

// Validate checks every setting and reports the first problem found.
func (c Config) Validate() error {
	u, err := url.Parse(c.Catalog.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("catalog.base_url must be an absolute URL (got %q)", c.Catalog.BaseURL)
	}
	if strings.TrimSpace(c.Catalog.UserAgent) == "" {
		return fmt.Errorf("catalog.user_agent is required")
	}
	if c.Catalog.Timeout <= 0 {
		return fmt.Errorf("catalog.timeout must be > 0 (got %s)", c.Catalog.Timeout)
	}
	if c.Catalog.MaxImageBytes < 0 {
		return fmt.Errorf("catalog.max_image_bytes must be >= 0 (got %d)", c.Catalog.MaxImageBytes)
	}

	if c.Render.Concurrency < 1 || c.Render.Concurrency > pagination.PageSize {
		return fmt.Errorf("render.concurrency must be between 1 and %d (got %d)", pagination.PageSize, c.Render.Concurrency)
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	switch c.Session.Store {
	case StoreMemory:
	case StoreRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis.addr is required when session.store is %q", StoreRedis)
		}
	default:
		return fmt.Errorf("session.store must be %q or %q (got %q)", StoreMemory, StoreRedis, c.Session.Store)
	}
	if c.Session.TTL < 0 {
		return fmt.Errorf("session.ttl must be >= 0 (got %s)", c.Session.TTL)
	}

	return nil
}

// CatalogClientConfig returns the catalog client settings.
func (c Config) CatalogClientConfig() catalog.Config {
	return catalog.Config{
		BaseURL:       c.Catalog.BaseURL,
		UserAgent:     c.Catalog.UserAgent,
		Timeout:       c.Catalog.Timeout,
		MaxImageBytes: c.Catalog.MaxImageBytes,
	}
}

// RendererConfig returns the renderer settings.
func (c Config) RendererConfig() render.Config {
	return render.Config{
		Concurrency: c.Render.Concurrency,
		FetchImages: c.Render.FetchImages,
	}
}

// LoggingConfig returns the logger settings writing to out.
func (c Config) LoggingConfig(out io.Writer) logging.Config {
	return logging.Config{
		Level:  logging.LogLevel(strings.ToLower(c.Log.Level)),
		Pretty: c.Log.Pretty,
		Output: out,
	}
}
