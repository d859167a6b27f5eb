// Package config loads taxaquery service configuration from YAML or JSON.
//
//	max_depth: 256
//	log_level: info
//	server:
//	  addr: ":8080"
//	  metrics: true
//	backend:
//	  kind: redis
//	  options:
//	    addr: localhost:6379
//	    prefix: "taxa:"
//
// Backend options stay a loose map until the backend is known, then decode into the
// matching *Options struct.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/taxaquery/internal/logging"
	"github.com/aretw0/taxaquery/pkg/parser"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Backend kinds.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendBolt   = "bolt"
	BackendRemote = "remote"
)

// DefaultAddr is the HTTP listen address when none is configured.
const DefaultAddr = ":8080"

// Config is the root of a configuration file.
type Config struct {
	MaxDepth int     `yaml:"max_depth" json:"max_depth"`
	LogLevel string  `yaml:"log_level" json:"log_level"`
	Server   Server  `yaml:"server" json:"server"`
	Backend  Backend `yaml:"backend" json:"backend"`
}

// Server configures the HTTP service.
type Server struct {
	Addr    string `yaml:"addr" json:"addr"`
	Metrics bool   `yaml:"metrics" json:"metrics"`
}

// Backend selects the taxonomy backend.
type Backend struct {
	Kind    string         `yaml:"kind" json:"kind"`
	Options map[string]any `yaml:"options" json:"options"`
}

// MemoryOptions configures the in-memory backend. File is an optional taxonomy definition.
type MemoryOptions struct {
	File string `mapstructure:"file"`
}

// RedisOptions configures the Redis backend.
type RedisOptions struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// BoltOptions configures the embedded bbolt backend.
type BoltOptions struct {
	Path string `mapstructure:"path"`
}

// RemoteOptions configures a remote taxaquery service as backend.
type RemoteOptions struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Retries uint64        `mapstructure:"retries"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		MaxDepth: parser.DefaultMaxDepth,
		LogLevel: "info",
		Server:   Server{Addr: DefaultAddr},
		Backend:  Backend{Kind: BackendMemory},
	}
}

// Load reads path. A missing file yields Default().
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	format := "yaml"
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		format = "json"
	}
	cfg, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data over Default() and validates the result.
func Parse(data []byte, format string) (*Config, error) {
	cfg := Default()
	switch format {
	case "json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case "yaml", "yml", "":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the scalar settings and that the backend options decode.
func (c *Config) Validate() error {
	if c.MaxDepth < 1 {
		return fmt.Errorf("max_depth must be positive, got %d", c.MaxDepth)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Backend.Kind == "" {
		c.Backend.Kind = BackendMemory
	}

	switch c.Backend.Kind {
	case BackendMemory:
		_, err := c.Backend.Memory()
		return err
	case BackendRedis:
		opts, err := c.Backend.Redis()
		if err == nil && opts.Addr == "" {
			err = errors.New("backend redis: addr is required")
		}
		return err
	case BackendBolt:
		opts, err := c.Backend.Bolt()
		if err == nil && opts.Path == "" {
			err = errors.New("backend bolt: path is required")
		}
		return err
	case BackendRemote:
		opts, err := c.Backend.Remote()
		if err == nil && opts.BaseURL == "" {
			err = errors.New("backend remote: base_url is required")
		}
		return err
	default:
		return fmt.Errorf("unknown backend kind %q (want memory, redis, bolt or remote)", c.Backend.Kind)
	}
}

// Memory decodes the options of a memory backend.
func (b Backend) Memory() (MemoryOptions, error) {
	var opts MemoryOptions
	return opts, b.decode(&opts)
}

// Redis decodes the options of a redis backend.
func (b Backend) Redis() (RedisOptions, error) {
	var opts RedisOptions
	return opts, b.decode(&opts)
}

// Bolt decodes the options of a bolt backend.
func (b Backend) Bolt() (BoltOptions, error) {
	var opts BoltOptions
	return opts, b.decode(&opts)
}

// Remote decodes the options of a remote backend.
func (b Backend) Remote() (RemoteOptions, error) {
	var opts RemoteOptions
	return opts, b.decode(&opts)
}

func (b Backend) decode(out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(b.Options); err != nil {
		return fmt.Errorf("backend %s options: %w", b.Kind, err)
	}
	return nil
}
