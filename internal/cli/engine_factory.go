package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/taxaquery"
	"github.com/aretw0/taxaquery/internal/config"
	"github.com/aretw0/taxaquery/pkg/adapters/bolt"
	"github.com/aretw0/taxaquery/pkg/adapters/memory"
	"github.com/aretw0/taxaquery/pkg/adapters/redis"
	"github.com/aretw0/taxaquery/pkg/adapters/remote"
	"github.com/aretw0/taxaquery/pkg/domain"
	"github.com/aretw0/taxaquery/pkg/ports"
	"github.com/aretw0/taxaquery/pkg/taxonomy"
)

// Options are the global command flags.
type Options struct {
	ConfigPath   string
	TaxonomyFile string
	Debug        bool
}

// LoadConfig reads the config file and applies flag overrides.
// --taxonomy selects the memory backend unless a writable backend is configured,
// in which case it only names the file for `seed`.
func LoadConfig(opts Options) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.TaxonomyFile != "" && cfg.Backend.Kind == config.BackendMemory {
		if cfg.Backend.Options == nil {
			cfg.Backend.Options = map[string]any{}
		}
		cfg.Backend.Options["file"] = opts.TaxonomyFile
	}
	return cfg, nil
}

// Backend is an opened taxonomy backend.
type Backend struct {
	Client ports.TaxonomyClient
	// Writer is nil for read-only backends (remote).
	Writer ports.TaxonomyWriter
	// Locker is set for backends shared between processes (redis).
	Locker ports.Locker
	closer io.Closer
}

// Close releases the backend's connections or file locks.
func (b *Backend) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer.Close()
}

// OpenBackend builds the taxonomy backend cfg selects.
func OpenBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Backend, error) {
	switch cfg.Backend.Kind {
	case config.BackendMemory:
		opts, err := cfg.Backend.Memory()
		if err != nil {
			return nil, err
		}
		tax := memory.NewTaxonomy()
		if opts.File != "" {
			f, err := taxonomy.Load(opts.File)
			if err != nil {
				return nil, err
			}
			if tax, err = memory.NewFromFile(f); err != nil {
				return nil, err
			}
			logger.Debug("taxonomy loaded", "file", opts.File, "taxa", tax.Len())
		} else {
			logger.Warn("memory backend has no taxonomy file; extensions will report unknown taxa")
		}
		return &Backend{Client: tax, Writer: tax}, nil

	case config.BackendRedis:
		opts, err := cfg.Backend.Redis()
		if err != nil {
			return nil, err
		}
		var redisOpts []redis.Option
		if opts.Prefix != "" {
			redisOpts = append(redisOpts, redis.WithPrefix(opts.Prefix))
		}
		tax := redis.New(opts.Addr, opts.Password, opts.DB, redisOpts...)
		return &Backend{Client: tax, Writer: tax, Locker: tax.Locker(), closer: tax}, nil

	case config.BackendBolt:
		opts, err := cfg.Backend.Bolt()
		if err != nil {
			return nil, err
		}
		tax, err := bolt.Open(opts.Path)
		if err != nil {
			return nil, err
		}
		return &Backend{Client: tax, Writer: tax, closer: tax}, nil

	case config.BackendRemote:
		opts, err := cfg.Backend.Remote()
		if err != nil {
			return nil, err
		}
		remoteOpts := []remote.Option{remote.WithLogger(logger)}
		if opts.Timeout > 0 {
			remoteOpts = append(remoteOpts, remote.WithTimeout(opts.Timeout))
		}
		if opts.Retries > 0 {
			remoteOpts = append(remoteOpts, remote.WithRetries(opts.Retries))
		}
		client, err := remote.New(opts.BaseURL, remoteOpts...)
		if err != nil {
			return nil, err
		}
		return &Backend{Client: client}, nil

	default:
		return nil, fmt.Errorf("unknown backend kind %q", cfg.Backend.Kind)
	}
}

// NewEngine creates a taxaquery engine over backend with standard CLI conventions.
func NewEngine(backend *Backend, cfg *config.Config, logger *slog.Logger, debug bool, hooks ...domain.LookupHooks) (*taxaquery.Engine, error) {
	engineOpts := []taxaquery.Option{
		taxaquery.WithLogger(logger),
		taxaquery.WithMaxDepth(cfg.MaxDepth),
	}
	if debug {
		engineOpts = append(engineOpts, taxaquery.WithLookupHooks(DebugHooks(logger)))
	}
	for _, h := range hooks {
		engineOpts = append(engineOpts, taxaquery.WithLookupHooks(h))
	}

	engine, err := taxaquery.New(backend.Client, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}
