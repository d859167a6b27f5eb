// Package cli holds the wiring shared by the taxaquery commands.
package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/aretw0/taxaquery/internal/config"
	"github.com/aretw0/taxaquery/internal/logging"
	"github.com/aretw0/taxaquery/pkg/domain"
)

// SignalContext is cancelled on SIGINT or SIGTERM and remembers which one arrived,
// so servers can log why they are shutting down.
type SignalContext struct {
	context.Context
	Cancel context.CancelFunc
	sig    atomic.Value
}

// NewSignalContext derives a SignalContext from parent. Cancel releases the signal handler.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{Context: ctx, Cancel: cancel}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(ch)
		select {
		case sig := <-ch:
			sc.sig.Store(sig)
			cancel()
		case <-ctx.Done():
		}
	}()
	return sc
}

// Signal returns the signal that cancelled the context, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sig, _ := sc.sig.Load().(os.Signal)
	return sig
}

// NewLogger configures the application logger from cfg.
// debug forces debug level; otherwise the configured level applies. Logs go to Stderr
// so Stdout carries only results.
func NewLogger(cfg *config.Config, debug bool) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	return logging.New(level)
}

// DebugHooks logs every lookup start at debug level. Completion is already logged by the expander.
func DebugHooks(logger *slog.Logger) domain.LookupHooks {
	return domain.LookupHooks{
		OnLookup: func(ctx context.Context, e *domain.LookupEvent) {
			logger.Debug("lookup start", "op", e.Op.Keyword(), "taxon", string(e.Taxon))
		},
	}
}
