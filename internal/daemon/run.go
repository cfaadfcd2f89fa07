package daemon

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/1broseidon/tilecore/internal/config"
	"github.com/1broseidon/tilecore/internal/ipc"
	"github.com/1broseidon/tilecore/internal/platform"
	"github.com/1broseidon/tilecore/internal/runtimepath"
)

// RunOptions configure Run.
type RunOptions struct {
	// ConfigPath overrides the default config location.
	ConfigPath string
	Logger     *slog.Logger
}

// Run loads the config, connects to the window system and supervises the
// IPC server, reconciler and event loop until ctx is cancelled.
func Run(ctx context.Context, opts RunOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	load := func() (*config.Config, error) {
		if opts.ConfigPath != "" {
			res, err := config.LoadFromPath(opts.ConfigPath)
			if err != nil {
				return nil, err
			}
			return res.Config, nil
		}
		return config.Load()
	}

	cfg, err := load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	backend, closeBackend, err := openBackend(cfg)
	if err != nil {
		return err
	}
	defer closeBackend()

	return Serve(ctx, cfg, backend, ServeOptions{LoadConfig: load, Logger: logger})
}

// ServeOptions configure Serve. Empty paths fall back to the runtime
// directory.
type ServeOptions struct {
	SocketPath string
	StatePath  string
	LoadConfig ConfigLoader
	Logger     *slog.Logger
}

// Serve runs the daemon services over an already opened backend.
func Serve(ctx context.Context, cfg *config.Config, backend platform.Backend, opts ServeOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	statePath := opts.StatePath
	if statePath == "" {
		statePath = cfg.StateFile
	}
	if statePath == "" {
		p, err := runtimepath.StatePath()
		if err != nil {
			return fmt.Errorf("failed to resolve state path: %w", err)
		}
		statePath = p
	}
	socketPath := opts.SocketPath
	if socketPath == "" {
		p, err := runtimepath.SocketPath()
		if err != nil {
			return fmt.Errorf("failed to resolve IPC socket path: %w", err)
		}
		socketPath = p
	}

	manager, err := NewManager(cfg, backend, Options{
		StatePath:  statePath,
		LoadConfig: opts.LoadConfig,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	reconciler := NewReconciler(ReconcilerConfig{
		Interval: cfg.ReconcileEvery(),
		Logger:   logger,
	}, manager)

	super := newSupervisor("tilecore", logger)
	add(super, ipc.NewServer(socketPath, manager))
	add(super, reconciler)

	if watcher, ok := backend.(platform.Watcher); ok {
		if err := watcher.WatchWindows(reconciler.Trigger); err != nil {
			logger.Warn("window change notifications unavailable, polling only", "error", err)
		} else {
			add(super, eventLoop{watcher: watcher})
		}
	}

	logger.Info("daemon started", "tags", cfg.Tags, "socket", socketPath, "state", statePath)
	err = super.Serve(ctx)
	logger.Info("daemon stopped")
	if ctx.Err() != nil {
		return nil
	}
	return err
}
