package daemon

import (
	"context"
	"log/slog"
	"time"
)

// Reconcilable is synced against the window system by a Reconciler.
type Reconcilable interface {
	Reconcile() error
}

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	// Interval between polls; zero disables polling so that only Trigger
	// causes passes.
	Interval time.Duration
	Logger   *slog.Logger
}

// Reconciler periodically checks for drift between the managed workspaces
// and the window system and corrects it.
type Reconciler struct {
	interval time.Duration
	target   Reconcilable
	logger   *slog.Logger
	trigger  chan struct{}
}

// NewReconciler creates a new reconciler with the given configuration.
func NewReconciler(cfg ReconcilerConfig, target Reconcilable) *Reconciler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		interval: cfg.Interval,
		target:   target,
		logger:   logger,
		trigger:  make(chan struct{}, 1),
	}
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	var tick <-chan time.Time
	if r.interval > 0 {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	r.logger.Info("reconciler started", "interval", r.interval)
	r.reconcile()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return
		case <-tick:
			r.reconcile()
		case <-r.trigger:
			r.reconcile()
		}
	}
}

// Serve adapts Run to a supervised service.
func (r *Reconciler) Serve(ctx context.Context) error {
	r.Run(ctx)
	return ctx.Err()
}

func (r *Reconciler) String() string { return "reconciler" }

// Trigger schedules a pass without blocking. Triggers that arrive while one
// is pending are coalesced.
func (r *Reconciler) Trigger() {
	select {
	case r.trigger <- struct{}{}:
	default:
	}
}

// reconcile performs a single reconciliation pass.
func (r *Reconciler) reconcile() {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("reconciler panic recovered", "error", err)
		}
	}()

	if err := r.target.Reconcile(); err != nil {
		r.logger.Error("reconcile failed", "error", err)
	}
}
