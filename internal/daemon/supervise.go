package daemon

import (
	"context"
	"errors"
	"log/slog"

	"github.com/thejerf/suture/v4"

	"github.com/1broseidon/tilecore/internal/platform"
)

// Service is a supervised daemon component. String names it in logs.
type Service interface {
	String() string
	suture.Service
}

func newSupervisor(name string, logger *slog.Logger) *suture.Supervisor {
	return suture.New(name, suture.Spec{
		EventHook: eventHook(logger),
	})
}

func eventHook(logger *slog.Logger) suture.EventHook {
	return func(ei suture.Event) {
		switch e := ei.(type) {
		case suture.EventStopTimeout:
			logger.Warn("service failed to terminate in a timely manner", "supervisor", e.SupervisorName, "service", e.ServiceName)
		case suture.EventServicePanic:
			logger.Error("service panicked", "service", e.ServiceName, "panic", e.PanicMsg)
			logger.Debug(e.Stacktrace)
		case suture.EventServiceTerminate:
			logger.Error("service failed", "supervisor", e.SupervisorName, "service", e.ServiceName, "error", e.Err)
		case suture.EventBackoff:
			logger.Debug("too many service failures, backing off", "supervisor", e.SupervisorName)
		case suture.EventResume:
			logger.Debug("exiting backoff state", "supervisor", e.SupervisorName)
		default:
			logger.Warn("unknown supervisor event", "type", int(e.Type()))
		}
	}
}

func add(super *suture.Supervisor, service Service) suture.ServiceToken {
	return super.Add(sanitizeService{Service: service})
}

type sanitizeService struct {
	Service
}

func (s sanitizeService) Serve(ctx context.Context) error {
	return sanitizeError(ctx, s.Service.Serve(ctx))
}

// sanitizeError keeps a service's own context errors from being read as
// supervisor shutdown; suture stops restarting a service that returns one.
func sanitizeError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return errors.New(err.Error())
}

// eventLoop runs the backend's event loop as a service.
type eventLoop struct {
	watcher platform.Watcher
}

func (e eventLoop) String() string { return "x-event-loop" }

func (e eventLoop) Serve(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		e.watcher.EventLoop()
	}()

	select {
	case <-ctx.Done():
		e.watcher.StopEventLoop()
		return ctx.Err()
	case <-done:
		return errors.New("event loop exited")
	}
}
