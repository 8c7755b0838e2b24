// Package lifecycle tears the service down in the reverse of its start
// order: pool, journal, scanner, monitor and server each register a
// closer as they come up, and all of them run under one grace period
// when the process is told to stop.
package lifecycle

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Closer releases one component. It must respect ctx's deadline.
type Closer func(ctx context.Context) error

// Manager collects component closers and runs them newest-first on
// shutdown. A failing closer does not stop the sequence; every failure
// is reported back joined.
type Manager struct {
	grace  time.Duration
	logger *zap.Logger

	mu      sync.Mutex
	names   []string
	closers []Closer
}

func New(grace time.Duration, logger *zap.Logger) *Manager {
	if grace <= 0 {
		grace = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		grace:  grace,
		logger: logger,
	}
}

// OnShutdown registers a closer for a named component. Registration
// order is start order; closers run in the reverse of it.
func (m *Manager) OnShutdown(component string, close Closer) {
	if close == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.names = append(m.names, component)
	m.closers = append(m.closers, close)
}

// Notify invokes cancel once the process receives SIGINT or SIGTERM.
func (m *Manager) Notify(cancel context.CancelFunc) {
	if cancel == nil {
		return
	}
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		received := <-signals
		m.logger.Info("stopping on signal", zap.String("signal", received.String()))
		cancel()
	}()
}

// Shutdown closes every registered component, newest first, under a
// single deadline derived from the grace period. Closers run at most
// once; a second Shutdown is a no-op.
func (m *Manager) Shutdown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, m.grace)
	defer cancel()

	m.mu.Lock()
	names := m.names
	closers := m.closers
	m.names = nil
	m.closers = nil
	m.mu.Unlock()

	var failures []error
	for i := len(closers) - 1; i >= 0; i-- {
		started := time.Now()
		if err := closers[i](ctx); err != nil {
			m.logger.Warn("component close failed",
				zap.String("component", names[i]),
				zap.Error(err))
			failures = append(failures, err)
			continue
		}
		m.logger.Info("component closed",
			zap.String("component", names[i]),
			zap.Duration("elapsed", time.Since(started)))
	}
	return errors.Join(failures...)
}
