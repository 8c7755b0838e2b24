// Package reminder announces due task reminders. The scanner only reads
// the task collections and writes to its own journal; it never mutates
// tasks and never interprets the recurring descriptor.
package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/selfmastery/backend/internal/infrastructure/journal"
	"github.com/selfmastery/backend/repository"
)

// ScannerConfig controls scan frequency and journal retention.
type ScannerConfig struct {
	Interval  time.Duration
	Retention time.Duration
}

// Scanner periodically finds due, uncompleted reminders and announces
// each one exactly once per reminder timestamp.
type Scanner struct {
	tasks   repository.TaskRepository
	journal *journal.Store
	logger  *zap.Logger
	cron    *cron.Cron
	cfg     ScannerConfig
}

func NewScanner(tasks repository.TaskRepository, jrnl *journal.Store, logger *zap.Logger, cfg ScannerConfig) (*Scanner, error) {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 72 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Scanner{
		tasks:   tasks,
		journal: jrnl,
		logger:  logger,
		cfg:     cfg,
		cron:    cron.New(cron.WithSeconds()),
	}

	// The schedule has whole-second granularity; shorter intervals
	// round up so the expression stays valid.
	seconds := int(cfg.Interval.Seconds())
	if seconds < 1 {
		seconds = 1
	}
	schedule := fmt.Sprintf("@every %ds", seconds)
	if _, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := s.Scan(ctx, time.Now()); err != nil {
			s.logger.Error("reminder scan failed", zap.Error(err))
		}
	}); err != nil {
		return nil, err
	}

	return s, nil
}

// Start launches the cron scheduler.
func (s *Scanner) Start() {
	if s == nil || s.cron == nil {
		return
	}
	s.cron.Start()
	s.logger.Info("reminder scanner started")
}

// Stop gracefully stops the scheduler.
func (s *Scanner) Stop(ctx context.Context) {
	if s == nil || s.cron == nil {
		return
	}
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	s.logger.Info("reminder scanner stopped")
}

// Scan announces every reminder due at the given instant that has not
// been announced before, then expires old journal entries.
func (s *Scanner) Scan(ctx context.Context, now time.Time) error {
	due, err := s.tasks.DueReminders(ctx, now)
	if err != nil {
		return err
	}

	for _, task := range due {
		if task.Reminder == nil {
			continue
		}
		first, err := s.journal.MarkOnce(task.ID, *task.Reminder)
		if err != nil {
			s.logger.Warn("journal write failed", zap.String("task_id", task.ID), zap.Error(err))
			continue
		}
		if !first {
			continue
		}
		s.logger.Info("task reminder due",
			zap.String("task_id", task.ID),
			zap.String("list_name", task.ListName),
			zap.String("title", task.Title),
			zap.Time("reminder", *task.Reminder))
	}

	return s.journal.Cleanup(now.Add(-s.cfg.Retention))
}
