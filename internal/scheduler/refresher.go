// Package scheduler runs the background jobs of the server process.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// SnapshotRefresher rebuilds cached cumulative series.
type SnapshotRefresher interface {
	RefreshAll(ctx context.Context) (int, error)
}

// Refresher rebuilds the snapshot cache on a cron schedule. Runs never
// overlap: a tick that fires while the previous run is busy is skipped.
type Refresher struct {
	snapshots SnapshotRefresher
	logger    *slog.Logger
	cron      *cron.Cron

	mu      sync.Mutex
	entryID cron.EntryID
	lastRun time.Time
	lastErr error
}

var parser = cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// NewRefresher returns a stopped Refresher; call Start to schedule it.
func NewRefresher(snapshots SnapshotRefresher, logger *slog.Logger) *Refresher {
	if logger == nil {
		logger = slog.Default()
	}
	cl := cronLogger{logger: logger}
	return &Refresher{
		snapshots: snapshots,
		logger:    logger,
		cron: cron.New(
			cron.WithParser(parser),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
	}
}

// ValidateSpec reports whether spec is a schedule the refresher accepts.
func ValidateSpec(spec string) error {
	if _, err := parser.Parse(spec); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}
	return nil
}

// Start schedules RunOnce on spec and starts the cron loop. An empty spec
// leaves the refresher idle.
func (r *Refresher) Start(ctx context.Context, spec string) error {
	if spec == "" {
		r.logger.Info("snapshot refresh disabled")
		return nil
	}
	if err := ValidateSpec(spec); err != nil {
		return err
	}
	id, err := r.cron.AddFunc(spec, func() { r.RunOnce(ctx) })
	if err != nil {
		return fmt.Errorf("scheduling snapshot refresh: %w", err)
	}

	r.mu.Lock()
	r.entryID = id
	r.mu.Unlock()

	r.cron.Start()
	r.logger.Info("snapshot refresh scheduled", "schedule", spec, "next", r.cron.Entry(id).Next)
	return nil
}

// Stop halts the cron loop and waits for a running refresh to finish.
func (r *Refresher) Stop() {
	<-r.cron.Stop().Done()
}

// RunOnce rebuilds every active project's cache now.
func (r *Refresher) RunOnce(ctx context.Context) {
	start := time.Now()
	n, err := r.snapshots.RefreshAll(ctx)

	r.mu.Lock()
	r.lastRun = start
	r.lastErr = err
	r.mu.Unlock()

	if err != nil {
		r.logger.Error("snapshot refresh failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		return
	}
	r.logger.Info("snapshot refresh done", "projects", n, "duration_ms", time.Since(start).Milliseconds())
}

// LastRun returns when the last refresh started and how it ended.
func (r *Refresher) LastRun() (time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastRun, r.lastErr
}

// cronLogger routes cron's own messages to slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
