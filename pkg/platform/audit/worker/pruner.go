package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	audit "spotter/pkg/platform/audit"
)

// Pruner deletes published outbox rows older than the retention window on a
// cron schedule.
type Pruner struct {
	outbox    audit.Outbox
	retention time.Duration
	cron      *cron.Cron
	logger    *slog.Logger
	clock     func() time.Time
	timeout   time.Duration
}

func NewPruner(outbox audit.Outbox, retention time.Duration, schedule string, logger *slog.Logger) (*Pruner, error) {
	if outbox == nil {
		return nil, errors.New("outbox is required")
	}
	if retention <= 0 {
		return nil, errors.New("retention must be positive")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	p := &Pruner{
		outbox:    outbox,
		retention: retention,
		cron:      cron.New(),
		logger:    logger,
		clock:     time.Now,
		timeout:   30 * time.Second,
	}
	if _, err := p.cron.AddFunc(schedule, p.runScheduled); err != nil {
		return nil, fmt.Errorf("schedule outbox pruning %q: %w", schedule, err)
	}
	return p, nil
}

// Start runs the schedule in the background.
func (p *Pruner) Start() {
	p.cron.Start()
}

// Stop halts the schedule and returns a context that is done once a running
// prune finishes.
func (p *Pruner) Stop() context.Context {
	return p.cron.Stop()
}

// PruneOnce deletes rows processed before now minus retention.
func (p *Pruner) PruneOnce(ctx context.Context) (int64, error) {
	cutoff := p.clock().Add(-p.retention)
	n, err := p.outbox.DeleteProcessedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		p.logger.InfoContext(ctx, "pruned outbox", "rows", n, "cutoff", cutoff)
	}
	return n, nil
}

func (p *Pruner) runScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	if _, err := p.PruneOnce(ctx); err != nil {
		p.logger.Error("outbox pruning failed", "error", err)
	}
}
