package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/bibbank/mortgage-pricing/internal/application/dto"
)

// RateCollector is satisfied by *usecase.CollectRatesUseCase.
type RateCollector interface {
	Execute(ctx context.Context) (dto.IngestRatesResponse, error)
}

// HistoryPurger is satisfied by *usecase.PurgeRateHistoryUseCase.
type HistoryPurger interface {
	Execute(ctx context.Context) (dto.PurgeResponse, error)
}

// jobTimeout bounds a single run.
const jobTimeout = 2 * time.Minute

// Scheduler runs the rate refresh and retention jobs on cron schedules.
type Scheduler struct {
	cron    *cron.Cron
	ctx     context.Context
	collect RateCollector
	purge   HistoryPurger
	logger  *slog.Logger
}

// New creates a scheduler. Jobs derive their context from ctx.
func New(ctx context.Context, collect RateCollector, purge HistoryPurger, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		ctx:     ctx,
		collect: collect,
		purge:   purge,
		logger:  logger,
	}
}

// Register adds the refresh and purge jobs. Specs use six fields, seconds
// first. An empty spec disables that job.
func (s *Scheduler) Register(refreshCron, purgeCron string) error {
	if refreshCron != "" {
		if _, err := s.cron.AddFunc(refreshCron, s.refreshTask); err != nil {
			return fmt.Errorf("register refresh task: %w", err)
		}
	}
	if purgeCron != "" && s.purge != nil {
		if _, err := s.cron.AddFunc(purgeCron, s.purgeTask); err != nil {
			return fmt.Errorf("register purge task: %w", err)
		}
	}
	return nil
}

// Jobs reports how many jobs are registered.
func (s *Scheduler) Jobs() int { return len(s.cron.Entries()) }

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", s.Jobs())
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// RunRefreshNow runs the refresh job synchronously, ahead of the first tick.
func (s *Scheduler) RunRefreshNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	ctx, cancel := context.WithTimeout(s.ctx, jobTimeout)
	defer cancel()

	start := time.Now()
	resp, err := s.collect.Execute(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "scheduled rate refresh failed", "error", err)
		return
	}
	s.logger.InfoContext(ctx, "scheduled rate refresh completed",
		"accepted", resp.Accepted,
		"rejected", len(resp.Rejected),
		"rate_table_id", resp.RateTableID,
		"duration", time.Since(start),
	)
}

func (s *Scheduler) purgeTask() {
	ctx, cancel := context.WithTimeout(s.ctx, jobTimeout)
	defer cancel()

	resp, err := s.purge.Execute(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "scheduled rate history purge failed", "error", err)
		return
	}
	s.logger.InfoContext(ctx, "scheduled rate history purge completed",
		"deleted", resp.Deleted,
		"cutoff", resp.Cutoff,
	)
}
