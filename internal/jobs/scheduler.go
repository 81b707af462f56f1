package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/durgapur-services/marketplace-backend/internal/platform/logger"
)

// ViewBuffer holds view counts not yet written to the providers table.
type ViewBuffer interface {
	Drain(ctx context.Context) (map[string]int64, error)
	Restore(ctx context.Context, id string, n int64) error
}

type ProviderCounters interface {
	AddViews(ctx context.Context, id string, n int64) error
	RecomputeAllRatings(ctx context.Context) (int64, error)
}

// jobTimeout bounds a single run so a stuck database never piles up runs.
const jobTimeout = 2 * time.Minute

type Scheduler struct {
	cron      *cron.Cron
	views     ViewBuffer
	providers ProviderCounters
	log       *slog.Logger
}

func NewScheduler(views ViewBuffer, providers ProviderCounters) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		views:     views,
		providers: providers,
		log:       logger.Log.With("component", "jobs"),
	}
}

// AddFunc runs fn on spec (six fields, seconds first, or a descriptor
// such as "@every 5m").
func (s *Scheduler) AddFunc(name, spec string, fn func(context.Context) error) error {
	if _, err := s.cron.AddFunc(spec, func() { s.run(name, fn) }); err != nil {
		return fmt.Errorf("invalid %s schedule %q: %w", name, spec, err)
	}
	return nil
}

// ScheduleMaintenance registers the view flush and the rating
// reconciliation.
func (s *Scheduler) ScheduleMaintenance(viewFlushSpec, ratingSpec string) error {
	if err := s.AddFunc("flush_views", viewFlushSpec, s.FlushViews); err != nil {
		return err
	}
	if err := s.AddFunc("reconcile_ratings", ratingSpec, s.ReconcileRatings); err != nil {
		return err
	}
	s.log.Info("maintenance jobs scheduled", "view_flush", viewFlushSpec, "ratings", ratingSpec)
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop waits for running jobs, then flushes views one last time.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn("scheduler stop timed out")
		return
	}
	if err := s.FlushViews(ctx); err != nil {
		s.log.Error("final view flush failed", "error", err)
	}
}

func (s *Scheduler) run(name string, job func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	if err := job(ctx); err != nil {
		s.log.Error("job failed", "job", name, "error", err)
		return
	}
	s.log.Debug("job finished", "job", name, "took", time.Since(start))
}

// FlushViews moves buffered view counts into the providers table. Counts
// that fail to persist are put back for the next run.
func (s *Scheduler) FlushViews(ctx context.Context) error {
	pending, err := s.views.Drain(ctx)
	if err != nil && len(pending) == 0 {
		return err
	}

	var failed int
	for id, n := range pending {
		if addErr := s.providers.AddViews(ctx, id, n); addErr != nil {
			failed++
			s.log.Warn("view flush failed, restoring", "provider_id", id, "views", n, "error", addErr)
			if rErr := s.views.Restore(context.WithoutCancel(ctx), id, n); rErr != nil {
				s.log.Error("views lost", "provider_id", id, "views", n, "error", rErr)
			}
		}
	}

	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d view counters not flushed", failed, len(pending))
	}
	if len(pending) > 0 {
		s.log.Info("views flushed", "providers", len(pending))
	}
	return nil
}

// ReconcileRatings recomputes every provider rating from its reviews.
func (s *Scheduler) ReconcileRatings(ctx context.Context) error {
	n, err := s.providers.RecomputeAllRatings(ctx)
	if err != nil {
		return err
	}
	s.log.Info("ratings reconciled", "providers", n)
	return nil
}
