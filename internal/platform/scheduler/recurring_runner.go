package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	portssvc "github.com/finbooks/journal-engine/internal/core/ports/services"
	"github.com/finbooks/journal-engine/internal/middleware"
)

// systemActorID is recorded on entries materialized by the scheduler rather
// than by an API caller.
const systemActorID = "system-scheduler"

// RecurringRunner periodically materializes due recurring templates. Each tick
// lists the companies with due templates and fans the per-company runs out to
// a worker pool, so one slow tenant does not stall the rest.
type RecurringRunner struct {
	recurringService portssvc.RecurringSvcFacade
	interval         time.Duration
	pool             *ants.Pool
	logger           *slog.Logger

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func NewRecurringRunner(
	recurringService portssvc.RecurringSvcFacade,
	interval time.Duration,
	workers int,
	logger *slog.Logger,
) (*RecurringRunner, error) {
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, err
	}

	return &RecurringRunner{
		recurringService: recurringService,
		interval:         interval,
		pool:             pool,
		logger:           logger,
		stopCh:           make(chan struct{}),
		doneCh:           make(chan struct{}),
	}, nil
}

// Start launches the ticker loop. It returns immediately; processing happens
// in the background until Stop is called. The first run fires after one full
// interval, not at startup.
func (r *RecurringRunner) Start() {
	r.logger.Info("Recurring runner started",
		slog.Duration("interval", r.interval),
		slog.Int("workers", r.pool.Cap()),
	)

	go func() {
		defer close(r.doneCh)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-r.stopCh:
				return
			case <-ticker.C:
				r.runOnce()
			}
		}
	}()
}

// Stop halts the ticker and releases the worker pool. In-flight company runs
// finish before Stop returns.
func (r *RecurringRunner) Stop() {
	r.stopOnce.Do(func() {
		close(r.stopCh)
		<-r.doneCh
		r.logger.Info("Recurring runner stopping", slog.Int("runningWorkers", r.pool.Running()))
		r.pool.Release()
	})
}

func (r *RecurringRunner) runOnce() {
	asOf := time.Now().UTC()
	ctx := middleware.WithLogger(context.Background(), r.logger)

	companyIDs, err := r.recurringService.ListDueCompanies(ctx, asOf)
	if err != nil {
		r.logger.Error("Failed to list companies with due templates", slog.String("error", err.Error()))
		return
	}
	if len(companyIDs) == 0 {
		return
	}

	var wg sync.WaitGroup
	for _, companyID := range companyIDs {
		companyID := companyID
		wg.Add(1)
		err := r.pool.Submit(func() {
			defer wg.Done()
			r.processCompany(ctx, companyID, asOf)
		})
		if err != nil {
			wg.Done()
			r.logger.Error("Failed to submit recurring run to worker pool",
				slog.String("companyID", companyID),
				slog.String("error", err.Error()),
			)
		}
	}
	wg.Wait()
}

func (r *RecurringRunner) processCompany(ctx context.Context, companyID string, asOf time.Time) {
	logger := r.logger.With(slog.String("companyID", companyID))
	runCtx := middleware.WithLogger(ctx, logger)

	result, err := r.recurringService.ProcessRecurring(runCtx, companyID, asOf, systemActorID)
	if err != nil {
		logger.Error("Recurring run failed", slog.String("error", err.Error()))
		return
	}

	if len(result.Created) > 0 || len(result.Errors) > 0 {
		logger.Info("Recurring run completed",
			slog.Int("created", len(result.Created)),
			slog.Int("failed", len(result.Errors)),
		)
	}
}
