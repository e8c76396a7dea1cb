package cronjob

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/lifelevels/journal-backend/internal/logging"
	"github.com/lifelevels/journal-backend/internal/recommendations/backfill"
)

// DefaultSpec runs nightly at 12:00 AM.
const DefaultSpec = "0 0 0 * * *"

type Job interface {
	Run(ctx context.Context) (*backfill.Summary, error)
}

type Scheduler struct {
	cron    *cron.Cron
	job     Job
	spec    string
	timeout time.Duration
}

// NewScheduler parses spec (six fields, seconds first). timeout bounds a single run; 0 means none.
func NewScheduler(spec string, job Job, timeout time.Duration) (*Scheduler, error) {
	if spec == "" {
		spec = DefaultSpec
	}
	l := logging.With().Str("component", "cron").Logger()
	s := &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.Recover(cron.PrintfLogger(&l)), cron.SkipIfStillRunning(cron.PrintfLogger(&l))),
		),
		job:     job,
		spec:    spec,
		timeout: timeout,
	}
	if _, err := s.cron.AddFunc(spec, s.runOnce); err != nil {
		return nil, fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	return s, nil
}

// Start initializes cron tasks
func (s *Scheduler) Start() {
	logging.Info().Str("spec", s.spec).Msg("cron scheduler started")
	s.cron.Start()
}

// Stop stops scheduling and returns a context that is done once the running job finishes.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) runOnce() {
	ctx := logging.ContextWithRequestID(context.Background(), "backfill-"+logging.NewRequestID())
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	logging.Ctx(ctx).Info().Msg("nightly backfill started")
	if _, err := s.job.Run(ctx); err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("nightly backfill failed")
	}
}
