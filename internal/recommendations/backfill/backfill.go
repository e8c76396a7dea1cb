// Package backfill serves recommendations to users who crossed a milestone without asking for them.
package backfill

import (
	"context"
	"errors"
	"time"

	"github.com/lifelevels/journal-backend/internal/levels"
	"github.com/lifelevels/journal-backend/internal/logging"
	"github.com/lifelevels/journal-backend/internal/metrics"
	"github.com/lifelevels/journal-backend/internal/recommendations/domain"
)

type EligibleUsers interface {
	UsersWithAtLeast(ctx context.Context, n int) ([]string, error)
}

type Generator interface {
	Generate(ctx context.Context, userID string, requestedCount int) (*domain.Result, error)
}

// Summary counts users by result for one run.
type Summary struct {
	Users     int
	Generated int
	Unchanged int
	Fallback  int
	Failed    int
	Duration  time.Duration
}

type Backfiller struct {
	users EligibleUsers
	gen   Generator
}

func New(users EligibleUsers, gen Generator) *Backfiller {
	return &Backfiller{users: users, gen: gen}
}

// Run calls Generate for every user at or past the unlock threshold. One user's failure does not stop the run;
// only a failure to list users or a cancelled ctx is returned.
func (b *Backfiller) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	ids, err := b.users.UsersWithAtLeast(ctx, levels.UnlockThreshold)
	if err != nil {
		return nil, err
	}

	sum := &Summary{Users: len(ids)}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			sum.Duration = time.Since(start)
			return sum, err
		}

		res, err := b.gen.Generate(ctx, id, 0)
		switch {
		case err != nil && (errors.Is(err, domain.ErrNoContent) || errors.Is(err, domain.ErrBelowThreshold)):
			// content deleted since the user list was read
			sum.Unchanged++
			metrics.BackfillRuns.WithLabelValues("skipped").Inc()
		case err != nil:
			sum.Failed++
			metrics.BackfillRuns.WithLabelValues("failed").Inc()
			logging.Ctx(ctx).Error().Err(err).Str("user_id", id).Msg("backfill user")
		case res.Outcome == domain.OutcomeGenerated:
			sum.Generated++
			metrics.BackfillRuns.WithLabelValues("generated").Inc()
		case res.Outcome == domain.OutcomeFallback:
			sum.Fallback++
			metrics.BackfillRuns.WithLabelValues("fallback").Inc()
		default:
			sum.Unchanged++
			metrics.BackfillRuns.WithLabelValues("unchanged").Inc()
		}
	}

	sum.Duration = time.Since(start)
	logging.Ctx(ctx).Info().
		Int("users", sum.Users).
		Int("generated", sum.Generated).
		Int("unchanged", sum.Unchanged).
		Int("fallback", sum.Fallback).
		Int("failed", sum.Failed).
		Dur("duration", sum.Duration).
		Msg("recommendation backfill finished")
	return sum, nil
}
