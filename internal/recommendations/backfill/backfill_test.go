package backfill

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifelevels/journal-backend/internal/recommendations/domain"
)

type fakeUsers struct {
	ids   []string
	err   error
	asked int
}

func (f *fakeUsers) UsersWithAtLeast(_ context.Context, n int) ([]string, error) {
	f.asked = n
	return f.ids, f.err
}

type fakeGenerator struct {
	results map[string]*domain.Result
	errs    map[string]error
	calls   []string
	cancel  context.CancelFunc
}

func (f *fakeGenerator) Generate(_ context.Context, userID string, requestedCount int) (*domain.Result, error) {
	f.calls = append(f.calls, userID)
	if f.cancel != nil {
		f.cancel()
	}
	if err := f.errs[userID]; err != nil {
		return nil, err
	}
	return f.results[userID], nil
}

func TestRun_CountsOutcomesAndContinuesPastFailures(t *testing.T) {
	users := &fakeUsers{ids: []string{"a", "b", "c", "d", "e"}}
	gen := &fakeGenerator{
		results: map[string]*domain.Result{
			"a": {Outcome: domain.OutcomeGenerated},
			"c": {Outcome: domain.OutcomeStored},
			"d": {Outcome: domain.OutcomeFallback},
		},
		errs: map[string]error{
			"b": errors.New("llm down"),
			"e": &domain.ThresholdError{Count: 9, Remaining: 1},
		},
	}

	sum, err := New(users, gen).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 10, users.asked)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, gen.calls)
	assert.Equal(t, 5, sum.Users)
	assert.Equal(t, 1, sum.Generated)
	assert.Equal(t, 2, sum.Unchanged)
	assert.Equal(t, 1, sum.Fallback)
	assert.Equal(t, 1, sum.Failed)
}

func TestRun_ListError(t *testing.T) {
	_, err := New(&fakeUsers{err: errors.New("db down")}, &fakeGenerator{}).Run(context.Background())
	assert.EqualError(t, err, "db down")
}

func TestRun_StopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	gen := &fakeGenerator{
		results: map[string]*domain.Result{"a": {Outcome: domain.OutcomeGenerated}},
		cancel:  cancel,
	}

	sum, err := New(&fakeUsers{ids: []string{"a", "b"}}, gen).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"a"}, gen.calls)
	assert.Equal(t, 1, sum.Generated)
}
