package cronjob

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifelevels/journal-backend/internal/logging"
	"github.com/lifelevels/journal-backend/internal/recommendations/backfill"
)

type countingJob struct {
	runs  atomic.Int32
	err   error
	reqID atomic.Value
}

func (j *countingJob) Run(ctx context.Context) (*backfill.Summary, error) {
	j.runs.Add(1)
	j.reqID.Store(logging.RequestIDFromContext(ctx))
	return &backfill.Summary{}, j.err
}

func TestNewScheduler_InvalidSpec(t *testing.T) {
	_, err := NewScheduler("every night", &countingJob{}, 0)
	assert.ErrorContains(t, err, "invalid cron spec")
}

func TestNewScheduler_DefaultSpec(t *testing.T) {
	s, err := NewScheduler("", &countingJob{}, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultSpec, s.spec)
}

func TestScheduler_RunsJob(t *testing.T) {
	job := &countingJob{err: errors.New("partial failure")}
	s, err := NewScheduler("* * * * * *", job, time.Minute)
	require.NoError(t, err)

	s.Start()
	assert.Eventually(t, func() bool { return job.runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
	<-s.Stop().Done()

	assert.Regexp(t, `^backfill-`, job.reqID.Load())
}
