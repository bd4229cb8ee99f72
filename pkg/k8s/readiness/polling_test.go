package readiness_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mdpipeline/mdpctl/pkg/k8s/readiness"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollForReadinessEvery_FirstProbeImmediate(t *testing.T) {
	t.Parallel()

	calls := 0
	start := time.Now()

	err := readiness.PollForReadinessEvery(context.Background(), time.Hour, time.Minute,
		func(context.Context) (bool, error) {
			calls++

			return true, nil
		})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Less(t, time.Since(start), time.Second)
}

func TestPollForReadinessEvery_Timeout(t *testing.T) {
	t.Parallel()

	err := readiness.PollForReadinessEvery(context.Background(), 5*time.Millisecond, 30*time.Millisecond,
		func(context.Context) (bool, error) { return false, nil })

	require.ErrorIs(t, err, readiness.ErrTimeoutExceeded)
}

func TestPollForReadinessEvery_ConditionError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")

	err := readiness.PollForReadinessEvery(context.Background(), 5*time.Millisecond, time.Second,
		func(context.Context) (bool, error) { return false, boom })

	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, readiness.ErrTimeoutExceeded)
}

func TestPollForReadinessEvery_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := readiness.PollForReadinessEvery(ctx, 5*time.Millisecond, time.Second,
		func(context.Context) (bool, error) { return false, nil })

	require.ErrorIs(t, err, context.Canceled)
}

func TestPollForReadiness_UsesDefaultInterval(t *testing.T) {
	t.Parallel()

	calls := 0

	err := readiness.PollForReadiness(context.Background(), 50*time.Millisecond,
		func(context.Context) (bool, error) {
			calls++

			return false, nil
		})

	require.ErrorIs(t, err, readiness.ErrTimeoutExceeded)
	assert.Equal(t, 1, calls, "the default 10s interval leaves room for the immediate probe only")
}
