package background

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSweeper struct {
	mu    sync.Mutex
	calls int
	swept int64
	err   error
}

func (s *stubSweeper) SweepExpired(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.swept, s.err
}

func (s *stubSweeper) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestRunnerSweepsImmediatelyAndPeriodically(t *testing.T) {
	sweeper := &stubSweeper{swept: 3}
	runner := NewRunner(sweeper, 10*time.Millisecond, quietLogger())

	var mu sync.Mutex
	var counts []int64
	runner.SetSweepCallback(func(count int64) {
		mu.Lock()
		counts = append(counts, count)
		mu.Unlock()
	})

	runner.Start()
	defer runner.Stop()

	require.Eventually(t, func() bool {
		return sweeper.callCount() >= 3
	}, time.Second, 5*time.Millisecond, "expected the immediate sweep plus ticker sweeps")

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, counts)
	assert.Equal(t, int64(3), counts[0])
}

func TestRunnerStopHaltsSweeping(t *testing.T) {
	sweeper := &stubSweeper{}
	runner := NewRunner(sweeper, 5*time.Millisecond, quietLogger())

	runner.Start()
	require.Eventually(t, func() bool {
		return sweeper.callCount() >= 1
	}, time.Second, time.Millisecond)

	runner.Stop()
	calls := sweeper.callCount()
	time.Sleep(25 * time.Millisecond)
	assert.Equal(t, calls, sweeper.callCount())
}

func TestRunnerCallbackSkippedOnError(t *testing.T) {
	sweeper := &stubSweeper{err: errors.New("db down")}
	runner := NewRunner(sweeper, time.Hour, quietLogger())

	called := false
	runner.SetSweepCallback(func(int64) { called = true })

	runner.Start()
	require.Eventually(t, func() bool {
		return sweeper.callCount() >= 1
	}, time.Second, time.Millisecond)
	runner.Stop()

	assert.False(t, called)
}

func TestRunOnce(t *testing.T) {
	sweeper := &stubSweeper{swept: 7}
	runner := NewRunner(sweeper, time.Hour, quietLogger())

	swept, err := runner.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), swept)
	assert.Equal(t, 1, sweeper.callCount())
}
