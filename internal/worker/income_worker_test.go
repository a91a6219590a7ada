package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCrediter struct {
	mu      sync.Mutex
	calls   int
	elapsed []time.Duration
	err     error
}

func (f *fakeCrediter) CreditPassiveIncome(_ context.Context, elapsed time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.elapsed = append(f.elapsed, elapsed)
	return 42, f.err
}

func (f *fakeCrediter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestIncomeWorkerTicks(t *testing.T) {
	crediter := &fakeCrediter{}
	pool := NewPool(1, 4)
	pool.Start()
	defer pool.Stop()

	w := NewIncomeWorker(crediter, pool, 10*time.Millisecond)
	w.Start()

	require.Eventually(t, func() bool {
		return crediter.callCount() >= 2
	}, time.Second, 5*time.Millisecond)

	w.Stop()

	crediter.mu.Lock()
	defer crediter.mu.Unlock()
	for _, e := range crediter.elapsed {
		assert.Greater(t, e, time.Duration(0))
	}
}

func TestIncomeWorkerSurvivesErrors(t *testing.T) {
	crediter := &fakeCrediter{err: errors.New("db down")}
	pool := NewPool(1, 4)
	pool.Start()
	defer pool.Stop()

	w := NewIncomeWorker(crediter, pool, 10*time.Millisecond)
	w.Start()

	// A failing credit must not stop subsequent ticks.
	require.Eventually(t, func() bool {
		return crediter.callCount() >= 3
	}, time.Second, 5*time.Millisecond)

	w.Stop()
}

func TestPoolRunsJobs(t *testing.T) {
	pool := NewPool(2, 4)
	pool.Start()

	var mu sync.Mutex
	ran := 0
	done := make(chan struct{})
	for i := 0; i < 4; i++ {
		pool.Enqueue(jobFunc(func(context.Context) error {
			mu.Lock()
			ran++
			if ran == 4 {
				close(done)
			}
			mu.Unlock()
			return nil
		}))
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("jobs did not finish")
	}
	pool.Stop()
}

type jobFunc func(ctx context.Context) error

func (f jobFunc) Process(ctx context.Context) error { return f(ctx) }
