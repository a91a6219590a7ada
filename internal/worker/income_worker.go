package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// IncomeCrediter is the slice of the economy service the income worker needs.
type IncomeCrediter interface {
	CreditPassiveIncome(ctx context.Context, elapsed time.Duration) (int64, error)
}

// incomeJob credits one tick's worth of passive income.
type incomeJob struct {
	crediter IncomeCrediter
	elapsed  time.Duration
}

func (j incomeJob) Process(ctx context.Context) error {
	total, err := j.crediter.CreditPassiveIncome(ctx, j.elapsed)
	if err != nil {
		return err
	}
	slog.Debug(LogMsgIncomeTick, "total", total, "elapsed", j.elapsed)
	return nil
}

// IncomeWorker periodically enqueues passive income credits onto the pool.
// Each tick credits income for the real elapsed time since the previous one,
// so a delayed tick never shortchanges players.
type IncomeWorker struct {
	crediter IncomeCrediter
	pool     *Pool
	interval time.Duration

	quit chan struct{}
	wg   sync.WaitGroup
}

// NewIncomeWorker creates an income worker ticking at the given interval.
func NewIncomeWorker(crediter IncomeCrediter, pool *Pool, interval time.Duration) *IncomeWorker {
	return &IncomeWorker{
		crediter: crediter,
		pool:     pool,
		interval: interval,
		quit:     make(chan struct{}),
	}
}

// Start launches the ticker loop.
func (w *IncomeWorker) Start() {
	w.wg.Add(1)
	go w.run()
	slog.Info(LogMsgIncomeWorkerStarted, "interval", w.interval)
}

func (w *IncomeWorker) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case now := <-ticker.C:
			w.pool.Enqueue(incomeJob{crediter: w.crediter, elapsed: now.Sub(last)})
			last = now
		case <-w.quit:
			return
		}
	}
}

// Stop halts the ticker. Jobs already enqueued still run until the pool
// itself is stopped.
func (w *IncomeWorker) Stop() {
	close(w.quit)
	w.wg.Wait()
	slog.Info(LogMsgIncomeWorkerStopped)
}
