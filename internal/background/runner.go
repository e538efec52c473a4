package background

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Sweeper is the expiration job the runner drives
type Sweeper interface {
	SweepExpired(ctx context.Context) (int64, error)
}

// Runner manages the periodic lease expiration sweep
type Runner struct {
	sweeper     Sweeper
	interval    time.Duration
	logger      *logrus.Entry
	stopCh      chan struct{}
	wg          sync.WaitGroup
	sweepTicker *time.Ticker
	onSwept     func(count int64)
}

// NewRunner creates a new background runner
func NewRunner(sweeper Sweeper, interval time.Duration, logger *logrus.Logger) *Runner {
	return &Runner{
		sweeper:  sweeper,
		interval: interval,
		logger:   logger.WithField("component", "background"),
		stopCh:   make(chan struct{}),
	}
}

// SetSweepCallback registers a callback invoked after each sweep with the
// number of leases expired. Used to feed metrics.
func (r *Runner) SetSweepCallback(fn func(count int64)) {
	r.onSwept = fn
}

// Start begins the background job processing
func (r *Runner) Start() {
	r.sweepTicker = time.NewTicker(r.interval)
	r.logger.WithField("interval", r.interval).Info("Lease expiration sweep scheduled")

	r.wg.Add(1)
	go r.runSweepJob()
}

// Stop gracefully stops all background jobs
func (r *Runner) Stop() {
	close(r.stopCh)

	if r.sweepTicker != nil {
		r.sweepTicker.Stop()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("Background runner stopped")
	case <-time.After(30 * time.Second):
		r.logger.Warn("Background runner stop timeout, forcing shutdown")
	}
}

// runSweepJob runs the expiration sweep periodically
func (r *Runner) runSweepJob() {
	defer r.wg.Done()

	// Run immediately on start to catch leases that expired while the
	// service was down.
	r.executeSweep()

	for {
		select {
		case <-r.stopCh:
			return
		case <-r.sweepTicker.C:
			r.executeSweep()
		}
	}
}

// executeSweep performs a single sweep
func (r *Runner) executeSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	swept, err := r.sweeper.SweepExpired(ctx)
	if err != nil {
		r.logger.WithError(err).Error("Lease expiration sweep failed")
		return
	}

	if r.onSwept != nil {
		r.onSwept(swept)
	}
}

// RunOnce runs the sweep once (for manual trigger)
func (r *Runner) RunOnce(ctx context.Context) (int64, error) {
	return r.sweeper.SweepExpired(ctx)
}
