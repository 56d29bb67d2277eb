package queue

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

const channelBuffer = 256

// ErrPoolStopped is returned by Do once the pool has been stopped.
var ErrPoolStopped = errors.New("worker pool stopped")

type job struct {
	ctx  context.Context
	fn   func()
	done chan struct{}
}

// Pool runs CPU-bound jobs on a fixed set of worker goroutines so callers
// cannot exceed the configured parallelism.
type Pool struct {
	jobs    chan job
	workers int
	depth   prometheus.Gauge
	log     zerolog.Logger

	stopOnce sync.Once
	stopped  chan struct{}
	wg       sync.WaitGroup
}

// NewPool creates a Pool with numWorkers workers.
// If numWorkers <= 0, runtime.NumCPU() is used. depth may be nil.
func NewPool(numWorkers int, depth prometheus.Gauge, log zerolog.Logger) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &Pool{
		jobs:    make(chan job, channelBuffer),
		workers: numWorkers,
		depth:   depth,
		log:     log,
		stopped: make(chan struct{}),
	}
}

// Start launches all worker goroutines. Cancelling ctx stops the pool the same
// way Stop does: waiting and later callers get ErrPoolStopped.
func (p *Pool) Start(ctx context.Context) {
	p.log.Debug().Int("workers", p.workers).Msg("starting worker pool")
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.runWorker(i)
	}
	go func() {
		select {
		case <-ctx.Done():
			p.log.Debug().Msg("worker pool context cancelled")
			p.close()
		case <-p.stopped:
		}
	}()
}

// Stop signals all workers to exit and waits for running jobs to finish.
func (p *Pool) Stop() {
	p.close()
	p.wg.Wait()
}

func (p *Pool) close() {
	p.stopOnce.Do(func() { close(p.stopped) })
}

// Do runs fn on a worker and blocks until it returns. If ctx ends while the
// job is still queued, Do returns ctx.Err() and fn is never run.
func (p *Pool) Do(ctx context.Context, fn func()) error {
	j := job{ctx: ctx, fn: fn, done: make(chan struct{})}

	select {
	case <-p.stopped:
		return ErrPoolStopped
	default:
	}

	select {
	case <-p.stopped:
		return ErrPoolStopped
	case <-ctx.Done():
		return ctx.Err()
	case p.jobs <- j:
		p.gaugeAdd(1)
	}

	select {
	case <-j.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.stopped:
		return ErrPoolStopped
	}
}

func (p *Pool) runWorker(id int) {
	defer p.wg.Done()
	for {
		select {
		case <-p.stopped:
			return
		case j := <-p.jobs:
			p.gaugeAdd(-1)
			if j.ctx.Err() != nil {
				p.log.Debug().Int("worker_id", id).Msg("skipping job for cancelled caller")
				continue
			}
			j.fn()
			close(j.done)
		}
	}
}

func (p *Pool) gaugeAdd(v float64) {
	if p.depth != nil {
		p.depth.Add(v)
	}
}
