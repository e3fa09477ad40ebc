package server

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrBusy is returned when no worker slot frees up before the call's deadline.
	ErrBusy = errors.New("server is busy, try again later")

	// ErrTimeout is returned when a call runs past its deadline.
	ErrTimeout = errors.New("request timed out")
)

// Pool bounds how many hide/extract calls run at once and how long a caller waits for one.
//
// A call that times out returns to its caller immediately. Its slot stays taken
// until the work itself returns, so abandoned KDF runs still count toward the limit.
type Pool struct {
	slots   chan struct{}
	timeout time.Duration
	metrics *Metrics
}

// NewPool returns a pool with size slots and a per-call timeout.
func NewPool(size int, timeout time.Duration, metrics *Metrics) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{
		slots:   make(chan struct{}, size),
		timeout: timeout,
		metrics: metrics,
	}
}

// Do runs fn on a worker slot. The context passed to fn carries the call deadline.
//
// Returns ErrBusy when the deadline passes before a slot frees up, ErrTimeout when
// fn runs past it, and context.Canceled when the caller's context is cancelled.
func (p *Pool) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)

	select {
	case p.slots <- struct{}{}:
	case <-ctx.Done():
		err := ctx.Err()
		cancel()
		if errors.Is(err, context.Canceled) {
			return err
		}
		return ErrBusy
	}
	p.metrics.workersBusy.Inc()

	done := make(chan error, 1)
	go func() {
		err := fn(ctx)
		<-p.slots
		p.metrics.workersBusy.Dec()
		done <- err
		cancel()
	}()

	select {
	case err := <-done:
		return mapDeadline(err)
	case <-ctx.Done():
		// The work may have finished just as the deadline fired.
		select {
		case err := <-done:
			return mapDeadline(err)
		default:
		}
		return mapDeadline(ctx.Err())
	}
}

func mapDeadline(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	return err
}

// InUse reports how many slots are taken.
func (p *Pool) InUse() int {
	return len(p.slots)
}
