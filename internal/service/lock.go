package service

import (
	"context"
	"errors"
	"time"

	"github.com/spec-kit/intake-service/internal/observability"
)

// ErrLockTimeout signals that the mutation gate could not be acquired in
// time. The operation has made no writes and is safe to retry.
var ErrLockTimeout = errors.New("mutation lock acquisition timed out")

// MutationLock is the single process-wide gate serializing every ticket
// mutation. Creation and update share the one lock; reads never take it.
type MutationLock struct {
	slot    chan struct{}
	timeout time.Duration
	metrics *observability.Metrics
}

// NewMutationLock builds the gate with a bounded acquisition timeout.
func NewMutationLock(timeout time.Duration, metrics *observability.Metrics) *MutationLock {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &MutationLock{
		slot:    make(chan struct{}, 1),
		timeout: timeout,
		metrics: metrics,
	}
}

// Acquire blocks until the gate is free, the timeout elapses, or ctx is
// cancelled. Timeout and cancellation both surface as ErrLockTimeout since
// either way the caller holds nothing and has written nothing.
func (l *MutationLock) Acquire(ctx context.Context) error {
	start := time.Now()
	timer := time.NewTimer(l.timeout)
	defer timer.Stop()

	select {
	case l.slot <- struct{}{}:
		l.metrics.RecordLockWait(time.Since(start))
		return nil
	case <-timer.C:
		l.metrics.RecordLockTimeout()
		return ErrLockTimeout
	case <-ctx.Done():
		l.metrics.RecordLockTimeout()
		return ErrLockTimeout
	}
}

// Release frees the gate. Releasing an unheld lock is a no-op so that a
// deferred release is always safe.
func (l *MutationLock) Release() {
	select {
	case <-l.slot:
	default:
	}
}
