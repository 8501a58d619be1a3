package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMutationLockAcquireRelease(t *testing.T) {
	lock := NewMutationLock(time.Second, nil)

	require.NoError(t, lock.Acquire(context.Background()))
	lock.Release()
	require.NoError(t, lock.Acquire(context.Background()))
	lock.Release()
}

func TestMutationLockTimesOutWhenHeld(t *testing.T) {
	lock := NewMutationLock(30*time.Millisecond, nil)
	require.NoError(t, lock.Acquire(context.Background()))

	err := lock.Acquire(context.Background())
	require.ErrorIs(t, err, ErrLockTimeout)

	lock.Release()
	require.NoError(t, lock.Acquire(context.Background()))
	lock.Release()
}

func TestMutationLockContextCancel(t *testing.T) {
	lock := NewMutationLock(time.Minute, nil)
	require.NoError(t, lock.Acquire(context.Background()))
	defer lock.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, lock.Acquire(ctx), ErrLockTimeout)
}

func TestMutationLockReleaseUnheldIsNoop(t *testing.T) {
	lock := NewMutationLock(time.Second, nil)
	lock.Release()
	lock.Release()

	require.NoError(t, lock.Acquire(context.Background()))

	// the releases above must not have freed a phantom slot
	err := lock.Acquire(contextWithShortDeadline(t))
	require.ErrorIs(t, err, ErrLockTimeout)
	lock.Release()
}

func TestMutationLockSerializes(t *testing.T) {
	lock := NewMutationLock(time.Second, nil)
	require.NoError(t, lock.Acquire(context.Background()))

	entered := make(chan struct{})
	go func() {
		if err := lock.Acquire(context.Background()); err == nil {
			close(entered)
		}
	}()

	select {
	case <-entered:
		t.Fatal("second acquire succeeded while lock was held")
	case <-time.After(50 * time.Millisecond):
	}

	lock.Release()
	select {
	case <-entered:
	case <-time.After(time.Second):
		t.Fatal("second acquire never completed after release")
	}
	lock.Release()
}

func contextWithShortDeadline(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	t.Cleanup(cancel)
	return ctx
}
