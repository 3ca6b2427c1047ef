package keymutex

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireRelease(t *testing.T) {
	r := NewRegistry(0)

	release, err := r.Acquire(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, 1, r.Len())

	release()
	assert.Equal(t, 0, r.Len())
}

func TestMutualExclusion(t *testing.T) {
	r := NewRegistry(0)

	const workers = 16
	var inSection, maxInSection int
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			release, err := r.Acquire(context.Background(), "goal-1")
			if !assert.NoError(t, err) {
				return
			}
			defer release()

			mu.Lock()
			inSection++
			if inSection > maxInSection {
				maxInSection = inSection
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inSection--
			mu.Unlock()
		}()
	}

	wg.Wait()
	assert.Equal(t, 1, maxInSection)
	assert.Equal(t, 0, r.Len(), "entries should be reclaimed once uncontended")
}

func TestIndependentKeys(t *testing.T) {
	r := NewRegistry(0)

	releaseA, err := r.Acquire(context.Background(), "a")
	require.NoError(t, err)
	defer releaseA()

	// A held lock on "a" must not delay "b".
	done := make(chan struct{})
	go func() {
		releaseB, err := r.Acquire(context.Background(), "b")
		assert.NoError(t, err)
		releaseB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("acquire on independent key blocked")
	}
}

func TestAcquireTimeout(t *testing.T) {
	r := NewRegistry(20 * time.Millisecond)

	release, err := r.Acquire(context.Background(), "a")
	require.NoError(t, err)

	_, err = r.Acquire(context.Background(), "a")
	assert.ErrorIs(t, err, ErrWaitTimeout)

	// The failed waiter must not leak a registry entry refcount: after the
	// holder releases, the key is reclaimed.
	release()
	assert.Equal(t, 0, r.Len())
}

func TestAcquireContextCanceled(t *testing.T) {
	r := NewRegistry(0)

	release, err := r.Acquire(context.Background(), "a")
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err = r.Acquire(ctx, "a")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWaitersServedAfterRelease(t *testing.T) {
	r := NewRegistry(0)

	release, err := r.Acquire(context.Background(), "a")
	require.NoError(t, err)

	const waiters = 8
	var wg sync.WaitGroup
	served := make(chan struct{}, waiters)
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rel, err := r.Acquire(context.Background(), "a")
			if !assert.NoError(t, err) {
				return
			}
			served <- struct{}{}
			rel()
		}()
	}

	release()
	wg.Wait()
	assert.Len(t, served, waiters)
	assert.Equal(t, 0, r.Len())
}
