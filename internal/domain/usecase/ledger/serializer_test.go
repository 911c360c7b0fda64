package ledger

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	errs "github.com/litepremium/coin-engine/internal/domain/error"
	"github.com/litepremium/coin-engine/internal/infrastructure/adapter/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserSerializerMutualExclusion(t *testing.T) {
	s := NewUserSerializer(0, logger.NewNoopLogger())
	defer s.Shutdown()

	var active int32
	var violations int32
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Do(context.Background(), 1, func(ctx context.Context) error {
				if atomic.AddInt32(&active, 1) > 1 {
					atomic.AddInt32(&violations, 1)
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&active, -1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}

	wg.Wait()
	assert.Zero(t, atomic.LoadInt32(&violations), "operations for the same user must never overlap")
}

func TestUserSerializerDifferentUsersRunConcurrently(t *testing.T) {
	s := NewUserSerializer(0, logger.NewNoopLogger())
	defer s.Shutdown()

	started := make(chan uint64, 2)
	release := make(chan struct{})

	run := func(userID uint64) {
		_ = s.Do(context.Background(), userID, func(ctx context.Context) error {
			started <- userID
			<-release
			return nil
		})
	}

	go run(1)
	go run(2)

	// Both jobs must be in flight at the same time
	for i := 0; i < 2; i++ {
		select {
		case <-started:
		case <-time.After(2 * time.Second):
			t.Fatal("jobs for different users did not run concurrently")
		}
	}
	close(release)
}

func TestUserSerializerPropagatesResult(t *testing.T) {
	s := NewUserSerializer(0, logger.NewNoopLogger())
	defer s.Shutdown()

	want := assert.AnError
	err := s.Do(context.Background(), 1, func(ctx context.Context) error {
		return want
	})
	assert.ErrorIs(t, err, want)
}

func TestUserSerializerCanceledContext(t *testing.T) {
	s := NewUserSerializer(0, logger.NewNoopLogger())
	defer s.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran atomic.Bool
	err := s.Do(ctx, 1, func(ctx context.Context) error {
		ran.Store(true)
		return nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ran.Load(), "a canceled job must not run")
}

func TestUserSerializerDoAfterShutdown(t *testing.T) {
	s := NewUserSerializer(0, logger.NewNoopLogger())

	// Warm up a queue so shutdown has something to close
	require.NoError(t, s.Do(context.Background(), 1, func(ctx context.Context) error {
		return nil
	}))

	s.Shutdown()

	var ran atomic.Bool
	err := s.Do(context.Background(), 1, func(ctx context.Context) error {
		ran.Store(true)
		return nil
	})
	assert.ErrorIs(t, err, errs.ErrServiceShutdown)
	assert.False(t, ran.Load(), "work submitted after shutdown must not run")

	// A user with no existing queue is rejected the same way
	err = s.Do(context.Background(), 2, func(ctx context.Context) error {
		return nil
	})
	assert.ErrorIs(t, err, errs.ErrServiceShutdown)

	// Shutdown is idempotent
	s.Shutdown()
}

func TestUserSerializerShutdownRacingDo(t *testing.T) {
	s := NewUserSerializer(0, logger.NewNoopLogger())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(userID uint64) {
			defer wg.Done()
			err := s.Do(context.Background(), userID, func(ctx context.Context) error {
				return nil
			})
			if err != nil {
				assert.ErrorIs(t, err, errs.ErrServiceShutdown)
			}
		}(uint64(i % 4))
	}

	s.Shutdown()
	wg.Wait()
}

func TestUserSerializerShutdownWaits(t *testing.T) {
	s := NewUserSerializer(0, logger.NewNoopLogger())

	var done atomic.Bool
	finished := make(chan struct{})
	go func() {
		_ = s.Do(context.Background(), 1, func(ctx context.Context) error {
			time.Sleep(50 * time.Millisecond)
			done.Store(true)
			return nil
		})
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not finish")
	}

	s.Shutdown()
	assert.True(t, done.Load())
}
