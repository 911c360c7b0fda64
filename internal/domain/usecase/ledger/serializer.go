package ledger

import (
	"context"
	"sync"

	errs "github.com/litepremium/coin-engine/internal/domain/error"
	coreport "github.com/litepremium/coin-engine/internal/domain/port/core"
)

// defaultQueueSize bounds how many balance operations can wait per user
const defaultQueueSize = 100

// UserSerializer runs balance-mutating operations for the same user strictly
// one at a time, in arrival order. Each user gets a dedicated queue and worker
// goroutine, created lazily on first use.
type UserSerializer struct {
	logger    coreport.Logger
	queueSize int

	userQueues     sync.Map // map[uint64]chan *job
	queueWaitGroup sync.WaitGroup

	// closeMu makes enqueues and Shutdown mutually exclusive so a send can
	// never race the close of its queue channel
	closeMu sync.RWMutex
	closed  bool
}

// job represents a queued balance operation
type job struct {
	ctx        context.Context
	run        func(ctx context.Context) error
	resultChan chan error
}

// NewUserSerializer creates a serializer with no active queues. A queueSize
// of zero or less falls back to the default.
func NewUserSerializer(queueSize int, logger coreport.Logger) *UserSerializer {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &UserSerializer{
		logger:     logger,
		queueSize:  queueSize,
		userQueues: sync.Map{},
	}
}

// Do enqueues fn on the user's queue and blocks until it has run or the
// context is canceled. Operations for different users run concurrently;
// operations for the same user never do.
func (s *UserSerializer) Do(ctx context.Context, userID uint64, fn func(ctx context.Context) error) error {
	resultChan := make(chan error, 1)

	s.closeMu.RLock()
	if s.closed {
		s.closeMu.RUnlock()
		return errs.ErrServiceShutdown
	}

	var queue chan *job
	queueIface, loaded := s.userQueues.LoadOrStore(userID, make(chan *job, s.queueSize))
	if queueCh, ok := queueIface.(chan *job); ok {
		queue = queueCh
	} else {
		s.closeMu.RUnlock()
		s.logger.Error("Failed to type assert queue channel", nil)
		return errs.ErrInternalServer
	}

	if !loaded {
		s.logger.Debug("Starting balance queue worker for user", map[string]any{
			"user_id": userID,
		})
		s.queueWaitGroup.Add(1)
		go s.processUserQueue(userID, queue)
	}

	// The read lock is held across the send so Shutdown cannot close the
	// queue underneath it, then released before waiting on the result
	select {
	case queue <- &job{ctx: ctx, run: fn, resultChan: resultChan}:
		s.closeMu.RUnlock()
	case <-ctx.Done():
		s.closeMu.RUnlock()
		s.logger.Warn("Context canceled while enqueueing balance operation", map[string]any{
			"user_id": userID,
			"error":   ctx.Err().Error(),
		})
		return ctx.Err()
	}

	select {
	case err := <-resultChan:
		return err
	case <-ctx.Done():
		s.logger.Warn("Context canceled while waiting for balance operation", map[string]any{
			"user_id": userID,
			"error":   ctx.Err().Error(),
		})
		return ctx.Err()
	}
}

// processUserQueue is the worker goroutine for one user's queue
func (s *UserSerializer) processUserQueue(userID uint64, queue chan *job) {
	defer s.queueWaitGroup.Done()

	for j := range queue {
		// Skip work whose caller already gave up
		if err := j.ctx.Err(); err != nil {
			j.resultChan <- err
			close(j.resultChan)
			continue
		}

		j.resultChan <- j.run(j.ctx)
		close(j.resultChan)
	}

	s.logger.Debug("Balance queue worker stopped", map[string]any{
		"user_id": userID,
	})
}

// Shutdown closes all queues and waits for in-flight operations to finish.
// Once it has started, Do rejects new work with ErrServiceShutdown.
func (s *UserSerializer) Shutdown() {
	s.logger.Info("Shutting down user serializer", nil)

	s.closeMu.Lock()
	if s.closed {
		s.closeMu.Unlock()
		return
	}
	s.closed = true
	s.userQueues.Range(func(userID, queueIface interface{}) bool {
		if queue, ok := queueIface.(chan *job); ok {
			close(queue)
		}
		return true
	})
	s.closeMu.Unlock()

	s.queueWaitGroup.Wait()
	s.logger.Info("User serializer shut down successfully", nil)
}
