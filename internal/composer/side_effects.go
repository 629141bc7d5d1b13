package composer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/anonto42/vidtube/backend/pkg/logger"
	log "github.com/sirupsen/logrus"
)

// SideEffects runs best-effort mutations off the request path. Their
// failures are logged at warn level and never reach the caller.
type SideEffects struct {
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewSideEffects creates a runner whose tasks each get the given deadline
func NewSideEffects(timeout time.Duration) *SideEffects {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &SideEffects{timeout: timeout}
}

// Go runs fn in the background. The task keeps ctx's values (request id,
// logger) but not its cancellation, so it outlives the response.
func (s *SideEffects) Go(ctx context.Context, op string, fields log.Fields, fn func(ctx context.Context) error) {
	entry := logger.FromContext(ctx).WithField("op", op).WithFields(fields)
	detached := context.WithoutCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				entry.WithField("panic", fmt.Sprint(r)).Error("best-effort side effect panicked")
			}
		}()

		taskCtx, cancel := context.WithTimeout(detached, s.timeout)
		defer cancel()

		if err := fn(taskCtx); err != nil {
			entry.WithError(err).Warn("best-effort side effect failed")
		}
	}()
}

// Drain waits for in-flight side effects or until ctx is done
func (s *SideEffects) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
