package retry

import (
	"context"
	"math"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/ghrelease/pkg/domain/model"
)

// Classifier turns a raw failure into a ClassifiedError
type Classifier func(err error) *model.ClassifiedError

// Sleeper waits for d. It returns early with an error when ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Policy bounds the number of attempts and the wait between them
type Policy struct {
	MaxRetries      int // additional attempts after the first
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	BackoffMultiple float64
	Sleep           Sleeper
}

// DefaultPolicy retries twice, waiting 1s then 2s
var DefaultPolicy = Policy{
	MaxRetries:      2,
	InitialDelay:    1 * time.Second,
	MaxDelay:        30 * time.Second,
	BackoffMultiple: 2.0,
}

// Executor runs operations under a retry policy
type Executor struct {
	policy   Policy
	classify Classifier
}

// New creates an Executor
func New(classify Classifier, policy Policy) *Executor {
	if policy.MaxRetries < 0 {
		policy.MaxRetries = 0
	}
	if policy.BackoffMultiple < 1 {
		policy.BackoffMultiple = 1
	}
	if policy.MaxDelay < policy.InitialDelay {
		policy.MaxDelay = policy.InitialDelay
	}
	if policy.Sleep == nil {
		policy.Sleep = sleep
	}
	return &Executor{
		policy:   policy,
		classify: classify,
	}
}

// Policy returns the effective policy
func (e *Executor) Policy() Policy {
	return e.policy
}

// Do calls op until it succeeds, fails permanently, or has failed transiently
// MaxRetries+1 times. A permanent failure is returned as *model.ClassifiedError
// after a single attempt; running out of attempts returns
// *model.RetriesExhaustedError carrying the last classification.
func Do[T any](ctx context.Context, e *Executor, op func(ctx context.Context) (T, error)) (T, error) {
	logger := ctxlog.From(ctx)
	var zero T

	for attempt := 1; ; attempt++ {
		result, err := op(ctx)
		if err == nil {
			if attempt > 1 {
				logger.Info("Operation succeeded after retry", "attempt", attempt)
			}
			return result, nil
		}

		classified := e.classify(err)
		if classified.IsPermanent() {
			logger.Error("Permanent failure, not retrying",
				"attempt", attempt,
				"status", classified.StatusCode,
				"error", classified.Message,
			)
			return zero, classified
		}

		if attempt > e.policy.MaxRetries {
			logger.Error("Retries exhausted",
				"attempts", attempt,
				"status", classified.StatusCode,
				"error", classified.Message,
			)
			return zero, &model.RetriesExhaustedError{Attempts: attempt, Last: classified}
		}

		delay := e.Backoff(attempt - 1)
		logger.Warn("Transient failure, retrying",
			"attempt", attempt,
			"max_retries", e.policy.MaxRetries,
			"delay", delay,
			"status", classified.StatusCode,
			"error", classified.Message,
		)

		if err := e.policy.Sleep(ctx, delay); err != nil {
			return zero, &model.RetriesExhaustedError{Attempts: attempt, Last: classified}
		}
	}
}

// Backoff returns the wait before retry n (zero-indexed). It never decreases
// with n and never exceeds MaxDelay.
func (e *Executor) Backoff(n int) time.Duration {
	delay := float64(e.policy.InitialDelay) * math.Pow(e.policy.BackoffMultiple, float64(n))
	if delay > float64(e.policy.MaxDelay) || math.IsInf(delay, 0) {
		delay = float64(e.policy.MaxDelay)
	}
	return time.Duration(delay)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
