package translator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	"github.com/pricofy/localizer/internal/document"
	"github.com/pricofy/localizer/internal/domain"
	"github.com/pricofy/localizer/internal/metrics"
)

const (
	// DefaultMaxRetries is the number of attempts made after the first one.
	DefaultMaxRetries = 5

	// DefaultBaseDelay is the wait before the first retry. It doubles after
	// every failed attempt.
	DefaultBaseDelay = time.Second
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Retrier translates whole documents, retrying the entire document with
// exponential backoff when any leaf fails.
type Retrier struct {
	Service    Service
	MaxRetries int
	BaseDelay  time.Duration
	Sleep      SleepFunc
	Logger     *zap.SugaredLogger
	Metrics    *metrics.Collector
}

// NewRetrier creates a Retrier with the default retry budget.
func NewRetrier(svc Service, logger *zap.SugaredLogger, m *metrics.Collector) *Retrier {
	return &Retrier{
		Service:    svc,
		MaxRetries: DefaultMaxRetries,
		BaseDelay:  DefaultBaseDelay,
		Sleep:      sleepContext,
		Logger:     logger,
		Metrics:    m,
	}
}

// TranslateDocument parses raw, translates it from source into target and
// returns the result as indented JSON.
//
// A parse failure is returned at once wrapped in domain.ErrParse. Otherwise
// up to MaxRetries+1 attempts are made, each on a fresh copy of the parsed
// document, with BaseDelay, 2*BaseDelay, 4*BaseDelay, ... between them.
// When every attempt fails the last error is returned wrapped in
// domain.ErrRetryExhausted.
func (r *Retrier) TranslateDocument(ctx context.Context, source, target string, raw []byte) ([]byte, error) {
	parsed, err := document.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrParse, err)
	}

	log := r.logger().With("source", source, "target", target)
	svc := instrument(r.Service, r.Metrics)
	sleep := r.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	delay := r.BaseDelay
	attempts := r.MaxRetries + 1
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		r.Metrics.RecordAttempt()

		translated, err := TranslateTree(ctx, svc, source, target, parsed.Clone())
		if err == nil {
			out, err := document.MarshalIndent(translated)
			if err != nil {
				return nil, fmt.Errorf("encoding translated document: %w", err)
			}
			if attempt > 1 {
				log.Infow("translation succeeded after retry", "attempt", attempt)
			}
			return out, nil
		}

		lastErr = err
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if attempt == attempts {
			break
		}

		log.Warnw("translation attempt failed", append(errorFields(err),
			"attempt", attempt,
			"max_attempts", attempts,
			"retry_in", delay,
		)...)

		if err := sleep(ctx, delay); err != nil {
			return nil, err
		}
		delay *= 2
		r.Metrics.RecordRetry()
	}

	log.Errorw("translation retries exhausted", append(errorFields(lastErr), "attempts", attempts)...)
	return nil, fmt.Errorf("%w after %d attempts: %w", domain.ErrRetryExhausted, attempts, lastErr)
}

func (r *Retrier) logger() *zap.SugaredLogger {
	if r.Logger == nil {
		return zap.NewNop().Sugar()
	}
	return r.Logger
}

// errorFields returns log fields describing err, including the AWS error
// code when the service returned an API error.
func errorFields(err error) []any {
	fields := []any{"error", err}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		fields = append(fields, "error_code", apiErr.ErrorCode())
	}
	return fields
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
