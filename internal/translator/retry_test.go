package translator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricofy/localizer/internal/domain"
	"github.com/pricofy/localizer/internal/metrics"
)

// recordingSleep captures requested delays without waiting.
type recordingSleep struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (r *recordingSleep) Sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delays = append(r.delays, d)
	return nil
}

func newTestRetrier(svc Service, sleep *recordingSleep) *Retrier {
	r := NewRetrier(svc, nil, nil)
	r.Sleep = sleep.Sleep
	return r
}

func TestNewRetrier_Defaults(t *testing.T) {
	r := NewRetrier(identityService{}, nil, nil)

	assert.Equal(t, 5, r.MaxRetries)
	assert.Equal(t, time.Second, r.BaseDelay)
	assert.NotNil(t, r.Sleep)
}

func TestTranslateDocument_Success(t *testing.T) {
	sleep := &recordingSleep{}
	svc := &fakeService{dictionary: map[string]string{"hello": "bonjour"}}

	out, err := newTestRetrier(svc, sleep).TranslateDocument(context.Background(), "en", "fr", []byte(`{"a":"hello","b":{"c":""}}`))
	require.NoError(t, err)

	want := "{\n  \"a\": \"bonjour\",\n  \"b\": {\n    \"c\": \"\"\n  }\n}"
	assert.Equal(t, want, string(out))
	assert.Empty(t, sleep.delays)
}

func TestTranslateDocument_RetriesWithDoublingBackoff(t *testing.T) {
	tests := []struct {
		name      string
		failFirst int
		want      []time.Duration
	}{
		{name: "no failures", failFirst: 0, want: nil},
		{name: "one failure", failFirst: 1, want: []time.Duration{time.Second}},
		{name: "three failures", failFirst: 3, want: []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}},
		{name: "five failures", failFirst: 5, want: []time.Duration{
			time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second, 16 * time.Second,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sleep := &recordingSleep{}
			svc := &fakeService{
				failCall: func(call int, text string) error {
					if call <= tt.failFirst {
						return errServiceDown
					}
					return nil
				},
			}

			out, err := newTestRetrier(svc, sleep).TranslateDocument(context.Background(), "en", "fr", []byte(`{"a":"hi"}`))
			require.NoError(t, err)
			assert.Equal(t, "{\n  \"a\": \"HI\"\n}", string(out))
			assert.Equal(t, tt.want, sleep.delays)
			assert.Len(t, svc.Calls(), tt.failFirst+1)
		})
	}
}

func TestTranslateDocument_RetryExhausted(t *testing.T) {
	sleep := &recordingSleep{}
	svc := &fakeService{
		failCall: func(int, string) error { return errServiceDown },
	}

	out, err := newTestRetrier(svc, sleep).TranslateDocument(context.Background(), "en", "fr", []byte(`{"a":"hi"}`))
	require.Error(t, err)
	assert.Nil(t, out)

	assert.True(t, errors.Is(err, domain.ErrRetryExhausted))
	assert.True(t, errors.Is(err, domain.ErrTranslation))
	assert.True(t, errors.Is(err, errServiceDown))

	assert.Len(t, svc.Calls(), DefaultMaxRetries+1)
	assert.Len(t, sleep.delays, DefaultMaxRetries)
}

func TestTranslateDocument_CustomBudget(t *testing.T) {
	sleep := &recordingSleep{}
	svc := &fakeService{
		failCall: func(int, string) error { return errServiceDown },
	}
	r := newTestRetrier(svc, sleep)
	r.MaxRetries = 2
	r.BaseDelay = 10 * time.Millisecond

	_, err := r.TranslateDocument(context.Background(), "en", "fr", []byte(`{"a":"hi"}`))
	require.Error(t, err)

	assert.Len(t, svc.Calls(), 3)
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}, sleep.delays)
}

func TestTranslateDocument_EachAttemptStartsFromSource(t *testing.T) {
	sleep := &recordingSleep{}
	svc := &fakeService{
		failCall: func(call int, text string) error {
			// The first attempt translates "x" and then fails on "y".
			if call == 2 {
				return errServiceDown
			}
			return nil
		},
	}

	out, err := newTestRetrier(svc, sleep).TranslateDocument(context.Background(), "en", "fr", []byte(`{"a":"x","b":"y"}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"x", "y", "x", "y"}, svc.Calls(), "retry must resend source text, not earlier output")
	assert.Equal(t, "{\n  \"a\": \"X\",\n  \"b\": \"Y\"\n}", string(out))
}

func TestTranslateDocument_ParseFailureNotRetried(t *testing.T) {
	sleep := &recordingSleep{}
	svc := &fakeService{}

	_, err := newTestRetrier(svc, sleep).TranslateDocument(context.Background(), "en", "fr", []byte(`{"a":`))
	require.Error(t, err)

	assert.True(t, errors.Is(err, domain.ErrParse))
	assert.False(t, errors.Is(err, domain.ErrRetryExhausted))
	assert.Empty(t, svc.Calls())
	assert.Empty(t, sleep.delays)
}

func TestTranslateDocument_SleepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := &fakeService{
		failCall: func(int, string) error { return errServiceDown },
	}
	r := NewRetrier(svc, nil, nil)
	r.Sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}

	_, err := r.TranslateDocument(ctx, "en", "fr", []byte(`{"a":"hi"}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Len(t, svc.Calls(), 1)
}

func TestTranslateDocument_RecordsMetrics(t *testing.T) {
	m := metrics.NewCollector()
	sleep := &recordingSleep{}
	svc := &fakeService{
		failCall: func(call int, text string) error {
			if call == 1 {
				return errServiceDown
			}
			return nil
		},
	}
	r := NewRetrier(svc, nil, m)
	r.Sleep = sleep.Sleep

	_, err := r.TranslateDocument(context.Background(), "en", "fr", []byte(`{"a":"x","b":"","c":"z"}`))
	require.NoError(t, err)

	expected := `
# HELP localize_attempts_total Total number of whole-document translation attempts
# TYPE localize_attempts_total counter
localize_attempts_total 2
# HELP localize_leaf_calls_total Total number of text translation calls sent to the service
# TYPE localize_leaf_calls_total counter
localize_leaf_calls_total 3
# HELP localize_retries_total Total number of document attempts made after a failure
# TYPE localize_retries_total counter
localize_retries_total 1
`
	err = testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected),
		"localize_attempts_total", "localize_retries_total", "localize_leaf_calls_total")
	assert.NoError(t, err)
	assert.Equal(t, []string{"x", "x", "z"}, svc.Calls())
}

func TestSleepContext(t *testing.T) {
	assert.NoError(t, sleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
}
