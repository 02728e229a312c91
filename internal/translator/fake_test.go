package translator

import (
	"context"
	"errors"
	"strings"
	"sync"
)

var errServiceDown = errors.New("service unavailable")

// fakeService maps texts through a dictionary, or upper-cases them when the
// text is unknown. failCall, when set, is consulted before every call.
type fakeService struct {
	mu         sync.Mutex
	dictionary map[string]string
	failCall   func(call int, text string) error
	calls      []string
}

func (f *fakeService) ListLanguages(ctx context.Context) ([]string, error) {
	return []string{"auto", "en", "fr"}, nil
}

func (f *fakeService) TranslateText(ctx context.Context, source, target, text string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, text)
	call := len(f.calls)
	f.mu.Unlock()

	if f.failCall != nil {
		if err := f.failCall(call, text); err != nil {
			return "", err
		}
	}
	if translated, ok := f.dictionary[text]; ok {
		return translated, nil
	}
	return strings.ToUpper(text), nil
}

func (f *fakeService) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// identityService returns every text unchanged.
type identityService struct{}

func (identityService) ListLanguages(ctx context.Context) ([]string, error) { return nil, nil }

func (identityService) TranslateText(ctx context.Context, source, target, text string) (string, error) {
	return text, nil
}
