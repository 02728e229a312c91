// Package translator localizes JSON documents through a translation service.
//
// TranslateTree walks one document and translates every non-empty string
// leaf. Retrier wraps a whole-document walk with exponential backoff.
package translator

import (
	"context"

	"github.com/pricofy/localizer/internal/metrics"
)

// Service is a machine translation backend. Implementations must be safe
// for concurrent use.
type Service interface {
	// ListLanguages returns every language code the service supports.
	ListLanguages(ctx context.Context) ([]string, error)
	// TranslateText translates a single text from source into target.
	TranslateText(ctx context.Context, source, target, text string) (string, error)
}

// countingService records every text translation call.
type countingService struct {
	Service
	metrics *metrics.Collector
}

func (s countingService) TranslateText(ctx context.Context, source, target, text string) (string, error) {
	s.metrics.RecordLeafCall()
	return s.Service.TranslateText(ctx, source, target, text)
}

func instrument(svc Service, m *metrics.Collector) Service {
	if m == nil {
		return svc
	}
	return countingService{Service: svc, metrics: m}
}
