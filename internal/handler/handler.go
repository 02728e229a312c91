// Package handler provides the Lambda handler for document localization.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pricofy/localizer/internal/domain"
	"github.com/pricofy/localizer/internal/metrics"
	"github.com/pricofy/localizer/internal/orchestrator"
	"github.com/pricofy/localizer/internal/sink"
	"github.com/pricofy/localizer/internal/translator"
)

// Request is the input to the localizer Lambda.
type Request struct {
	Document   json.RawMessage `json:"document"`
	SourceLang string          `json:"sourceLang"`
	Targets    []string        `json:"targets,omitempty"`
}

// Response is the output of the localizer Lambda. Documents of languages
// that succeeded are returned even when another language failed.
type Response struct {
	Translations map[string]json.RawMessage `json:"translations,omitempty"`
	Completed    int                        `json:"completed"`
	Failed       int                        `json:"failed"`
	ElapsedMs    int64                      `json:"elapsedMs"`
	Error        string                     `json:"error,omitempty"`
}

// Handler localizes documents sent in Lambda events.
type Handler struct {
	Service       translator.Service
	Logger        *zap.SugaredLogger
	Metrics       *metrics.Collector
	MaxConcurrent int
	MaxRetries    int
	BaseDelay     time.Duration
	Sleep         translator.SleepFunc
}

// New creates a Handler with the default retry budget.
func New(svc translator.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{
		Service:    svc,
		Logger:     logger,
		MaxRetries: translator.DefaultMaxRetries,
		BaseDelay:  translator.DefaultBaseDelay,
	}
}

// Handle translates req.Document into every target language.
// Request and run failures are reported in Response.Error.
func (h *Handler) Handle(ctx context.Context, req Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		return &Response{Error: err.Error()}, nil
	}

	retrier := translator.NewRetrier(h.Service, h.Logger, h.Metrics)
	retrier.MaxRetries = h.MaxRetries
	retrier.BaseDelay = h.BaseDelay
	if h.Sleep != nil {
		retrier.Sleep = h.Sleep
	}

	out := sink.NewMemorySink()
	o := &orchestrator.Orchestrator{
		Service:       h.Service,
		Translator:    retrier,
		Sink:          out,
		Logger:        h.Logger,
		Metrics:       h.Metrics,
		MaxConcurrent: h.MaxConcurrent,
	}

	summary, runErr := o.Run(ctx, orchestrator.RunConfig{
		SourceLanguage: req.SourceLang,
		Input:          req.Document,
		Targets:        req.Targets,
	})

	resp := buildResponse(summary, out)
	if runErr != nil {
		resp.Error = fmt.Sprintf("translation failed: %v", runErr)
	}
	return resp, nil
}

func buildResponse(summary domain.Summary, out *sink.MemorySink) *Response {
	resp := &Response{
		Completed: summary.Completed,
		Failed:    summary.Failed,
		ElapsedMs: summary.Elapsed.Milliseconds(),
	}
	docs := out.Documents()
	if len(docs) > 0 {
		resp.Translations = make(map[string]json.RawMessage, len(docs))
		for lang, data := range docs {
			resp.Translations[lang] = json.RawMessage(data)
		}
	}
	return resp
}

// validateRequest checks the request is valid.
func validateRequest(req Request) error {
	if req.SourceLang == "" {
		return fmt.Errorf("sourceLang is required")
	}
	if req.SourceLang == domain.AutoLanguage {
		return fmt.Errorf("sourceLang must be a concrete language")
	}
	if len(req.Document) == 0 {
		return fmt.Errorf("document is required")
	}
	if !json.Valid(req.Document) {
		return fmt.Errorf("document must be valid JSON")
	}
	for _, target := range req.Targets {
		if target == req.SourceLang {
			return fmt.Errorf("targets must not include sourceLang")
		}
	}
	return nil
}
