// Package orchestrator fans a document out to every target language.
package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pricofy/localizer/internal/domain"
	"github.com/pricofy/localizer/internal/metrics"
	"github.com/pricofy/localizer/internal/sink"
	"github.com/pricofy/localizer/internal/translator"
)

// DocumentTranslator turns a raw source document into a serialized
// translated document.
type DocumentTranslator interface {
	TranslateDocument(ctx context.Context, source, target string, raw []byte) ([]byte, error)
}

// Orchestrator runs one translation job per target language.
type Orchestrator struct {
	Service    translator.Service
	Translator DocumentTranslator
	Sink       sink.Sink
	Logger     *zap.SugaredLogger
	Metrics    *metrics.Collector

	// MaxConcurrent bounds the number of jobs running at once.
	// Zero runs every job at the same time.
	MaxConcurrent int
}

// RunConfig describes one localization run.
type RunConfig struct {
	SourceLanguage string
	Input          []byte
	// Targets restricts the run to these languages when non-empty.
	Targets []string
}

// Run lists the service's languages and translates cfg.Input into each
// target language concurrently. It always waits for every job. Jobs are not
// cancelled when another job fails, and documents already stored are kept.
//
// A listing failure is returned wrapped in domain.ErrHandshake before any
// job starts. If any job fails, Run returns the summary together with the
// failure of the first failed language in listing order.
func (o *Orchestrator) Run(ctx context.Context, cfg RunConfig) (domain.Summary, error) {
	start := time.Now()
	log := o.logger()
	log.Infow("starting translation", "source", cfg.SourceLanguage)

	listed, err := o.Service.ListLanguages(ctx)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("%w: %w", domain.ErrHandshake, err)
	}

	targets, unknown := TargetLanguages(listed, cfg.SourceLanguage, cfg.Targets)
	for _, lang := range unknown {
		log.Warnw("requested language is not supported by the service", "target", lang)
	}
	log.Debugw("target languages resolved", "listed", len(listed), "targets", targets)

	outcomes := make([]domain.Outcome, len(targets))

	var sem chan struct{}
	if o.MaxConcurrent > 0 {
		sem = make(chan struct{}, o.MaxConcurrent)
	}

	var wg sync.WaitGroup
	for i, target := range targets {
		job := domain.Job{
			SourceLang: cfg.SourceLanguage,
			TargetLang: target,
			Document:   bytes.Clone(cfg.Input),
		}

		wg.Add(1)
		go func(i int, job domain.Job) {
			defer wg.Done()
			if sem != nil {
				sem <- struct{}{}
				defer func() { <-sem }()
			}
			outcomes[i] = o.runJob(ctx, job)
		}(i, job)
	}
	wg.Wait()

	summary := domain.Summary{
		Languages: targets,
		Elapsed:   time.Since(start),
	}
	var firstErr error
	for _, outcome := range outcomes {
		if outcome.Succeeded() {
			summary.Completed++
			continue
		}
		summary.Failed++
		if firstErr == nil {
			firstErr = outcome.Err
		}
	}

	log.Infow("time elapsed", "elapsed", summary.Elapsed)
	if firstErr != nil {
		log.Errorw("translation run failed",
			"completed", summary.Completed,
			"failed", summary.Failed,
			"error", firstErr,
		)
		return summary, firstErr
	}
	log.Infof("completed %d translations", summary.Completed)
	return summary, nil
}

func (o *Orchestrator) runJob(ctx context.Context, job domain.Job) domain.Outcome {
	start := time.Now()
	log := o.logger().With("target", job.TargetLang)
	o.Metrics.RecordJobStarted()
	log.Debugw("translating document")

	data, err := o.Translator.TranslateDocument(ctx, job.SourceLang, job.TargetLang, job.Document)
	if err == nil {
		err = o.store(ctx, job.TargetLang, data)
	}

	seconds := time.Since(start).Seconds()
	if err != nil {
		o.Metrics.RecordJobFailed(job.TargetLang, seconds)
		log.Errorw("translation job failed", "error", err)
		return domain.Outcome{
			TargetLang: job.TargetLang,
			Err:        &domain.JobError{Language: job.TargetLang, Err: err},
		}
	}

	o.Metrics.RecordJobCompleted(job.TargetLang, seconds)
	log.Infow("translation written", "bytes", len(data))
	return domain.Outcome{TargetLang: job.TargetLang, Document: data}
}

func (o *Orchestrator) store(ctx context.Context, language string, data []byte) error {
	err := o.Sink.Store(ctx, language, data)
	if err == nil || errors.Is(err, domain.ErrWrite) || ctx.Err() != nil {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrWrite, err)
}

func (o *Orchestrator) logger() *zap.SugaredLogger {
	if o.Logger == nil {
		return zap.NewNop().Sugar()
	}
	return o.Logger
}

// TargetLanguages returns the listed languages minus the source language
// and the auto-detect pseudo-language, without duplicates and in listing
// order. When requested is non-empty only those languages are kept, and
// requested languages the service did not list are returned as unknown.
func TargetLanguages(listed []string, source string, requested []string) (targets, unknown []string) {
	want := make(map[string]bool, len(requested))
	for _, lang := range requested {
		want[lang] = true
	}

	seen := make(map[string]bool, len(listed))
	for _, lang := range listed {
		if lang == domain.AutoLanguage || lang == source || lang == "" || seen[lang] {
			continue
		}
		seen[lang] = true
		if len(want) > 0 && !want[lang] {
			continue
		}
		targets = append(targets, lang)
	}

	for _, lang := range requested {
		if !seen[lang] && lang != source && lang != domain.AutoLanguage {
			unknown = append(unknown, lang)
		}
	}
	return targets, unknown
}
