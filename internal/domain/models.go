// Package domain contains the core domain types for the localizer.
package domain

import "time"

// AutoLanguage is the pseudo-language a translation service reports for
// source language detection. It is never a translation target.
const AutoLanguage = "auto"

// Job is one unit of fan-out work: a document translated from one
// language into another.
type Job struct {
	SourceLang string
	TargetLang string
	Document   []byte
}

// Outcome is the result of a single Job.
type Outcome struct {
	TargetLang string
	Document   []byte
	Err        error
}

// Succeeded reports whether the job produced a document.
func (o Outcome) Succeeded() bool {
	return o.Err == nil
}

// Summary describes a finished fan-out run.
type Summary struct {
	Languages []string      `json:"languages"`
	Completed int           `json:"completed"`
	Failed    int           `json:"failed"`
	Elapsed   time.Duration `json:"elapsed"`
}
