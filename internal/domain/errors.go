package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrHandshake means the supported languages could not be listed.
	ErrHandshake = errors.New("listing supported languages failed")
	// ErrParse means the input document is not valid JSON.
	ErrParse = errors.New("input document is not valid JSON")
	// ErrTranslation means a single leaf translation call failed.
	ErrTranslation = errors.New("translation failed")
	// ErrRetryExhausted means every document attempt failed.
	ErrRetryExhausted = errors.New("retries exhausted")
	// ErrWrite means a translated document could not be stored.
	ErrWrite = errors.New("writing translated document failed")
)

// LeafError is returned when the service fails to translate the string at Path.
// Path is a JSON pointer (RFC 6901) into the document.
type LeafError struct {
	Path string
	Err  error
}

func (e *LeafError) Error() string {
	path := e.Path
	if path == "" {
		path = "/"
	}
	return fmt.Sprintf("%v at %s: %v", ErrTranslation, path, e.Err)
}

func (e *LeafError) Unwrap() []error {
	return []error{ErrTranslation, e.Err}
}

// JobError ties a terminal job failure to its target language.
type JobError struct {
	Language string
	Err      error
}

func (e *JobError) Error() string {
	return fmt.Sprintf("language %s: %v", e.Language, e.Err)
}

func (e *JobError) Unwrap() error {
	return e.Err
}
