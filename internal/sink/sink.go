// Package sink stores translated documents, one destination per language.
package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/pricofy/localizer/internal/domain"
)

const (
	// DefaultDir is where translated documents are written by default.
	DefaultDir = "assets/translated"
	// DefaultExt is the file extension of translated documents.
	DefaultExt = ".json"
)

// Sink persists the translated document for one language.
type Sink interface {
	Store(ctx context.Context, language string, data []byte) error
}

// FileSink writes each document to <Dir>/<language><Ext>, replacing any
// previous content. Writes are not atomic.
type FileSink struct {
	Dir string
	Ext string
}

// NewFileSink returns a FileSink writing into dir with the default extension.
func NewFileSink(dir string) *FileSink {
	if dir == "" {
		dir = DefaultDir
	}
	return &FileSink{Dir: dir, Ext: DefaultExt}
}

// Path returns the destination of language.
func (s *FileSink) Path(language string) string {
	ext := s.Ext
	if ext == "" {
		ext = DefaultExt
	}
	return filepath.Join(s.Dir, language+ext)
}

// Store writes data for language.
func (s *FileSink) Store(ctx context.Context, language string, data []byte) error {
	if language == "" || filepath.Base(language) != language {
		return fmt.Errorf("%w: invalid language code %q", domain.ErrWrite, language)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("%w: creating %s: %w", domain.ErrWrite, s.Dir, err)
	}
	path := s.Path(language)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrWrite, err)
	}
	return nil
}

// MemorySink keeps documents in memory. It is safe for concurrent use.
type MemorySink struct {
	mu   sync.Mutex
	docs map[string][]byte
}

// NewMemorySink returns an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{docs: make(map[string][]byte)}
}

// Store records a copy of data for language.
func (s *MemorySink) Store(ctx context.Context, language string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[language] = append([]byte(nil), data...)
	return nil
}

// Get returns the document stored for language.
func (s *MemorySink) Get(language string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.docs[language]
	return data, ok
}

// Languages returns the stored language codes, sorted.
func (s *MemorySink) Languages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	langs := make([]string, 0, len(s.docs))
	for lang := range s.docs {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// Documents returns a copy of everything stored.
func (s *MemorySink) Documents() map[string][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string][]byte, len(s.docs))
	for lang, data := range s.docs {
		out[lang] = data
	}
	return out
}
