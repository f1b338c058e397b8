package parser

import (
	"fmt"
	"sync"

	"fjacquet/statement-import/internal/models"
)

// Registry maps each format to its extractor.
type Registry struct {
	mu         sync.RWMutex
	extractors map[models.Format]Extractor
}

// NewRegistry creates a registry holding the given extractors.
func NewRegistry(extractors ...Extractor) *Registry {
	r := &Registry{extractors: make(map[models.Format]Extractor)}
	for _, e := range extractors {
		r.Register(e)
	}
	return r
}

// Register adds or replaces the extractor for e.Format().
func (r *Registry) Register(e Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extractors[e.Format()] = e
}

// GetExtractor returns the extractor registered for format.
func (r *Registry) GetExtractor(format models.Format) (Extractor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.extractors[format]
	if !ok {
		return nil, fmt.Errorf("no extractor registered for format: %s", format)
	}
	return e, nil
}

// Formats lists the registered formats.
func (r *Registry) Formats() []models.Format {
	r.mu.RLock()
	defer r.mu.RUnlock()
	formats := make([]models.Format, 0, len(r.extractors))
	for f := range r.extractors {
		formats = append(formats, f)
	}
	return formats
}
