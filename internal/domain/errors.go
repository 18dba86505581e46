package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrJobNotFound signals a point lookup for an unknown job id.
var ErrJobNotFound = errors.New("job not found")

// ValidationError reports client-supplied data that fails validation,
// with one message per offending field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, f := range names {
		parts = append(parts, f+": "+e.Fields[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ResolutionError reports a metadata resolution failure for a source URL.
type ResolutionError struct {
	URL string
	Err error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("failed to resolve metadata for %s: %v", e.URL, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// ProcessingError reports a fetch/convert failure inside the pipeline.
type ProcessingError struct {
	Stage string // "fetch" or "convert"
	Err   error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }
