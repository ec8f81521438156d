// Package scan selects vault notes modified within a review period.
package scan

import (
	"context"
	"fmt"
	"strings"

	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/parser"
	"github.com/starford/raido/internal/storage"
)

// Scanner finds notes by modification time over a vault provider.
type Scanner struct {
	store storage.Provider
}

// New creates a Scanner over the given vault.
func New(store storage.Provider) *Scanner {
	return &Scanner{store: store}
}

// Scan returns every note whose mtime falls in [period.Start,
// period.End] and whose path is inside one of the folder scopes
// (empty folders means the entire vault). Content and title are
// loaded for each retained note. An empty result is not an error;
// callers decide how to react.
func (s *Scanner) Scan(_ context.Context, folders []string, period models.ReviewPeriod) ([]models.NoteMetadata, error) {
	metas, err := s.store.List("")
	if err != nil {
		return nil, fmt.Errorf("scan: list vault: %w", err)
	}

	var out []models.NoteMetadata
	for _, m := range metas {
		if m.Mtime.Before(period.Start) || m.Mtime.After(period.End) {
			continue
		}
		if !inScope(m.Path, folders) {
			continue
		}
		data, err := s.store.Read(m.Path)
		if err != nil {
			return nil, fmt.Errorf("scan: read %s: %w", m.Path, err)
		}
		m.Content = string(data)
		if res, err := parser.Parse(data); err == nil {
			m.Title = res.Title
		}
		out = append(out, m)
	}
	return out, nil
}

// inScope reports whether path lies under any of the folders
// (folder-and-subfolders prefix match).
func inScope(path string, folders []string) bool {
	if len(folders) == 0 {
		return true
	}
	for _, f := range folders {
		f = strings.Trim(strings.TrimSpace(f), "/")
		if f == "" {
			return true
		}
		if path == f || strings.HasPrefix(path, f+"/") {
			return true
		}
	}
	return false
}
