// Package evidence builds the size-bounded note payload sent to the model.
package evidence

import (
	"sort"
	"strings"
	"time"

	"github.com/starford/raido/internal/models"
)

// Build caps the scanned notes at maxNotes entries and maxChars excerpt
// characters each. When capping is needed the most recently modified
// notes win; mtime ties keep their original order. Build is pure: it
// never mutates its input.
func Build(notes []models.NoteMetadata, maxNotes, maxChars int) models.EvidencePack {
	total := len(notes)

	ordered := make([]models.NoteMetadata, total)
	copy(ordered, notes)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Mtime.After(ordered[j].Mtime)
	})

	if maxNotes > 0 && len(ordered) > maxNotes {
		ordered = ordered[:maxNotes]
	}

	packed := make([]models.EvidenceNote, len(ordered))
	for i, n := range ordered {
		packed[i] = models.EvidenceNote{
			Path:     n.Path,
			Title:    n.Title,
			Modified: n.Mtime.Format(time.RFC3339),
			Excerpt:  excerpt(n.Content, maxChars),
		}
	}

	return models.EvidencePack{
		Notes:        packed,
		TotalScanned: total,
		Included:     len(packed),
	}
}

// excerpt returns the first max characters of content, trimmed. The
// cut counts runes so a multibyte character is never split.
func excerpt(content string, max int) string {
	trimmed := strings.TrimSpace(content)
	if max <= 0 {
		return trimmed
	}
	runes := []rune(trimmed)
	if len(runes) <= max {
		return trimmed
	}
	return strings.TrimSpace(string(runes[:max]))
}
