// Package models defines the domain types for Raido.
package models

import "time"

// Preset names a non-custom review period shorthand.
type Preset string

// Known period presets.
const (
	PresetCurrentWeek  Preset = "current_week"
	PresetCurrentMonth Preset = "current_month"
	PresetLast7Days    Preset = "last_7_days"
	PresetLast30Days   Preset = "last_30_days"
	PresetCustom       Preset = "custom"
)

// Valid reports whether p is one of the known presets.
func (p Preset) Valid() bool {
	switch p {
	case PresetCurrentWeek, PresetCurrentMonth, PresetLast7Days, PresetLast30Days, PresetCustom:
		return true
	}
	return false
}

// ReviewPeriod is a resolved [Start, End] interval with a display label.
// Immutable once resolved; Start <= End always holds.
type ReviewPeriod struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Label  string    `json:"label"`
	Preset Preset    `json:"preset"`
}

// NoteMetadata describes a single vault note matched by a scan.
type NoteMetadata struct {
	Path    string    `json:"path"`
	Title   string    `json:"title,omitempty"`
	Mtime   time.Time `json:"mtime"`
	Content string    `json:"-"`
}

// EvidenceNote is the lossy, transport-ready projection of a scanned note.
type EvidenceNote struct {
	Path     string `json:"path"`
	Title    string `json:"title,omitempty"`
	Modified string `json:"modified"` // RFC 3339
	Excerpt  string `json:"excerpt"`
}

// EvidencePack is the size-bounded payload handed to the model.
// Included <= TotalScanned and Included <= the configured max.
type EvidencePack struct {
	Notes        []EvidenceNote `json:"notes"`
	TotalScanned int            `json:"total_scanned"`
	Included     int            `json:"included"`
}

// RunMetadata is the frontmatter-bound record written into every
// generated review document.
type RunMetadata struct {
	WeekStart      time.Time
	GeneratedAt    time.Time
	ScannedFolders []string
	Model          string
}
