// Package review orchestrates the weekly-review pipeline and renders
// the generated documents.
package review

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/starford/raido/internal/models"
)

// frontmatter is marshalled at the top of every review document. Field
// order here is the field order in the output.
type frontmatter struct {
	WeekStart      string   `yaml:"week_start"`
	PeriodStart    string   `yaml:"period_start"`
	PeriodEnd      string   `yaml:"period_end"`
	PeriodPreset   string   `yaml:"period_preset"`
	GeneratedAt    string   `yaml:"generated_at"`
	ScannedFolders []string `yaml:"scanned_folders"`
	Model          string   `yaml:"model"`
}

// Render assembles the complete review document: YAML frontmatter, the
// model's sections, then a listing of the notes that were reviewed.
// Pure function of its inputs.
func Render(modelText string, period models.ReviewPeriod, meta models.RunMetadata, pack models.EvidencePack) string {
	fm := frontmatter{
		WeekStart:      meta.WeekStart.Format("2006-01-02"),
		PeriodStart:    period.Start.Format(time.RFC3339),
		PeriodEnd:      period.End.Format(time.RFC3339),
		PeriodPreset:   string(period.Preset),
		GeneratedAt:    meta.GeneratedAt.Format(time.RFC3339),
		ScannedFolders: meta.ScannedFolders,
		Model:          meta.Model,
	}
	if fm.ScannedFolders == nil {
		fm.ScannedFolders = []string{}
	}

	fmYAML, _ := yaml.Marshal(fm)

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(fmYAML)
	b.WriteString("---\n\n")
	b.WriteString(strings.TrimSpace(modelText))
	b.WriteString("\n\n## Notes reviewed\n\n")
	fmt.Fprintf(&b, "Included %d of %d notes modified in this period.\n\n", pack.Included, pack.TotalScanned)
	for _, n := range pack.Notes {
		fmt.Fprintf(&b, "- %s\n", n.Path)
	}
	return b.String()
}
