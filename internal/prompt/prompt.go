// Package prompt builds the instruction texts sent to the model. All
// builders are pure string templating; none perform I/O.
package prompt

import (
	"fmt"
	"strings"

	"github.com/starford/raido/internal/models"
)

const reviewFraming = `You are helping someone review their recent work from their personal notes.
Write the review in Markdown with exactly these three sections:

## Summary
A short prose summary of the period.

## Notable work
A bullet list of the most significant items.

## Priorities
Exactly three numbered priorities for the next period.`

const summaryFraming = `Summarize the following note.
Rules:
- Output Markdown only.
- No heading, no code fences, no preamble.
- 2-4 sentences, concise.`

const sprinkleFraming = `Rewrite the selected text below according to the instruction.
Return only the replacement text, nothing else. Keep the result consistent
in tone and formatting with the selection.`

// Review builds the weekly-review prompt from the evidence pack and the
// resolved period. A non-empty framing override replaces the default
// task framing; the evidence and period are appended verbatim either way.
func Review(pack models.EvidencePack, period models.ReviewPeriod, framingOverride string) string {
	framing := reviewFraming
	if strings.TrimSpace(framingOverride) != "" {
		framing = strings.TrimSpace(framingOverride)
	}

	var b strings.Builder
	b.WriteString(framing)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Review period: %s (%s)\n", period.Label, period.Preset)
	fmt.Fprintf(&b, "Notes included: %d of %d modified in the period.\n\n", pack.Included, pack.TotalScanned)

	for _, n := range pack.Notes {
		fmt.Fprintf(&b, "--- note: %s (modified %s) ---\n", n.Path, n.Modified)
		b.WriteString(n.Excerpt)
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

// Summary builds the single-note summary prompt.
func Summary(title, content string) string {
	var b strings.Builder
	b.WriteString(summaryFraming)
	b.WriteString("\n\n")
	if title != "" {
		fmt.Fprintf(&b, "Title: %s\n\n", title)
	}
	b.WriteString(content)
	return b.String()
}

// Sprinkle builds the selection-rewrite prompt from the user's
// instruction and the currently selected span.
func Sprinkle(instruction, selection string) string {
	var b strings.Builder
	b.WriteString(sprinkleFraming)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Instruction: %s\n\n", strings.TrimSpace(instruction))
	b.WriteString("Selected text:\n")
	b.WriteString(selection)
	return b.String()
}
