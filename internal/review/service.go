package review

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/checksum"
	"github.com/starford/raido/internal/evidence"
	"github.com/starford/raido/internal/history"
	"github.com/starford/raido/internal/llm"
	"github.com/starford/raido/internal/merge"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/parser"
	"github.com/starford/raido/internal/period"
	"github.com/starford/raido/internal/prompt"
	"github.com/starford/raido/internal/scan"
	"github.com/starford/raido/internal/storage"
)

// Options fixes the review policy for a Service: where to scan, where
// to write, and how to bound the evidence pack.
type Options struct {
	Folders         []string
	OutputFolder    string
	Preset          models.Preset
	Custom          *period.CustomRange
	Location        *time.Location
	MaxNotes        int
	MaxCharsPerNote int
	FramingOverride string
	Model           string
}

// Result describes one completed review run.
type Result struct {
	Path     string              `json:"path"`
	Period   models.ReviewPeriod `json:"period"`
	Scanned  int                 `json:"scanned"`
	Included int                 `json:"included"`
	Checksum string              `json:"checksum"`
}

// Service runs the review, summarize, and sprinkle-support flows over
// a vault and an LLM client. A nil history DB disables run recording.
type Service struct {
	store   storage.Provider
	scanner *scan.Scanner
	client  *llm.Client
	hist    *history.DB
	opts    Options
}

// NewService wires a Service.
func NewService(store storage.Provider, client *llm.Client, hist *history.DB, opts Options) *Service {
	return &Service{
		store:   store,
		scanner: scan.New(store),
		client:  client,
		hist:    hist,
		opts:    opts,
	}
}

// WithPreset returns a copy of the Service that resolves periods with
// preset p instead of the configured one. The copy shares the vault,
// client, and history handle.
func (s *Service) WithPreset(p models.Preset) *Service {
	c := *s
	c.opts.Preset = p
	c.opts.Custom = nil
	return &c
}

// GenerateReview runs the full pipeline for the instant now: resolve
// period, scan, pack, prompt, call the model, render, write, record.
// Returns apperr.ErrNoNotes when nothing was modified in the period;
// LLM failures come back as *llm.Error (wrapped).
func (s *Service) GenerateReview(ctx context.Context, now time.Time) (*Result, error) {
	p, err := period.Resolve(s.opts.Preset, s.opts.Custom, now, s.opts.Location)
	if err != nil {
		return nil, err
	}

	notes, err := s.scanner.Scan(ctx, s.opts.Folders, p)
	if err != nil {
		return nil, err
	}
	if len(notes) == 0 {
		return nil, fmt.Errorf("review: %s: %w", p.Label, apperr.ErrNoNotes)
	}

	pack := evidence.Build(notes, s.opts.MaxNotes, s.opts.MaxCharsPerNote)

	text, err := s.client.Call(ctx, prompt.Review(pack, p, s.opts.FramingOverride))
	if err != nil {
		return nil, fmt.Errorf("review: generate: %w", err)
	}

	meta := models.RunMetadata{
		WeekStart:      period.WeekStart(p.Start, s.opts.Location),
		GeneratedAt:    now,
		ScannedFolders: s.opts.Folders,
		Model:          s.opts.Model,
	}
	doc := []byte(Render(text, p, meta, pack))

	outPath := Filename(s.opts.OutputFolder, now, s.opts.Location, s.store.Exists)
	if err := s.store.Create(outPath, doc); err != nil {
		return nil, fmt.Errorf("review: write %s: %w", outPath, err)
	}

	cs := checksum.Sum(doc)
	if s.hist != nil {
		if _, err := s.hist.Record(history.Run{
			OutputPath:    outPath,
			PeriodPreset:  string(p.Preset),
			PeriodLabel:   p.Label,
			PeriodStart:   p.Start,
			PeriodEnd:     p.End,
			Model:         s.opts.Model,
			NotesScanned:  pack.TotalScanned,
			NotesIncluded: pack.Included,
			Checksum:      cs,
			CreatedAt:     now,
		}); err != nil {
			return nil, fmt.Errorf("review: record run: %w", err)
		}
	}

	return &Result{
		Path:     outPath,
		Period:   p,
		Scanned:  pack.TotalScanned,
		Included: pack.Included,
		Checksum: cs,
	}, nil
}

// SummarizeNote asks the model for a short summary of the note at
// notePath and merges it into the note's "# Summary" section in place.
// Returns the summary text.
func (s *Service) SummarizeNote(ctx context.Context, notePath string) (string, error) {
	data, err := s.store.Read(notePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("review: summarize %s: %w", notePath, apperr.ErrNotFound)
		}
		return "", err
	}

	title := ""
	if res, perr := parser.Parse(data); perr == nil {
		title = res.Title
	}
	if title == "" {
		title = strings.TrimSuffix(path.Base(notePath), ".md")
	}

	summary, err := s.client.Call(ctx, prompt.Summary(title, string(data)))
	if err != nil {
		return "", fmt.Errorf("review: summarize %s: %w", notePath, err)
	}

	merged := merge.InsertSummarySection(string(data), summary)
	if err := s.store.Write(notePath, []byte(merged)); err != nil {
		return "", err
	}
	return strings.TrimSpace(summary), nil
}

// Sprinkle asks the model to rewrite selection per instruction and
// returns the replacement text. The interactive accept/retry loop
// lives in package sprinkle; this is one generation step.
func (s *Service) Sprinkle(ctx context.Context, instruction, selection string) (string, error) {
	text, err := s.client.Call(ctx, prompt.Sprinkle(instruction, selection))
	if err != nil {
		return "", fmt.Errorf("review: sprinkle: %w", err)
	}
	return text, nil
}

// Runs returns the most recent recorded review runs.
func (s *Service) Runs(_ context.Context, limit int) ([]history.Run, error) {
	if s.hist == nil {
		return nil, nil
	}
	return s.hist.ListRuns(limit)
}
