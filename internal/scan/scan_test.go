package scan

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/testutil"
)

func touch(t *testing.T, dir, rel, content string, mtime time.Time) {
	t.Helper()
	abs := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(abs, mtime, mtime); err != nil {
		t.Fatal(err)
	}
}

func weekPeriod() models.ReviewPeriod {
	return models.ReviewPeriod{
		Start:  time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		End:    time.Date(2025, 3, 9, 23, 59, 59, 0, time.UTC),
		Preset: models.PresetCurrentWeek,
	}
}

func TestScan_MtimeWindow(t *testing.T) {
	dir, store := testutil.TestVault(t)
	p := weekPeriod()

	touch(t, dir, "in.md", "# In\ninside", p.Start.Add(24*time.Hour))
	touch(t, dir, "before.md", "too old", p.Start.Add(-time.Hour))
	touch(t, dir, "after.md", "too new", p.End.Add(time.Hour))

	notes, err := New(store).Scan(context.Background(), nil, p)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(notes) != 1 || notes[0].Path != "in.md" {
		t.Fatalf("notes = %+v", notes)
	}
	if notes[0].Content != "# In\ninside" {
		t.Errorf("content = %q", notes[0].Content)
	}
	if notes[0].Title != "In" {
		t.Errorf("title = %q", notes[0].Title)
	}
}

func TestScan_BoundsInclusive(t *testing.T) {
	dir, store := testutil.TestVault(t)
	p := weekPeriod()

	touch(t, dir, "at-start.md", "s", p.Start)
	touch(t, dir, "at-end.md", "e", p.End)

	notes, err := New(store).Scan(context.Background(), nil, p)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(notes) != 2 {
		t.Errorf("len = %d, want 2 (bounds inclusive)", len(notes))
	}
}

func TestScan_FolderScope(t *testing.T) {
	dir, store := testutil.TestVault(t)
	p := weekPeriod()
	mid := p.Start.Add(48 * time.Hour)

	touch(t, dir, "work/project.md", "p", mid)
	touch(t, dir, "work/sub/deep.md", "d", mid)
	touch(t, dir, "workout/run.md", "r", mid) // prefix of path string, not of folder
	touch(t, dir, "personal/diary.md", "x", mid)

	notes, err := New(store).Scan(context.Background(), []string{"work"}, p)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	got := map[string]bool{}
	for _, n := range notes {
		got[n.Path] = true
	}
	if len(notes) != 2 || !got["work/project.md"] || !got["work/sub/deep.md"] {
		t.Errorf("notes = %v", got)
	}
}

func TestScan_EmptyScopeMeansWholeVault(t *testing.T) {
	dir, store := testutil.TestVault(t)
	p := weekPeriod()
	mid := p.Start.Add(time.Hour)

	touch(t, dir, "a/x.md", "x", mid)
	touch(t, dir, "b/y.md", "y", mid)

	notes, err := New(store).Scan(context.Background(), []string{}, p)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(notes) != 2 {
		t.Errorf("len = %d, want 2", len(notes))
	}
}

func TestScan_EmptyResultIsNotError(t *testing.T) {
	_, store := testutil.TestVault(t)
	notes, err := New(store).Scan(context.Background(), nil, weekPeriod())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(notes) != 0 {
		t.Errorf("notes = %+v, want empty", notes)
	}
}
