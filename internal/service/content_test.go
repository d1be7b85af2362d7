package service

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Tecnolosic/rompeelciclo/internal/model"
)

func writeContentFile(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadSparks(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	sparks := filepath.Join(root, "sparks")
	writeContentFile(t, sparks, "002.md", "---\nday: 2\nquote: \"Segunda\"\nauthor: \"B\"\naction: \"haz b\"\n---\n")
	writeContentFile(t, sparks, "001.md", "---\nday: 1\nquote: \"Primera\"\nauthor: \"A\"\naction: \"haz a\"\n---\n")
	writeContentFile(t, sparks, "empty.md", "---\nday: 3\nquote: \"\"\n---\n")

	svc := NewContentService(root)
	got, err := svc.LoadSparks()
	if err != nil {
		t.Fatalf("LoadSparks: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (empty quote skipped)", len(got))
	}
	if got[0].DayID != 1 || got[1].DayID != 2 {
		t.Errorf("sparks not sorted by day: %+v", got)
	}
	if got[0].Quote != "Primera" || got[0].Author != "A" || got[0].ActionTask != "haz a" {
		t.Errorf("spark = %+v", got[0])
	}
}

func TestSparkForDateRotates(t *testing.T) {
	t.Parallel()

	sparks := []model.DailySpark{{DayID: 1, Quote: "a"}, {DayID: 2, Quote: "b"}, {DayID: 3, Quote: "c"}}

	day1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	first := SparkForDate(sparks, day1)
	second := SparkForDate(sparks, day2)
	if first == nil || second == nil {
		t.Fatal("expected sparks")
	}
	if first.Quote == second.Quote {
		t.Error("consecutive days should rotate to different sparks")
	}
	if first.Date != "2026-01-01" {
		t.Errorf("Date = %q", first.Date)
	}

	// Same day always yields the same spark.
	again := SparkForDate(sparks, day1)
	if again.Quote != first.Quote {
		t.Error("rotation must be stable within a day")
	}

	if SparkForDate(nil, day1) != nil {
		t.Error("empty set must yield nil")
	}
}

func TestLesson(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	pilares := filepath.Join(root, "pilares")
	writeContentFile(t, pilares, "00-el-despertar.md", "---\ntitulo: EL DESPERTAR\n---\n\n## Protocolo\n\nTexto de la lección.\n")
	writeContentFile(t, pilares, "01-trampa-mental.md", "## Sin frontmatter\n")

	svc := NewContentService(root)

	title, html, err := svc.Lesson(0)
	if err != nil {
		t.Fatalf("Lesson(0): %v", err)
	}
	if title != "EL DESPERTAR" {
		t.Errorf("title = %q", title)
	}
	if !strings.Contains(string(html), "<h2") {
		t.Errorf("html = %q, want rendered heading", html)
	}

	// Missing titulo falls back to the title-cased slug.
	title, _, err = svc.Lesson(1)
	if err != nil {
		t.Fatalf("Lesson(1): %v", err)
	}
	if title != "Trampa Mental" {
		t.Errorf("fallback title = %q", title)
	}

	if _, _, err := svc.Lesson(9); err == nil {
		t.Error("unknown pilar must error")
	}
}
