package service

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Tecnolosic/rompeelciclo/internal/markdown"
	"github.com/Tecnolosic/rompeelciclo/internal/model"
	"github.com/Tecnolosic/rompeelciclo/internal/repository"
)

// ContentService loads the editorial content shipped with the app: the
// rotating daily sparks and the long-form pilar lessons.
type ContentService struct {
	parser      *markdown.Parser
	contentPath string
}

func NewContentService(contentPath string) *ContentService {
	return &ContentService{
		parser:      markdown.NewParser(),
		contentPath: contentPath,
	}
}

// LoadSparks parses content/sparks/*.md. Each file carries the spark in its
// frontmatter; the body is ignored.
func (s *ContentService) LoadSparks() ([]model.DailySpark, error) {
	pattern := filepath.Join(s.contentPath, "sparks", "*.md")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}

	var sparks []model.DailySpark
	for _, file := range files {
		raw, err := os.ReadFile(file)
		if err != nil {
			slog.Warn("failed to read spark file", "error", err, "file", file)
			continue
		}
		_, meta, err := s.parser.ParseWithFrontmatter(raw)
		if err != nil {
			slog.Warn("failed to parse spark file", "error", err, "file", file)
			continue
		}

		spark := model.DailySpark{
			DayID:      metaInt(meta, "day"),
			Quote:      metaString(meta, "quote"),
			Author:     metaString(meta, "author"),
			ActionTask: metaString(meta, "action"),
		}
		if spark.Quote == "" {
			continue
		}
		sparks = append(sparks, spark)
	}

	sort.Slice(sparks, func(i, j int) bool { return sparks[i].DayID < sparks[j].DayID })
	return sparks, nil
}

// SeedSparks loads the spark files into the database at startup so clients
// read them through the normal aggregate load.
func (s *ContentService) SeedSparks(repo repository.SparkRepository) error {
	sparks, err := s.LoadSparks()
	if err != nil {
		return fmt.Errorf("failed to load sparks: %w", err)
	}
	err = repo.Seed(sparks)
	if err != nil {
		return fmt.Errorf("failed to seed sparks: %w", err)
	}
	slog.Info("daily sparks seeded", "count", len(sparks))
	return nil
}

// SparkForDate picks today's spark by rotating through the set.
func SparkForDate(sparks []model.DailySpark, date time.Time) *model.DailySpark {
	if len(sparks) == 0 {
		return nil
	}
	spark := sparks[date.YearDay()%len(sparks)]
	spark.Date = date.Format("2006-01-02")
	return &spark
}

// Lesson renders the reading view for one pilar. The title comes from the
// file's frontmatter, falling back to a title-cased form of the slug.
func (s *ContentService) Lesson(pilarID int) (title string, html []byte, err error) {
	pattern := filepath.Join(s.contentPath, "pilares", fmt.Sprintf("%02d-*.md", pilarID))
	files, err := filepath.Glob(pattern)
	if err != nil || len(files) == 0 {
		return "", nil, fmt.Errorf("no lesson for pilar %d", pilarID)
	}

	raw, err := os.ReadFile(files[0])
	if err != nil {
		return "", nil, fmt.Errorf("failed to read lesson: %w", err)
	}

	html, meta, err := s.parser.ParseWithFrontmatter(raw)
	if err != nil {
		return "", nil, fmt.Errorf("failed to render lesson: %w", err)
	}

	title = metaString(meta, "titulo")
	if title == "" {
		base := strings.TrimSuffix(filepath.Base(files[0]), ".md")
		slug := strings.TrimPrefix(base, fmt.Sprintf("%02d-", pilarID))
		title = cases.Title(language.Spanish).String(strings.ReplaceAll(slug, "-", " "))
	}
	return title, html, nil
}

func metaString(meta map[string]any, key string) string {
	v, _ := meta[key].(string)
	return strings.TrimSpace(v)
}

func metaInt(meta map[string]any, key string) int {
	switch v := meta[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}
