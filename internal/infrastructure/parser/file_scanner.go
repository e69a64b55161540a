package parser

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"DataDigest/internal/domain"
	"DataDigest/internal/scanner"
)

const defaultPublication = "unknown"

// FileScanner loads a previously collected JSON array of articles.
// Missing or malformed fields fall back to defaults instead of failing the scan.
type FileScanner struct {
	logger *slog.Logger
}

// NewFileScanner builds the strategy.
func NewFileScanner(log *slog.Logger) *FileScanner {
	return &FileScanner{logger: log}
}

// Name identifies the strategy inside the registry.
func (f *FileScanner) Name() string {
	return "file"
}

// Scan reads options.path and every category URL as a local file path.
func (f *FileScanner) Scan(_ context.Context, req scanner.Request) ([]domain.Article, error) {
	var paths []string
	if p := req.Option("path", ""); p != "" {
		paths = append(paths, p)
	}
	for _, cat := range req.Categories {
		if cat.URL != "" {
			paths = append(paths, cat.URL)
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no article files provided for site %s", req.SiteName)
	}

	rng := req.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(req.Day.UnixNano()))
	}

	var results []domain.Article
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read article file: %w", err)
		}
		articles, err := parseArticleFile(rng, raw)
		if err != nil {
			return nil, fmt.Errorf("article file %s: %w", path, err)
		}
		if f.logger != nil {
			f.logger.Debug("article file loaded", "path", path, "count", len(articles))
		}
		results = append(results, articles...)
	}

	return results, nil
}

func parseArticleFile(rng *rand.Rand, raw []byte) ([]domain.Article, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("invalid json")
	}
	root := gjson.ParseBytes(raw)
	if !root.IsArray() {
		return nil, fmt.Errorf("expected a json array of articles")
	}

	var articles []domain.Article
	root.ForEach(func(_, item gjson.Result) bool {
		if item.IsObject() {
			articles = append(articles, articleFromJSON(rng, item))
		}
		return true
	})
	return articles, nil
}

func articleFromJSON(rng *rand.Rand, item gjson.Result) domain.Article {
	a := domain.Article{
		ID:                 strings.TrimSpace(item.Get("article_id").String()),
		Title:              strings.TrimSpace(item.Get("title").String()),
		URL:                strings.TrimSpace(item.Get("url").String()),
		Publication:        strings.TrimSpace(item.Get("publication").String()),
		Author:             strings.TrimSpace(item.Get("author").String()),
		PublishedAt:        parseTimestamp(item.Get("published_at").String()),
		Description:        item.Get("description").String(),
		Claps:              int(item.Get("claps").Int()),
		ReadingTimeMinutes: int(item.Get("reading_time_minutes").Int()),
		WordCount:          int(item.Get("word_count").Int()),
		CollectedAt:        parseTimestamp(item.Get("collected_at").String()),
	}

	if a.ID == "" {
		a.ID = articleID(rng, a.URL)
	}
	if a.Publication == "" {
		a.Publication = defaultPublication
	}
	if a.Author == "" {
		a.Author = defaultAuthor
	}
	a.Claps = max(0, a.Claps)
	a.ReadingTimeMinutes = max(0, a.ReadingTimeMinutes)
	a.WordCount = max(0, a.WordCount)

	return a
}

// parseTimestamp accepts RFC 3339, the feed's RFC 1123 forms and naive ISO timestamps.
func parseTimestamp(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	if t := parsePubDate(raw); !t.IsZero() {
		return t
	}
	for _, layout := range []string{"2006-01-02T15:04:05.999999", "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
