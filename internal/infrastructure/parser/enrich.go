package parser

import (
	"fmt"
	"math/rand"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
)

const (
	defaultAuthor     = "Unknown Author"
	idLimit           = 50
	titleLimit        = 200
	authorLimit       = 100
	descriptionLimit  = 500
	wordsPerMinute    = 250
	wordCountFactor   = 6
	minimumClaps      = 5
	baseClaps         = 10
	lengthFactorLimit = 30
)

var (
	highEngagementKeywords   = []string{"tutorial", "guide", "how to", "complete", "beginner", "advanced", "tips"}
	mediumEngagementKeywords = []string{"learn", "build", "create", "develop", "implement"}
)

// estimateClaps scores a feed item that carries no public engagement counter.
func estimateClaps(rng *rand.Rand, title, description string) int {
	claps := baseClaps
	text := strings.ToLower(title) + "\n" + strings.ToLower(description)

	for _, kw := range highEngagementKeywords {
		if strings.Contains(text, kw) {
			claps += 20 + rng.Intn(31)
		}
	}
	for _, kw := range mediumEngagementKeywords {
		if strings.Contains(text, kw) {
			claps += 10 + rng.Intn(16)
		}
	}
	if description != "" {
		claps += min(len(description)/50, lengthFactorLimit)
	}

	claps = int(float64(claps) * (0.5 + rng.Float64()*2.5))
	return max(minimumClaps, claps)
}

func estimateReadingTime(rng *rand.Rand, title, description string) int {
	words := len(strings.Fields(title + " " + description))
	minutes := max(2, words/wordsPerMinute)
	return int(float64(minutes) * (0.8 + rng.Float64()*0.4))
}

func estimateWordCount(rng *rand.Rand, description string) int {
	if description == "" {
		return 400 + rng.Intn(801)
	}
	return len(strings.Fields(description)) * wordCountFactor
}

// cleanHTML strips markup and collapses whitespace.
func cleanHTML(raw string, limit int) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	text := raw
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw)); err == nil {
		text = doc.Text()
	}
	return truncate(strings.Join(strings.Fields(text), " "), limit)
}

// articleID derives the identifier from the last URL path segment. Links
// without one get a UUID read from rng, so fallbacks stay distinct and
// reproducible for a seed.
func articleID(rng *rand.Rand, link string) string {
	if u, err := url.Parse(strings.TrimSpace(link)); err == nil && u.Path != "" {
		segments := strings.Split(strings.Trim(u.Path, "/"), "/")
		if last := segments[len(segments)-1]; last != "" {
			return truncate(last, idLimit)
		}
	}
	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		return fmt.Sprintf("article_%d", rng.Int63())
	}
	return "article_" + id.String()
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
