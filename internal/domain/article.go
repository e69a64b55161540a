package domain

import "time"

// Article is the source content item every synthetic dataset is keyed to.
type Article struct {
	ID                 string    `json:"article_id"`
	Title              string    `json:"title"`
	URL                string    `json:"url"`
	Publication        string    `json:"publication"`
	Author             string    `json:"author"`
	PublishedAt        time.Time `json:"published_at"`
	Description        string    `json:"description"`
	Claps              int       `json:"claps"`
	ReadingTimeMinutes int       `json:"reading_time_minutes"`
	WordCount          int       `json:"word_count"`
	CollectedAt        time.Time `json:"collected_at"`
}

// ArticleColumns lists the flat row layout of Article.
var ArticleColumns = []string{
	"article_id", "title", "url", "publication", "author", "published_at",
	"description", "claps", "reading_time_minutes", "word_count", "collected_at",
}

// Values returns the row in ArticleColumns order.
func (a Article) Values() []any {
	return []any{
		a.ID, a.Title, a.URL, a.Publication, a.Author, FormatTime(a.PublishedAt),
		a.Description, a.Claps, a.ReadingTimeMinutes, a.WordCount, FormatTime(a.CollectedAt),
	}
}

// EngagementScore returns claps clamped at zero.
func (a Article) EngagementScore() int {
	if a.Claps < 0 {
		return 0
	}
	return a.Claps
}

// FormatTime renders timestamps for row-oriented sinks; the zero time becomes "".
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
