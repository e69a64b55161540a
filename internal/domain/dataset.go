package domain

import "time"

// DatasetKind names one output collection.
type DatasetKind string

const (
	KindSocialMentions   DatasetKind = "mentions-social"
	KindForumSubmissions DatasetKind = "mentions-forum"
	KindTraffic          DatasetKind = "traffic"
	// KindArticles is the source collection; it is exported and loaded but not synthesized.
	KindArticles DatasetKind = "articles"
)

// SyntheticKinds lists the synthesized collections in output order.
var SyntheticKinds = []DatasetKind{KindSocialMentions, KindForumSubmissions, KindTraffic}

// Row is a flat record whose Values line up with its collection's Columns.
type Row interface {
	Values() []any
}

// Collection is a named, ordered list of rows with a fixed column layout.
type Collection struct {
	Kind    DatasetKind
	Columns []string
	Rows    []Row
}

// Len returns the number of rows.
func (c Collection) Len() int {
	return len(c.Rows)
}

// CollectionSummary describes one collection of a run.
type CollectionSummary struct {
	Kind             DatasetKind `json:"kind"`
	Records          int         `json:"records"`
	ArticlesCovered  int         `json:"articles_covered"`
	Coverage         float64     `json:"coverage"`
	MeanEngagement   float64     `json:"mean_engagement"`
	EngagementMetric string      `json:"engagement_metric"`
}

// Summary is the read-only report of one assembled dataset.
type Summary struct {
	Articles    int                 `json:"articles"`
	Seed        int64               `json:"seed"`
	GeneratedAt time.Time           `json:"generated_at"`
	Collections []CollectionSummary `json:"collections"`
}

// Collection returns the summary entry for kind.
func (s Summary) Collection(kind DatasetKind) (CollectionSummary, bool) {
	for _, c := range s.Collections {
		if c.Kind == kind {
			return c, true
		}
	}
	return CollectionSummary{}, false
}

// Dataset is the immutable result of one simulation run.
type Dataset struct {
	Articles         []Article
	SocialMentions   []SocialMention
	ForumSubmissions []ForumSubmission
	Traffic          []TrafficDay
	Summary          Summary
}

// Collection returns the rows of kind; ok is false for unknown kinds.
func (d Dataset) Collection(kind DatasetKind) (Collection, bool) {
	switch kind {
	case KindSocialMentions:
		return Collection{Kind: kind, Columns: SocialMentionColumns, Rows: toRows(d.SocialMentions)}, true
	case KindForumSubmissions:
		return Collection{Kind: kind, Columns: ForumSubmissionColumns, Rows: toRows(d.ForumSubmissions)}, true
	case KindTraffic:
		return Collection{Kind: kind, Columns: TrafficDayColumns, Rows: toRows(d.Traffic)}, true
	case KindArticles:
		return Collection{Kind: kind, Columns: ArticleColumns, Rows: toRows(d.Articles)}, true
	default:
		return Collection{}, false
	}
}

// Collections returns the synthesized collections followed by the source articles.
func (d Dataset) Collections() []Collection {
	kinds := append(append([]DatasetKind{}, SyntheticKinds...), KindArticles)
	out := make([]Collection, 0, len(kinds))
	for _, kind := range kinds {
		c, _ := d.Collection(kind)
		out = append(out, c)
	}
	return out
}

func toRows[T Row](items []T) []Row {
	rows := make([]Row, len(items))
	for i := range items {
		rows[i] = items[i]
	}
	return rows
}

// Snapshot is one completed pipeline run as seen by readers.
type Snapshot struct {
	RunID      string    `json:"run_id"`
	Day        string    `json:"day"`
	Outputs    []string  `json:"outputs"`
	FinishedAt time.Time `json:"finished_at"`
	Dataset    Dataset   `json:"-"`
}
