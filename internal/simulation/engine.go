// Package simulation fabricates cross-platform engagement and web-traffic
// datasets from a collection of articles.
//
// All randomness comes from one seeded stream consumed in a fixed order:
// article by article; within an article the social mentions, then the forum
// submissions, then the traffic series; within each record field by field in
// declaration order. A fixed seed, article list and reference time therefore
// reproduce the same dataset exactly.
package simulation

import (
	"math/rand"
	"time"

	"DataDigest/internal/domain"
)

// Engine assembles the three synthetic collections and their summary.
type Engine struct {
	model    EngagementModel
	mentions MentionSynthesizer
	traffic  TrafficSynthesizer
}

// NewEngine wires the model and synthesizers to one set of tables.
func NewEngine(tables Tables) *Engine {
	return &Engine{
		model:    NewEngagementModel(tables),
		mentions: NewMentionSynthesizer(tables),
		traffic:  NewTrafficSynthesizer(tables),
	}
}

// Assemble runs every synthesizer over articles with a generator seeded by seed.
// now is the run's reference time; it anchors every relative timestamp.
func (e *Engine) Assemble(articles []domain.Article, seed int64, now time.Time) domain.Dataset {
	ds := e.AssembleWith(NewSeededRNG(seed), articles, now)
	ds.Summary.Seed = seed
	return ds
}

// AssembleWith is Assemble over a caller-owned generator.
func (e *Engine) AssembleWith(rng *rand.Rand, articles []domain.Article, now time.Time) domain.Dataset {
	now = now.UTC().Truncate(time.Second)

	ds := domain.Dataset{
		Articles:         append([]domain.Article(nil), articles...),
		SocialMentions:   []domain.SocialMention{},
		ForumSubmissions: []domain.ForumSubmission{},
		Traffic:          make([]domain.TrafficDay, 0, len(articles)*e.traffic.tables.Days),
	}

	var covered coverage
	for _, article := range articles {
		eng := e.model.Evaluate(article)

		social := e.mentions.Social(rng, article, eng, now)
		forum := e.mentions.Forum(rng, article, eng, now)
		traffic := e.traffic.Series(rng, article, now)
		covered.add(len(social), len(forum), len(traffic))

		ds.SocialMentions = append(ds.SocialMentions, social...)
		ds.ForumSubmissions = append(ds.ForumSubmissions, forum...)
		ds.Traffic = append(ds.Traffic, traffic...)
	}

	ds.Summary = summarize(ds, covered)
	ds.Summary.GeneratedAt = now

	return ds
}

// coverage counts, per collection, the articles that produced at least one record.
// It is tallied while the article is known, so articles sharing a URL or lacking
// one are still counted apart.
type coverage struct {
	social  int
	forum   int
	traffic int
}

func (c *coverage) add(social, forum, traffic int) {
	if social > 0 {
		c.social++
	}
	if forum > 0 {
		c.forum++
	}
	if traffic > 0 {
		c.traffic++
	}
}

// summarize reports counts, coverage and mean primary engagement per collection.
// It reads the dataset without modifying any record.
func summarize(ds domain.Dataset, covered coverage) domain.Summary {
	total := len(ds.Articles)

	likes := make([]int, len(ds.SocialMentions))
	for i, m := range ds.SocialMentions {
		likes[i] = m.LikeCount
	}

	scores := make([]int, len(ds.ForumSubmissions))
	for i, p := range ds.ForumSubmissions {
		scores[i] = p.Score
	}

	sessions := make([]int, len(ds.Traffic))
	for i, d := range ds.Traffic {
		sessions[i] = d.Sessions
	}

	return domain.Summary{
		Articles: total,
		Collections: []domain.CollectionSummary{
			summarizeCollection(domain.KindSocialMentions, "like_count", total, covered.social, likes),
			summarizeCollection(domain.KindForumSubmissions, "score", total, covered.forum, scores),
			summarizeCollection(domain.KindTraffic, "sessions", total, covered.traffic, sessions),
		},
	}
}

func summarizeCollection(kind domain.DatasetKind, metric string, articles, covered int, values []int) domain.CollectionSummary {
	s := domain.CollectionSummary{
		Kind:             kind,
		Records:          len(values),
		ArticlesCovered:  covered,
		EngagementMetric: metric,
	}

	if s.ArticlesCovered > articles {
		s.ArticlesCovered = articles
	}
	if articles > 0 {
		s.Coverage = float64(s.ArticlesCovered) / float64(articles)
	}

	if len(values) > 0 {
		sum := 0
		for _, v := range values {
			sum += v
		}
		s.MeanEngagement = float64(sum) / float64(len(values))
	}

	return s
}
