package simulation

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"DataDigest/internal/domain"
)

const ellipsis = "..."

// MentionSynthesizer fabricates social and forum posts for articles that
// pass their participation draw.
type MentionSynthesizer struct {
	tables Tables
}

// NewMentionSynthesizer binds the synthesizer to its tables.
func NewMentionSynthesizer(tables Tables) MentionSynthesizer {
	return MentionSynthesizer{tables: tables}
}

// Social draws participation, then the mention count, then each mention field by field.
func (s MentionSynthesizer) Social(rng *rand.Rand, article domain.Article, eng Engagement, now time.Time) []domain.SocialMention {
	if rng.Float64() >= eng.SocialProbability {
		return nil
	}

	count := weightedIndex(rng, s.tables.SocialCountWeights) + 1
	topic := s.tables.Topics.Classify(article.Title)

	mentions := make([]domain.SocialMention, 0, count)
	for i := 0; i < count; i++ {
		template := pick(rng, s.tables.SocialTemplates)
		m := domain.SocialMention{
			Platform:     domain.PlatformSocial,
			TweetID:      fmt.Sprintf("tw_%d", int64(1e15)+rng.Int63n(int64(9e15))),
			ArticleURL:   article.URL,
			ArticleTitle: truncateRunes(article.Title, s.tables.TitleColumn),
			TweetText:    s.socialText(template, topic.Label, article),
			Topic:        topic.Tag,
			Username:     pick(rng, s.tables.SocialHandles),
		}
		m.UserFollowers = intBetween(rng, s.tables.Followers[0], s.tables.Followers[1])
		m.LikeCount = exponential(rng, eng.Intensity*s.tables.Counters.Likes)
		m.RetweetCount = exponential(rng, eng.Intensity*s.tables.Counters.Retweets)
		m.ReplyCount = exponential(rng, eng.Intensity*s.tables.Counters.Replies)
		m.QuoteCount = exponential(rng, eng.Intensity*s.tables.Counters.Quotes)
		m.UpvoteRatio = round(uniform(rng, s.tables.SocialUpvoteRatio), 2)
		m.CreatedAt = s.recentTime(rng, now)
		m.CollectedAt = now
		mentions = append(mentions, m)
	}

	return mentions
}

// Forum draws participation, then the submission count, then each submission field by field.
func (s MentionSynthesizer) Forum(rng *rand.Rand, article domain.Article, eng Engagement, now time.Time) []domain.ForumSubmission {
	if rng.Float64() >= eng.ForumProbability {
		return nil
	}

	count := weightedIndex(rng, s.tables.ForumCountWeights) + 1
	topic := s.tables.Topics.Classify(article.Title)

	posts := make([]domain.ForumSubmission, 0, count)
	for i := 0; i < count; i++ {
		pattern := pick(rng, s.tables.ForumTitles)
		board := pick(rng, topic.Boards)
		p := domain.ForumSubmission{
			Platform:     domain.PlatformForum,
			PostID:       fmt.Sprintf("r_%d", 1_000_000+rng.Intn(9_000_000)),
			ArticleURL:   article.URL,
			ArticleTitle: truncateRunes(article.Title, s.tables.TitleColumn),
			PostTitle:    truncateRunes(strings.ReplaceAll(pattern, "{title}", article.Title), s.tables.ForumTitleLimit),
			Subreddit:    board,
			Author:       pick(rng, s.tables.ForumHandles),
		}
		p.Score = int(math.Max(1, float64(exponential(rng, eng.ForumIntensity))))
		p.UpvoteRatio = round(uniform(rng, s.tables.ForumUpvoteRatio), 2)
		p.NumComments = exponential(rng, float64(p.Score)*s.tables.CommentWeight)
		p.Permalink = fmt.Sprintf("/r/%s/comments/%d/", board, 1_000_000+rng.Intn(9_000_001))
		p.SelfText = pick(rng, s.tables.ForumSelfTexts)
		p.CreatedAt = s.recentTime(rng, now)
		p.CollectedAt = now
		posts = append(posts, p)
	}

	return posts
}

// socialText fills template, shortening the title excerpt until the post fits the platform limit.
func (s MentionSynthesizer) socialText(template, topic string, article domain.Article) string {
	excerpt := article.Title
	if runeLen(excerpt) > s.tables.TitleExcerpt {
		excerpt = truncateRunes(excerpt, s.tables.TitleExcerpt) + ellipsis
	}

	render := func(title string) string {
		return strings.NewReplacer("{topic}", topic, "{title}", title, "{url}", article.URL).Replace(template)
	}

	text := render(excerpt)
	if over := runeLen(text) - s.tables.SocialTextLimit; over > 0 {
		keep := runeLen(excerpt) - over - len(ellipsis)
		if keep > 0 {
			text = render(truncateRunes(excerpt, keep) + ellipsis)
		}
	}

	return truncateRunes(text, s.tables.SocialTextLimit)
}

func (s MentionSynthesizer) recentTime(rng *rand.Rand, now time.Time) time.Time {
	days := intBetween(rng, 1, s.tables.MentionWindowDays)
	hours := intBetween(rng, 0, 23)
	return now.AddDate(0, 0, -days).Add(-time.Duration(hours) * time.Hour)
}

func runeLen(s string) int {
	return len([]rune(s))
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
