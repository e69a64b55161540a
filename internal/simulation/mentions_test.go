package simulation

import (
	"math"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"DataDigest/internal/domain"
)

var refTime = time.Date(2025, time.September, 24, 6, 0, 0, 0, time.UTC)

func TestSocialMentionsRespectInvariants(t *testing.T) {
	t.Parallel()

	tables := DefaultTables()
	synth := NewMentionSynthesizer(tables)
	rng := NewSeededRNG(7)

	article := domain.Article{
		Title: strings.Repeat("A very long headline about Python generators ", 10),
		URL:   "https://medium.com/" + strings.Repeat("slug-", 30),
		Claps: 500,
	}
	eng := Engagement{SocialProbability: 1, ForumProbability: 1, Intensity: 50}

	produced := 0
	for i := 0; i < 500; i++ {
		mentions := synth.Social(rng, article, eng, refTime)
		if len(mentions) < 1 || len(mentions) > 5 {
			t.Fatalf("expected 1..5 mentions, got %d", len(mentions))
		}
		for _, m := range mentions {
			produced++
			if n := utf8.RuneCountInString(m.TweetText); n > 280 {
				t.Fatalf("tweet text has %d runes", n)
			}
			if !strings.Contains(m.TweetText, "...") {
				t.Fatalf("expected truncated title in %q", m.TweetText)
			}
			if m.LikeCount < 0 || m.RetweetCount < 0 || m.ReplyCount < 0 || m.QuoteCount < 0 {
				t.Fatalf("negative counter in %+v", m)
			}
			if m.UpvoteRatio < 0.6 || m.UpvoteRatio > 0.95 {
				t.Fatalf("upvote ratio %.2f out of range", m.UpvoteRatio)
			}
			if m.UserFollowers < 50 || m.UserFollowers > 20000 {
				t.Fatalf("followers %d out of range", m.UserFollowers)
			}
			if m.Topic != "python" {
				t.Fatalf("expected python topic, got %s", m.Topic)
			}
			if !strings.HasPrefix(m.TweetID, "tw_") || len(m.TweetID) != 19 {
				t.Fatalf("unexpected tweet id %s", m.TweetID)
			}
			age := refTime.Sub(m.CreatedAt)
			if age < 24*time.Hour || age > 30*24*time.Hour+23*time.Hour {
				t.Fatalf("created_at %v outside the mention window", m.CreatedAt)
			}
			if !m.CollectedAt.Equal(refTime) {
				t.Fatalf("collected_at %v, want %v", m.CollectedAt, refTime)
			}
			if utf8.RuneCountInString(m.ArticleTitle) > 100 {
				t.Fatalf("article title column too long")
			}
		}
	}
	if produced == 0 {
		t.Fatal("expected mentions")
	}
}

func TestSocialTextKeepsURLWithinLimit(t *testing.T) {
	t.Parallel()

	synth := NewMentionSynthesizer(DefaultTables())
	article := domain.Article{
		Title: strings.Repeat("x", 80),
		URL:   "https://example.org/" + strings.Repeat("p", 200),
	}

	text := synth.socialText("Must-read for anyone interested in {topic}: {title} {url}", "machine learning", article)
	if utf8.RuneCountInString(text) > 280 {
		t.Fatalf("text exceeds limit: %d", utf8.RuneCountInString(text))
	}
	if !strings.HasSuffix(text, article.URL) {
		t.Fatalf("expected url to survive shortening, got %q", text)
	}
}

func TestForumSubmissionsRespectInvariants(t *testing.T) {
	t.Parallel()

	synth := NewMentionSynthesizer(DefaultTables())
	rng := NewSeededRNG(11)
	article := domain.Article{Title: "Practical Machine Learning", URL: "https://example.org/ml", Claps: 80}
	eng := NewEngagementModel(DefaultTables()).Evaluate(article)
	eng.ForumProbability = 1

	boards := map[string]bool{"MachineLearning": true, "datascience": true, "artificial": true}
	for i := 0; i < 300; i++ {
		posts := synth.Forum(rng, article, eng, refTime)
		if len(posts) != 1 {
			t.Fatalf("expected one submission, got %d", len(posts))
		}
		p := posts[0]
		if !boards[p.Subreddit] {
			t.Fatalf("unexpected board %s", p.Subreddit)
		}
		if p.Score < 1 || p.NumComments < 0 {
			t.Fatalf("invalid counters %+v", p)
		}
		if p.UpvoteRatio < 0.7 || p.UpvoteRatio > 0.95 {
			t.Fatalf("upvote ratio %.2f out of range", p.UpvoteRatio)
		}
		if !strings.Contains(p.PostTitle, article.Title) {
			t.Fatalf("post title %q does not reference article", p.PostTitle)
		}
		if !strings.HasPrefix(p.Permalink, "/r/"+p.Subreddit+"/comments/") {
			t.Fatalf("unexpected permalink %s", p.Permalink)
		}
	}
}

func TestZeroScoreCoverageMatchesFloor(t *testing.T) {
	t.Parallel()

	tables := DefaultTables()
	model := NewEngagementModel(tables)
	synth := NewMentionSynthesizer(tables)
	rng := NewSeededRNG(2025)

	article := domain.Article{Title: "Untitled", URL: "https://example.org/zero", Claps: 0}
	eng := model.Evaluate(article)

	const trials = 10000
	social, forum := 0, 0
	for i := 0; i < trials; i++ {
		if len(synth.Social(rng, article, eng, refTime)) > 0 {
			social++
		}
		if len(synth.Forum(rng, article, eng, refTime)) > 0 {
			forum++
		}
	}

	if rate := float64(social) / trials; math.Abs(rate-0.1) > 0.02 {
		t.Fatalf("social coverage %.4f not within 0.02 of 0.1", rate)
	}
	if rate := float64(forum) / trials; math.Abs(rate-0.05) > 0.02 {
		t.Fatalf("forum coverage %.4f not within 0.02 of 0.05", rate)
	}
}

func TestWeightedIndexFavorsLowCounts(t *testing.T) {
	t.Parallel()

	rng := NewSeededRNG(3)
	weights := DefaultTables().SocialCountWeights
	hits := make([]int, len(weights))
	for i := 0; i < 20000; i++ {
		hits[weightedIndex(rng, weights)]++
	}
	for i := 1; i < len(hits); i++ {
		if hits[i] > hits[i-1] {
			t.Fatalf("expected declining frequencies, got %v", hits)
		}
	}
}
