package domain

import "time"

// Platform tags the origin of a mention record.
type Platform string

const (
	PlatformSocial Platform = "social"
	PlatformForum  Platform = "forum"
)

// SocialMention is a synthesized short-form social post referencing an article.
type SocialMention struct {
	Platform      Platform  `json:"platform"`
	TweetID       string    `json:"tweet_id"`
	ArticleURL    string    `json:"article_url"`
	ArticleTitle  string    `json:"article_title"`
	TweetText     string    `json:"tweet_text"`
	Topic         string    `json:"topic"`
	Username      string    `json:"username"`
	UserFollowers int       `json:"user_followers"`
	LikeCount     int       `json:"like_count"`
	RetweetCount  int       `json:"retweet_count"`
	ReplyCount    int       `json:"reply_count"`
	QuoteCount    int       `json:"quote_count"`
	UpvoteRatio   float64   `json:"upvote_ratio"`
	CreatedAt     time.Time `json:"created_at"`
	CollectedAt   time.Time `json:"collected_at"`
}

// SocialMentionColumns lists the flat row layout of SocialMention.
var SocialMentionColumns = []string{
	"platform", "tweet_id", "article_url", "article_title", "tweet_text", "topic", "username",
	"user_followers", "like_count", "retweet_count", "reply_count", "quote_count", "upvote_ratio",
	"created_at", "collected_at",
}

// Values returns the row in SocialMentionColumns order.
func (m SocialMention) Values() []any {
	return []any{
		string(m.Platform), m.TweetID, m.ArticleURL, m.ArticleTitle, m.TweetText, m.Topic, m.Username,
		m.UserFollowers, m.LikeCount, m.RetweetCount, m.ReplyCount, m.QuoteCount, m.UpvoteRatio,
		FormatTime(m.CreatedAt), FormatTime(m.CollectedAt),
	}
}

// ForumSubmission is a synthesized forum post referencing an article.
type ForumSubmission struct {
	Platform     Platform  `json:"platform"`
	PostID       string    `json:"post_id"`
	ArticleURL   string    `json:"article_url"`
	ArticleTitle string    `json:"article_title"`
	PostTitle    string    `json:"post_title"`
	Subreddit    string    `json:"subreddit"`
	Author       string    `json:"author"`
	Score        int       `json:"score"`
	UpvoteRatio  float64   `json:"upvote_ratio"`
	NumComments  int       `json:"num_comments"`
	Permalink    string    `json:"permalink"`
	SelfText     string    `json:"selftext"`
	CreatedAt    time.Time `json:"created_at"`
	CollectedAt  time.Time `json:"collected_at"`
}

// ForumSubmissionColumns lists the flat row layout of ForumSubmission.
var ForumSubmissionColumns = []string{
	"platform", "post_id", "article_url", "article_title", "post_title", "subreddit", "author",
	"score", "upvote_ratio", "num_comments", "permalink", "selftext", "created_at", "collected_at",
}

// Values returns the row in ForumSubmissionColumns order.
func (s ForumSubmission) Values() []any {
	return []any{
		string(s.Platform), s.PostID, s.ArticleURL, s.ArticleTitle, s.PostTitle, s.Subreddit, s.Author,
		s.Score, s.UpvoteRatio, s.NumComments, s.Permalink, s.SelfText,
		FormatTime(s.CreatedAt), FormatTime(s.CollectedAt),
	}
}

// SourceBreakdown splits a day's sessions by acquisition channel.
type SourceBreakdown struct {
	Organic  int `json:"sessions_organic"`
	Social   int `json:"sessions_social"`
	Direct   int `json:"sessions_direct"`
	Referral int `json:"sessions_referral"`
	Email    int `json:"sessions_email"`
}

// Total sums all channels.
func (b SourceBreakdown) Total() int {
	return b.Organic + b.Social + b.Direct + b.Referral + b.Email
}

// DeviceBreakdown splits a day's sessions by device class.
type DeviceBreakdown struct {
	Desktop int `json:"sessions_desktop"`
	Mobile  int `json:"sessions_mobile"`
	Tablet  int `json:"sessions_tablet"`
}

// Total sums all device classes.
func (b DeviceBreakdown) Total() int {
	return b.Desktop + b.Mobile + b.Tablet
}

// TrafficDay is one day of synthesized web analytics for one article.
type TrafficDay struct {
	Date               string  `json:"date"`
	ArticleURL         string  `json:"article_url"`
	ArticleTitle       string  `json:"article_title"`
	Publication        string  `json:"publication"`
	Sessions           int     `json:"sessions"`
	Users              int     `json:"users"`
	NewUsers           int     `json:"new_users"`
	Pageviews          int     `json:"pageviews"`
	BounceRate         float64 `json:"bounce_rate"`
	AvgSessionDuration float64 `json:"avg_session_duration"`
	PagesPerSession    float64 `json:"pages_per_session"`
	SourceBreakdown
	DeviceBreakdown
}

// TrafficDayColumns lists the flat row layout of TrafficDay.
var TrafficDayColumns = []string{
	"date", "article_url", "article_title", "publication", "sessions", "users", "new_users",
	"pageviews", "bounce_rate", "avg_session_duration", "pages_per_session",
	"sessions_organic", "sessions_social", "sessions_direct", "sessions_referral", "sessions_email",
	"sessions_desktop", "sessions_mobile", "sessions_tablet",
}

// Values returns the row in TrafficDayColumns order.
func (d TrafficDay) Values() []any {
	return []any{
		d.Date, d.ArticleURL, d.ArticleTitle, d.Publication, d.Sessions, d.Users, d.NewUsers,
		d.Pageviews, d.BounceRate, d.AvgSessionDuration, d.PagesPerSession,
		d.Organic, d.SourceBreakdown.Social, d.Direct, d.Referral, d.Email,
		d.Desktop, d.Mobile, d.Tablet,
	}
}
