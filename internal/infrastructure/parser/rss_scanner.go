package parser

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/temoto/robotstxt"
	"golang.org/x/net/html/charset"

	"DataDigest/internal/domain"
	"DataDigest/internal/scanner"
)

const (
	defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"
	fetchTimeout     = 20 * time.Second
)

var pubDateLayouts = []string{time.RFC1123Z, time.RFC1123, time.RFC3339, "Mon, 2 Jan 2006 15:04:05 -0700", "Mon, 2 Jan 2006 15:04:05 MST"}

type rssDocument struct {
	Items []rssItem `xml:"channel>item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	PubDate     string `xml:"pubDate"`
	Description string `xml:"description"`
	Encoded     string `xml:"encoded"`
	Summary     string `xml:"summary"`
	Author      string `xml:"author"`
	Creator     string `xml:"creator"`
}

func (i rssItem) body() string {
	for _, v := range []string{i.Description, i.Encoded, i.Summary} {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func (i rssItem) byline() string {
	for _, v := range []string{i.Author, i.Creator} {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// RSSScanner reads publication feeds; each category is one feed and names the publication.
type RSSScanner struct {
	client    *retryablehttp.Client
	userAgent string
	logger    *slog.Logger
	now       func() time.Time
}

// NewRSSScanner wires a retrying HTTP client; nil builds one with a 20s timeout.
func NewRSSScanner(client *retryablehttp.Client, log *slog.Logger) *RSSScanner {
	if client == nil {
		client = retryablehttp.NewClient()
		client.HTTPClient.Timeout = fetchTimeout
		client.RetryMax = 2
		client.Logger = nil
	}
	return &RSSScanner{
		client:    client,
		userAgent: defaultUserAgent,
		logger:    log,
		now:       time.Now,
	}
}

// Name identifies the strategy inside the registry.
func (s *RSSScanner) Name() string {
	return "rss"
}

// Scan fetches every category feed. A failing feed is logged and skipped.
// Options: "fullText"="true" replaces the word-count estimate with a readability
// extraction of each article page; "userAgent" overrides the request header.
func (s *RSSScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Article, error) {
	if len(req.Categories) == 0 {
		return nil, fmt.Errorf("no feeds provided for site %s", req.SiteName)
	}

	rng := req.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(req.Day.UnixNano()))
	}
	agent := req.Option("userAgent", s.userAgent)
	fullText := req.Option("fullText", "false") == "true"
	collectedAt := s.now().UTC().Truncate(time.Second)

	var results []domain.Article
	for _, cat := range req.Categories {
		items, err := s.fetchFeed(ctx, cat.URL, agent)
		if err != nil {
			s.warn("feed skipped", "site", req.SiteName, "publication", cat.Name, "error", err)
			continue
		}

		for _, item := range items {
			article := buildArticle(rng, item, cat.Name, collectedAt)
			if fullText && article.URL != "" {
				if words, err := s.fullTextWords(ctx, article.URL, agent); err == nil && words > 0 {
					article.WordCount = words
				} else if err != nil {
					s.debug("full text unavailable", "url", article.URL, "error", err)
				}
			}
			results = append(results, article)
		}
		s.debug("feed parsed", "publication", cat.Name, "items", len(items))
	}

	return results, nil
}

func buildArticle(rng *rand.Rand, item rssItem, publication string, collectedAt time.Time) domain.Article {
	title := truncate(strings.TrimSpace(item.Title), titleLimit)
	link := strings.TrimSpace(item.Link)
	description := cleanHTML(item.body(), descriptionLimit)

	author := truncate(item.byline(), authorLimit)
	if author == "" {
		author = defaultAuthor
	}

	return domain.Article{
		ID:                 articleID(rng, link),
		Title:              title,
		URL:                link,
		Publication:        publication,
		Author:             author,
		PublishedAt:        parsePubDate(item.PubDate),
		Description:        description,
		Claps:              estimateClaps(rng, title, description),
		ReadingTimeMinutes: estimateReadingTime(rng, title, description),
		WordCount:          estimateWordCount(rng, description),
		CollectedAt:        collectedAt,
	}
}

func parsePubDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func (s *RSSScanner) fetchFeed(ctx context.Context, feedURL, agent string) ([]rssItem, error) {
	allowed, err := s.allowed(ctx, feedURL, agent)
	if err != nil {
		s.debug("robots.txt unavailable", "url", feedURL, "error", err)
	} else if !allowed {
		return nil, fmt.Errorf("robots.txt disallows %s", feedURL)
	}

	body, err := s.get(ctx, feedURL, agent)
	if err != nil {
		return nil, err
	}

	decoder := xml.NewDecoder(bytes.NewReader(body))
	decoder.CharsetReader = charset.NewReaderLabel
	decoder.Strict = false

	var doc rssDocument
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", feedURL, err)
	}
	return doc.Items, nil
}

// allowed consults the host's robots.txt for the feed path.
func (s *RSSScanner) allowed(ctx context.Context, target, agent string) (bool, error) {
	u, err := url.Parse(target)
	if err != nil || u.Host == "" {
		return false, fmt.Errorf("invalid feed url %s", target)
	}

	robotsURL := fmt.Sprintf("%s://%s/robots.txt", u.Scheme, u.Host)
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return false, fmt.Errorf("build robots request: %w", err)
	}
	req.Header.Set("User-Agent", agent)

	resp, err := s.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("request robots.txt: %w", err)
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return false, fmt.Errorf("parse robots.txt: %w", err)
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return data.TestAgent(path, agent), nil
}

func (s *RSSScanner) get(ctx context.Context, target, agent string) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", agent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned %s", target, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", target, err)
	}
	return body, nil
}

func (s *RSSScanner) fullTextWords(ctx context.Context, pageURL, agent string) (int, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return 0, fmt.Errorf("invalid article url: %w", err)
	}

	body, err := s.get(ctx, pageURL, agent)
	if err != nil {
		return 0, err
	}

	article, err := readability.FromReader(bytes.NewReader(body), parsed)
	if err != nil {
		return 0, fmt.Errorf("extract content: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(article.Content))
	if err != nil {
		return 0, fmt.Errorf("parse content: %w", err)
	}
	return len(strings.Fields(doc.Text())), nil
}

func (s *RSSScanner) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *RSSScanner) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
