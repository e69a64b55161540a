package parser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"DataDigest/internal/scanner"
	"DataDigest/internal/simulation"
)

const utf8Feed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:content="http://purl.org/rss/1.0/modules/content/">
  <channel>
    <title>Towards Data Science</title>
    <item>
      <title>A Complete Guide to Python Generators</title>
      <link>https://example.org/p/python-generators-abc123?source=rss----7f60cf5620c9---4</link>
      <pubDate>Mon, 22 Sep 2025 10:00:00 GMT</pubDate>
      <dc:creator>Jane Analyst</dc:creator>
      <content:encoded><![CDATA[<p>Learn how <b>generators</b> work.</p>
        <p>Build   lazy pipelines.</p>]]></content:encoded>
    </item>
    <item>
      <title>Untitled notes</title>
      <link>https://example.org/p/notes-9</link>
      <description></description>
    </item>
  </channel>
</rss>`

func newTestClient(server *httptest.Server) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.HTTPClient = server.Client()
	client.RetryMax = 0
	client.Logger = nil
	return client
}

func newFeedServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("User-agent: *\nDisallow: /private/\n"))
	})
	mux.HandleFunc("/feed/tds", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(utf8Feed))
	})
	mux.HandleFunc("/feed/latin", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		body := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>" +
			"<rss version=\"2.0\"><channel><item><title>Caf\xe9 analytics</title>" +
			"<link>https://example.org/p/cafe</link><author>Jos\xe9</author></item></channel></rss>"
		_, _ = w.Write([]byte(body))
	})
	mux.HandleFunc("/private/feed", func(w http.ResponseWriter, _ *http.Request) {
		t.Error("disallowed feed must not be fetched")
	})
	mux.HandleFunc("/feed/broken", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestRSSScannerScan(t *testing.T) {
	t.Parallel()

	server := newFeedServer(t)
	collected := time.Date(2025, time.September, 24, 6, 0, 0, 0, time.UTC)

	sc := NewRSSScanner(newTestClient(server), nil)
	sc.now = func() time.Time { return collected }

	req := scanner.Request{
		Day:      collected,
		SiteName: "medium",
		Rand:     simulation.NewSeededRNG(1),
		Categories: []scanner.Category{
			{Name: "towardsdatascience", URL: server.URL + "/feed/tds"},
			{Name: "private", URL: server.URL + "/private/feed"},
			{Name: "broken", URL: server.URL + "/feed/broken"},
			{Name: "latin", URL: server.URL + "/feed/latin"},
		},
	}

	articles, err := sc.Scan(context.Background(), req)
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	if len(articles) != 3 {
		t.Fatalf("expected 3 articles, got %d", len(articles))
	}

	first := articles[0]
	if first.ID != "python-generators-abc123" {
		t.Fatalf("unexpected id: %s", first.ID)
	}
	if first.Publication != "towardsdatascience" {
		t.Fatalf("unexpected publication: %s", first.Publication)
	}
	if first.Author != "Jane Analyst" {
		t.Fatalf("unexpected author: %s", first.Author)
	}
	if first.Description != "Learn how generators work. Build lazy pipelines." {
		t.Fatalf("unexpected description: %q", first.Description)
	}
	if want := time.Date(2025, time.September, 22, 10, 0, 0, 0, time.UTC); !first.PublishedAt.Equal(want) {
		t.Fatalf("unexpected published_at: %v", first.PublishedAt)
	}
	if first.Claps < 5 || first.ReadingTimeMinutes < 1 || first.WordCount != 7*6 {
		t.Fatalf("unexpected estimates: claps=%d reading=%d words=%d", first.Claps, first.ReadingTimeMinutes, first.WordCount)
	}
	if !first.CollectedAt.Equal(collected) {
		t.Fatalf("unexpected collected_at: %v", first.CollectedAt)
	}

	second := articles[1]
	if second.Author != "Unknown Author" || second.Description != "" {
		t.Fatalf("unexpected defaults: %+v", second)
	}
	if second.WordCount < 400 || second.WordCount > 1200 {
		t.Fatalf("expected fallback word count, got %d", second.WordCount)
	}

	latin := articles[2]
	if latin.Title != "Café analytics" || latin.Author != "José" {
		t.Fatalf("expected decoded latin-1 text, got %q by %q", latin.Title, latin.Author)
	}
}

func TestRSSScannerIsDeterministicForSeed(t *testing.T) {
	t.Parallel()

	server := newFeedServer(t)
	sc := NewRSSScanner(newTestClient(server), nil)

	scan := func() []int {
		req := scanner.Request{
			SiteName:   "medium",
			Rand:       simulation.NewSeededRNG(77),
			Categories: []scanner.Category{{Name: "tds", URL: server.URL + "/feed/tds"}},
		}
		articles, err := sc.Scan(context.Background(), req)
		if err != nil {
			t.Fatalf("Scan error: %v", err)
		}
		out := make([]int, 0, len(articles))
		for _, a := range articles {
			out = append(out, a.Claps, a.ReadingTimeMinutes, a.WordCount)
		}
		return out
	}

	first, second := scan(), scan()
	if len(first) != len(second) {
		t.Fatalf("length mismatch")
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("estimates differ at %d: %v vs %v", i, first, second)
		}
	}
}

func TestRSSScannerRequiresFeeds(t *testing.T) {
	t.Parallel()

	sc := NewRSSScanner(nil, nil)
	_, err := sc.Scan(context.Background(), scanner.Request{SiteName: "empty"})
	if err == nil || !strings.Contains(err.Error(), "no feeds") {
		t.Fatalf("expected missing feeds error, got %v", err)
	}
}
