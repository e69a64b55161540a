package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

type botServer struct {
	mu       sync.Mutex
	chatID   string
	text     string
	requests []string
}

func (b *botServer) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		b.mu.Lock()
		b.requests = append(b.requests, r.URL.Path)
		b.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/getMe"):
			_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"digest","username":"digest_bot"}}`))
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			b.mu.Lock()
			b.chatID = r.FormValue("chat_id")
			b.text = r.FormValue("text")
			b.mu.Unlock()
			_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":5,"date":0,"chat":{"id":42,"type":"private"},"text":"ok"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"ok":false,"error_code":404,"description":"Not Found"}`))
		}
	}
}

func TestNotifierPublishReport(t *testing.T) {
	t.Parallel()

	srv := &botServer{}
	server := httptest.NewServer(srv.handler(t))
	defer server.Close()

	n := NewNotifier("token", "42").WithEndpoint(server.URL+"/bot%s/%s", server.Client())

	if err := n.PublishReport(context.Background(), "run ok: 3 articles"); err != nil {
		t.Fatalf("PublishReport error: %v", err)
	}
	if err := n.PublishReport(context.Background(), "second"); err != nil {
		t.Fatalf("second PublishReport error: %v", err)
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()
	if srv.chatID != "42" || srv.text != "second" {
		t.Fatalf("unexpected message chat=%s text=%q", srv.chatID, srv.text)
	}
	getMe := 0
	for _, p := range srv.requests {
		if strings.HasSuffix(p, "/getMe") {
			getMe++
		}
		if !strings.HasPrefix(p, "/bottoken/") {
			t.Fatalf("unexpected request path %s", p)
		}
	}
	if getMe != 1 {
		t.Fatalf("expected the bot to connect once, got %d getMe calls", getMe)
	}
}

func TestNotifierMisconfigured(t *testing.T) {
	t.Parallel()

	if err := NewNotifier("", "42").PublishReport(context.Background(), "x"); err == nil {
		t.Fatal("expected misconfiguration error")
	}
	if err := NewNotifier("token", "").PublishReport(context.Background(), "x"); err == nil {
		t.Fatal("expected misconfiguration error")
	}
}

func TestNotifierSurfacesAPIErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":false,"error_code":401,"description":"Unauthorized"}`))
	}))
	defer server.Close()

	n := NewNotifier("bad", "@digest").WithEndpoint(server.URL+"/bot%s/%s", server.Client())
	if err := n.PublishReport(context.Background(), "x"); err == nil {
		t.Fatal("expected unauthorized error")
	}
}
