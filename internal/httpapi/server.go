// Package httpapi serves the latest pipeline run over HTTP.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"DataDigest/internal/domain"
	"DataDigest/internal/infrastructure/export"
	"DataDigest/internal/ports"
)

type summaryResponse struct {
	RunID      string         `json:"run_id"`
	Day        string         `json:"day"`
	FinishedAt time.Time      `json:"finished_at"`
	Outputs    []string       `json:"outputs"`
	Summary    domain.Summary `json:"summary"`
}

// NewRouter exposes /healthz, /summary and /datasets/{kind}.
func NewRouter(store ports.SnapshotStore, log *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	r.Get("/summary", func(w http.ResponseWriter, r *http.Request) {
		snap, ok := store.Latest()
		if !ok {
			writeError(w, http.StatusNotFound, "no completed run yet")
			return
		}
		writeJSON(w, log, summaryResponse{
			RunID:      snap.RunID,
			Day:        snap.Day,
			FinishedAt: snap.FinishedAt,
			Outputs:    snap.Outputs,
			Summary:    snap.Dataset.Summary,
		})
	})

	r.Get("/datasets/{kind}", func(w http.ResponseWriter, r *http.Request) {
		kind := domain.DatasetKind(chi.URLParam(r, "kind"))
		snap, ok := store.Latest()
		if !ok {
			writeError(w, http.StatusNotFound, "no completed run yet")
			return
		}
		c, ok := snap.Dataset.Collection(kind)
		if !ok {
			writeError(w, http.StatusNotFound, "unknown dataset "+string(kind))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := export.WriteJSON(w, c); err != nil && log != nil {
			log.Error("write dataset", "kind", kind, "error", err)
		}
	})

	return r
}

// NewServer wraps the router in an http.Server listening on addr.
func NewServer(addr string, store ports.SnapshotStore, log *slog.Logger) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           NewRouter(store, log),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil && log != nil {
		log.Error("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
