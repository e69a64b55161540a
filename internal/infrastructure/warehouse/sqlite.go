// Package warehouse is the local columnar-warehouse stand-in: raw tables in
// SQLite with a declared schema, reloaded wholesale on every run.
package warehouse

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"DataDigest/internal/domain"
	"DataDigest/internal/ports"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const (
	loadRunsTable = "load_runs"
	batchSize     = 200
)

// Tables maps each collection kind to its raw warehouse table.
var Tables = map[domain.DatasetKind]string{
	domain.KindArticles:         "raw_articles",
	domain.KindSocialMentions:   "raw_social_mentions",
	domain.KindForumSubmissions: "raw_forum_submissions",
	domain.KindTraffic:          "raw_web_analytics",
}

// LoadRun records one table load.
type LoadRun struct {
	RunID    string
	Table    string
	RowCount int
	LoadedAt string
}

// Warehouse loads collections into SQLite tables.
type Warehouse struct {
	db      *sql.DB
	builder sq.StatementBuilderType
	logger  *slog.Logger
	now     func() time.Time
}

var _ ports.WarehouseLoader = (*Warehouse)(nil)

// Open opens the database at path and applies the embedded schema.
func Open(ctx context.Context, path string, log *slog.Logger) (*Warehouse, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("warehouse path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := ApplyMigrations(ctx, db, migrationFS, "migrations"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Warehouse{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Question),
		logger:  log,
		now:     time.Now,
	}, nil
}

// Close closes the SQLite handle.
func (w *Warehouse) Close() error {
	if w == nil || w.db == nil {
		return nil
	}
	return w.db.Close()
}

// Load truncates and refills each collection's table in one transaction, then
// records a load_runs row per table. Nothing is visible until every table loads.
func (w *Warehouse) Load(ctx context.Context, runID string, collections []domain.Collection) error {
	if w == nil || w.db == nil {
		return fmt.Errorf("warehouse is not configured")
	}

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin load: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	loadedAt := w.now().UTC().Format(time.RFC3339)
	for _, c := range collections {
		table, ok := Tables[c.Kind]
		if !ok {
			return fmt.Errorf("no warehouse table for %s", c.Kind)
		}
		if err := w.replaceTable(ctx, tx, table, c); err != nil {
			return fmt.Errorf("load %s: %w", table, err)
		}

		query, args, err := w.builder.Insert(loadRunsTable).
			Columns("run_id", "table_name", "row_count", "loaded_at").
			Values(runID, table, c.Len(), loadedAt).
			ToSql()
		if err != nil {
			return fmt.Errorf("build load run: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("record load run %s: %w", table, err)
		}

		w.debug("table loaded", "table", table, "rows", c.Len())
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit load: %w", err)
	}
	return nil
}

func (w *Warehouse) replaceTable(ctx context.Context, tx *sql.Tx, table string, c domain.Collection) error {
	query, args, err := w.builder.Delete(table).ToSql()
	if err != nil {
		return fmt.Errorf("build truncate: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}

	for start := 0; start < len(c.Rows); start += batchSize {
		end := min(start+batchSize, len(c.Rows))

		insert := w.builder.Insert(table).Columns(c.Columns...)
		for _, row := range c.Rows[start:end] {
			insert = insert.Values(row.Values()...)
		}

		query, args, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("build insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert rows %d-%d: %w", start, end, err)
		}
	}
	return nil
}

// RowCount returns the number of rows currently in table.
func (w *Warehouse) RowCount(ctx context.Context, table string) (int, error) {
	query, args, err := w.builder.Select("COUNT(*)").From(table).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}
	var n int
	if err := w.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

// LoadRuns lists the table loads recorded for runID.
func (w *Warehouse) LoadRuns(ctx context.Context, runID string) ([]LoadRun, error) {
	query, args, err := w.builder.
		Select("run_id", "table_name", "row_count", "loaded_at").
		From(loadRunsTable).
		Where(sq.Eq{"run_id": runID}).
		OrderBy("table_name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build load runs query: %w", err)
	}

	rows, err := w.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query load runs: %w", err)
	}
	defer rows.Close()

	var runs []LoadRun
	for rows.Next() {
		var r LoadRun
		if err := rows.Scan(&r.RunID, &r.Table, &r.RowCount, &r.LoadedAt); err != nil {
			return nil, fmt.Errorf("scan load run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return runs, nil
}

func (w *Warehouse) debug(msg string, args ...any) {
	if w.logger != nil {
		w.logger.Debug(msg, args...)
	}
}
