package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"DataDigest/internal/domain"
	"DataDigest/internal/ports"
)

const stampLayout = "20060102_150405"

// Supported file formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// Exporter writes each collection of a dataset into timestamped files.
type Exporter struct {
	dir     string
	formats []string
	logger  *slog.Logger
}

var _ ports.DatasetExporter = (*Exporter)(nil)

// NewExporter targets dir; no formats means both csv and json.
func NewExporter(dir string, formats []string, log *slog.Logger) *Exporter {
	if len(formats) == 0 {
		formats = []string{FormatCSV, FormatJSON}
	}
	return &Exporter{dir: dir, formats: formats, logger: log}
}

// Export writes <kind>_<stamp>.<format> for every collection plus summary_<stamp>.json.
// Empty collections are still written.
func (e *Exporter) Export(ctx context.Context, ds domain.Dataset, stamp time.Time) ([]string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	suffix := stamp.Format(stampLayout)
	var paths []string

	for _, c := range ds.Collections() {
		for _, format := range e.formats {
			if err := ctx.Err(); err != nil {
				return paths, err
			}

			var write func(io.Writer, domain.Collection) error
			switch format {
			case FormatCSV:
				write = WriteCSV
			case FormatJSON:
				write = WriteJSON
			default:
				return paths, fmt.Errorf("unsupported export format %q", format)
			}

			path := filepath.Join(e.dir, fmt.Sprintf("%s_%s.%s", c.Kind, suffix, format))
			if err := writeFile(path, func(w io.Writer) error { return write(w, c) }); err != nil {
				return paths, fmt.Errorf("export %s: %w", c.Kind, err)
			}
			paths = append(paths, path)
			e.debug("collection exported", "kind", c.Kind, "format", format, "rows", c.Len(), "path", path)
		}
	}

	summaryPath := filepath.Join(e.dir, fmt.Sprintf("summary_%s.json", suffix))
	err := writeFile(summaryPath, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(ds.Summary)
	})
	if err != nil {
		return paths, fmt.Errorf("export summary: %w", err)
	}
	paths = append(paths, summaryPath)

	return paths, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func (e *Exporter) debug(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}
}
