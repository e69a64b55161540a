package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"DataDigest/internal/domain"
)

// WriteCSV writes the collection as a header line followed by one line per row.
func WriteCSV(w io.Writer, c domain.Collection) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(c.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	record := make([]string, len(c.Columns))
	for i, row := range c.Rows {
		values := row.Values()
		if len(values) != len(c.Columns) {
			return fmt.Errorf("row %d has %d values, want %d", i, len(values), len(c.Columns))
		}
		for j, v := range values {
			record[j] = formatValue(v)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
