package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"DataDigest/internal/domain"
)

// WriteJSON writes the collection as an indented array of objects whose keys
// follow the collection's column order. An empty collection is written as [].
func WriteJSON(w io.Writer, c domain.Collection) error {
	var buf bytes.Buffer
	buf.WriteString("[")

	for i, row := range c.Rows {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  {")

		values := row.Values()
		if len(values) != len(c.Columns) {
			return fmt.Errorf("row %d has %d values, want %d", i, len(values), len(c.Columns))
		}
		for j, col := range c.Columns {
			if j > 0 {
				buf.WriteString(",")
			}
			key, _ := json.Marshal(col)
			val, err := json.Marshal(values[j])
			if err != nil {
				return fmt.Errorf("encode %s of row %d: %w", col, i, err)
			}
			buf.WriteString("\n    ")
			buf.Write(key)
			buf.WriteString(": ")
			buf.Write(val)
		}
		buf.WriteString("\n  }")
	}

	if len(c.Rows) > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("]\n")

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}
