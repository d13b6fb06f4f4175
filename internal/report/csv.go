package report

import (
	"encoding/csv"
	"fmt"
	"io"
)

// utf8BOM makes spreadsheet applications detect UTF-8.
const utf8BOM = "\xef\xbb\xbf"

// WriteCSV writes d as UTF-8 CSV with a leading byte order mark.
func WriteCSV(w io.Writer, d *Document) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}
	cw := csv.NewWriter(w)
	for _, row := range d.Rows {
		if err := cw.Write(row.Cells); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}
	return nil
}
