package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Envelope wraps a JSON result with report metadata.
type Envelope struct {
	ReportID    string    `json:"reportId"`
	Kind        Kind      `json:"kind"`
	GeneratedAt time.Time `json:"generatedAt"`
	Data        any       `json:"data"`
}

// WriteJSON writes data inside an Envelope as indented JSON. Values keep
// full precision.
func WriteJSON(w io.Writer, kind Kind, data any, opts Options) error {
	d := newDocument(kind, "", opts)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Envelope{
		ReportID:    d.ID,
		Kind:        kind,
		GeneratedAt: d.GeneratedAt,
		Data:        data,
	}); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}
