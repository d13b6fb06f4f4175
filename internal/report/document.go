// Package report renders calculation results as CSV, XLSX, JSON and
// terminal tables.
//
// CSV and XLSX output share one row model, Document, built by
// ProductDocument, ContractDocument and LaborDocument. Numbers are rounded
// to the requested precision only here; calculation results are never
// rounded upstream.
package report

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Kind identifies a report layout.
type Kind string

// Report kinds.
const (
	KindProduct  Kind = "product"
	KindContract Kind = "contract"
	KindLabor    Kind = "labor"
	KindFuel     Kind = "fuel"
	KindFactors  Kind = "factors"
)

// DefaultPrecision is the number of decimals used when Options.Precision is
// negative.
const DefaultPrecision = 4

// Row is one output line. Heading rows start a section and are emphasized
// in XLSX output.
type Row struct {
	Cells   []string
	Heading bool
}

// Document is a rendered report ready to be written as CSV or XLSX.
type Document struct {
	ID          string
	Kind        Kind
	Title       string
	GeneratedAt time.Time
	Rows        []Row
}

// Options control document generation.
type Options struct {
	// Precision is the number of decimals; negative means DefaultPrecision.
	Precision int
	// Now stamps the document; nil means time.Now.
	Now func() time.Time
	// ID overrides the generated report ID.
	ID string
}

func (o Options) precision() int {
	if o.Precision < 0 {
		return DefaultPrecision
	}
	return o.Precision
}

func newDocument(kind Kind, title string, opts Options) *Document {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	id := opts.ID
	if id == "" {
		id = NewID()
	}
	return &Document{ID: id, Kind: kind, Title: title, GeneratedAt: now()}
}

// NewID returns a new sortable report identifier.
func NewID() string {
	return ulid.Make().String()
}

func (d *Document) add(cells ...string) {
	d.Rows = append(d.Rows, Row{Cells: cells})
}

func (d *Document) heading(cells ...string) {
	d.Rows = append(d.Rows, Row{Cells: cells, Heading: true})
}

func (d *Document) blank() {
	d.Rows = append(d.Rows, Row{Cells: []string{""}})
}

// header writes the title block shared by every layout.
func (d *Document) header() {
	d.heading(d.Title)
	d.add("Report ID", d.ID)
	d.add("Generated", d.GeneratedAt.Format(time.RFC3339))
}

// numFormatter renders floats at a fixed precision.
type numFormatter int

func (p numFormatter) num(v float64) string {
	return strconv.FormatFloat(v, 'f', int(p), 64)
}

func (p numFormatter) pct(v float64) string {
	return p.num(v) + "%"
}

// plain renders activity data as entered, without padding zeros.
func plain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

//nolint:gochecknoglobals // Compiled once.
var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Filename suggests a file name for d in the given extension ("csv",
// "xlsx" or "json").
func Filename(d *Document, subject, ext string) string {
	var prefix string
	switch d.Kind {
	case KindProduct:
		prefix = "PCF_Report"
	case KindContract:
		prefix = "Comprehensive_Report"
	default:
		prefix = "Labor_Report"
	}
	subject = strings.Trim(unsafeFilenameChars.ReplaceAllString(subject, "_"), "_")
	if subject == "" {
		subject = d.ID
	}
	return prefix + "_" + subject + "." + ext
}
