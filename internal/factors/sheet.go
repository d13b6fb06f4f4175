package factors

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/greenledger/pcfcalc/internal/emissions"
	"github.com/greenledger/pcfcalc/internal/logging"
)

// DefaultSheetIDBase is added to the zero-based data row index to build the
// IDs of materials imported from a sheet.
const DefaultSheetIDBase = 1000

// Column layout of an exported material sheet. Column 0 (a category or row
// number in the source sheet) and column 4 are not used.
const (
	sheetColName  = 1
	sheetColValue = 2
	sheetColUnit1 = 3
	sheetColUnit2 = 5
)

// ParseMaterialCSV reads an exported material sheet in CSV form. The first
// row is a header. Blank lines are skipped.
func ParseMaterialCSV(r io.Reader, idBase int) ([]emissions.MaterialFactor, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading material CSV: %w", err)
	}
	return materialsFromRows(rows, idBase)
}

// ParseMaterialXLSX reads the active sheet of an XLSX workbook laid out like
// the CSV export.
func ParseMaterialXLSX(r io.Reader, idBase int) ([]emissions.MaterialFactor, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening material workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	return materialsFromRows(rows, idBase)
}

// materialsFromRows converts sheet rows (header first) into factors.
// Unparseable factors become 0; missing names and units get defaults.
func materialsFromRows(rows [][]string, idBase int) ([]emissions.MaterialFactor, error) {
	data := make([][]string, 0, len(rows))
	for i, row := range rows {
		if i == 0 || isBlankRow(row) {
			continue
		}
		data = append(data, row)
	}
	if len(data) == 0 {
		return nil, ErrEmptySheet
	}

	out := make([]emissions.MaterialFactor, 0, len(data))
	for i, row := range data {
		out = append(out, emissions.MaterialFactor{
			ID:     strconv.Itoa(idBase + i),
			Name:   cellOr(row, sheetColName, "Unknown"),
			Factor: parseFactor(cell(row, sheetColValue)),
			Unit1:  cellOr(row, sheetColUnit1, emissions.DefaultEmissionUnit),
			Unit2:  cellOr(row, sheetColUnit2, emissions.DefaultDeclarationUnit),
		})
	}
	return out, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func cellOr(row []string, i int, fallback string) string {
	if v := cell(row, i); v != "" {
		return v
	}
	return fallback
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseFactor reads the leading decimal number of a cell, so "6.7 kg"
// gives 6.7 and "1,234" gives 1. A cell with no leading number is 0.
func parseFactor(s string) float64 {
	v, err := strconv.ParseFloat(numericPrefix(strings.TrimSpace(s)), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// numericPrefix returns the longest prefix of s that is a decimal float:
// optional sign, digits with at most one point, and an exponent only when
// it has digits.
func numericPrefix(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for ; i < len(s) && isDigit(s[i]); i++ {
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for ; i < len(s) && isDigit(s[i]); i++ {
			digits++
		}
	}
	if digits == 0 {
		return ""
	}
	end := i
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		start := j
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j > start {
			end = j
		}
	}
	return s[:end]
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// LoadMaterialSheet reads a .csv or .xlsx material sheet from disk.
func LoadMaterialSheet(ctx context.Context, path string, idBase int) ([]emissions.MaterialFactor, error) {
	log := logging.FromContext(ctx)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading material sheet %s: %w", path, err)
	}

	var materials []emissions.MaterialFactor
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		materials, err = ParseMaterialCSV(bytes.NewReader(stripBOM(data)), idBase)
	case ".xlsx":
		materials, err = ParseMaterialXLSX(bytes.NewReader(data), idBase)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSheetFormat, ext)
	}
	if err != nil {
		log.Warn().Ctx(ctx).
			Str("component", "factors").
			Str("operation", "load_sheet").
			Str("path", path).
			Err(err).
			Msg("material sheet rejected")
		return nil, err
	}

	log.Debug().Ctx(ctx).
		Str("component", "factors").
		Str("operation", "load_sheet").
		Str("path", path).
		Int("materials", len(materials)).
		Msg("material sheet loaded")
	return materials, nil
}

// stripBOM removes a leading UTF-8 byte order mark.
func stripBOM(b []byte) []byte {
	return bytes.TrimPrefix(b, []byte("\xef\xbb\xbf"))
}
