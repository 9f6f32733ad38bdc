// Package datafiles reads and writes the dataset as flat CSV files.
package datafiles

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/angelmondragon/promopulse-backend/pkg/errors"
)

const utf8BOM = "\ufeff"

// sheet is a parsed CSV with its header indexed by column name.
type sheet struct {
	label   string
	columns map[string]int
	rows    [][]string
}

// readSheet parses r and checks that every required column is present. label
// names the table in error messages, e.g. "Products".
func readSheet(r io.Reader, label string, required []string) (*sheet, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = false

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, pkgerrors.Newf(pkgerrors.CodeSchema, "%s file is empty", label)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeSchema, err, label+" header could not be parsed")
	}

	s := &sheet{label: label, columns: make(map[string]int, len(header))}
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		s.columns[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, col := range required {
		if _, ok := s.columns[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, pkgerrors.Newf(pkgerrors.CodeSchema, "%s missing required columns: %s", label, strings.Join(missing, ", ")).
			WithDetails(map[string]any{"table": label, "missing_columns": missing})
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeSchema, err, label+" row could not be parsed")
		}
		s.rows = append(s.rows, record)
	}
	return s, nil
}

func (s *sheet) has(col string) bool {
	_, ok := s.columns[col]
	return ok
}

// cell returns the raw value or "" when the row is short or the column absent.
func (s *sheet) cell(row []string, col string) string {
	idx, ok := s.columns[col]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func (s *sheet) cellError(line int, col, value string, err error) error {
	return pkgerrors.Wrap(pkgerrors.CodeSchema, err,
		fmt.Sprintf("%s row %d: column %s has invalid value %q", s.label, line, col, value))
}

// number parses a required numeric cell.
func (s *sheet) number(row []string, line int, col string) (float64, error) {
	raw := strings.TrimSpace(s.cell(row, col))
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, s.cellError(line, col, raw, err)
	}
	return d.InexactFloat64(), nil
}

// optionalNumber parses a numeric cell; an empty cell yields nil.
func (s *sheet) optionalNumber(row []string, line int, col string) (*float64, error) {
	raw := strings.TrimSpace(s.cell(row, col))
	if raw == "" || strings.EqualFold(raw, "nan") {
		return nil, nil
	}
	v, err := s.number(row, line, col)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// integer parses a whole-number cell. "3.0" is accepted as 3.
func (s *sheet) integer(row []string, line int, col string) (int, error) {
	raw := strings.TrimSpace(s.cell(row, col))
	if v, err := strconv.Atoi(raw); err == nil {
		return v, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, s.cellError(line, col, raw, err)
	}
	if !d.IsInteger() {
		return 0, s.cellError(line, col, raw, errors.New("not a whole number"))
	}
	return int(d.IntPart()), nil
}

// optionalText returns nil only when the column is absent. An empty cell in a
// present column yields a pointer to "" so the cleaner can correct it.
func (s *sheet) optionalText(row []string, col string) *string {
	if !s.has(col) {
		return nil
	}
	v := s.cell(row, col)
	return &v
}
