// Package sheets is the spreadsheet boundary: it turns workbook bytes into
// sheets of header-keyed rows and back.
package sheets

import (
	"sort"
	"strings"
)

// Row maps a column header to the cell's text.
type Row map[string]string

// Sheet is a named, ordered sequence of rows. Columns keeps the header
// order as found in the file.
type Sheet struct {
	Name    string
	Columns []string
	Rows    []Row
}

// Workbook maps sheet names to sheets.
type Workbook map[string]*Sheet

// Get returns the first sheet whose name matches one of names exactly.
func (w Workbook) Get(names ...string) (*Sheet, bool) {
	for _, n := range names {
		if s, ok := w[n]; ok {
			return s, true
		}
	}
	return nil, false
}

// Names returns the sheet names, sorted.
func (w Workbook) Names() []string {
	names := make([]string, 0, len(w))
	for n := range w {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Value returns the trimmed cell for column, or "" when absent.
func (r Row) Value(column string) string {
	return strings.TrimSpace(r[column])
}

// Has reports whether the row carries column at all, blank or not.
func (r Row) Has(column string) bool {
	_, ok := r[column]
	return ok
}

// ResolveColumn returns the first header of s that matches one of aliases
// case-insensitively. Aliases are tried in order.
func (s *Sheet) ResolveColumn(aliases ...string) (string, bool) {
	for _, a := range aliases {
		for _, c := range s.Columns {
			if strings.EqualFold(strings.TrimSpace(c), a) {
				return c, true
			}
		}
	}
	return "", false
}

// NewSheet builds a sheet from a header and data rows; short rows are padded
// with blanks.
func NewSheet(name string, header []string, records [][]string) *Sheet {
	s := &Sheet{Name: name}
	for _, h := range header {
		s.Columns = append(s.Columns, strings.TrimSpace(h))
	}
	for _, rec := range records {
		if isBlank(rec) {
			continue
		}
		row := make(Row, len(s.Columns))
		for j, h := range s.Columns {
			if h == "" {
				continue
			}
			if j < len(rec) {
				row[h] = rec[j]
			} else {
				row[h] = ""
			}
		}
		s.Rows = append(s.Rows, row)
	}
	return s
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
