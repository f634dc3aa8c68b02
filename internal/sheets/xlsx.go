package sheets

import (
	"bytes"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// DecodeError reports workbook bytes that could not be parsed at all.
type DecodeError struct {
	File string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot read spreadsheet %s: %v", e.File, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// DecodeXLSX parses an xlsx workbook. The first row of every sheet is its
// header; fully blank rows are skipped. Cells hold their stored values, not
// the number-formatted display text. name is used only in errors.
func DecodeXLSX(r io.Reader, name string) (Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &DecodeError{File: name, Err: err}
	}
	defer f.Close()

	wb := make(Workbook)
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, &DecodeError{File: name, Err: fmt.Errorf("sheet %s: %w", sheetName, err)}
		}
		if len(rows) == 0 {
			wb[sheetName] = &Sheet{Name: sheetName}
			continue
		}
		wb[sheetName] = NewSheet(sheetName, rows[0], rows[1:])
	}
	return wb, nil
}

// Table is one output sheet: a header plus rows of cells in header order.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// EncodeXLSX writes tables as sheets of a new workbook, in order.
func EncodeXLSX(tables ...Table) ([]byte, error) {
	if len(tables) == 0 {
		return nil, fmt.Errorf("encode xlsx: no sheets")
	}
	f := excelize.NewFile()
	defer f.Close()

	for i, t := range tables {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), t.Name); err != nil {
				return nil, fmt.Errorf("rename sheet %s: %w", t.Name, err)
			}
		} else if _, err := f.NewSheet(t.Name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", t.Name, err)
		}
		if err := writeRow(f, t.Name, 1, t.Header); err != nil {
			return nil, err
		}
		for j, row := range t.Rows {
			if err := writeRow(f, t.Name, j+2, row); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("cell name row %d: %w", rowNum, err)
	}
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, rowNum, err)
	}
	return nil
}
