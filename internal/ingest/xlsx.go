package ingest

import (
	"fmt"
	"io"
	"iter"

	"github.com/xuri/excelize/v2"
)

// XLSXParser reads one worksheet of a workbook. An empty sheet name selects
// the first sheet. Line numbers are 1-based spreadsheet row numbers.
// The zip archive is buffered whole by excelize; rows are still decoded and
// yielded one at a time.
type XLSXParser struct {
	sheet string
}

func NewXLSXParser(sheet string) *XLSXParser {
	return &XLSXParser{sheet: sheet}
}

func (p *XLSXParser) Parse(source string, r io.Reader) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		f, err := excelize.OpenReader(r)
		if err != nil {
			yield(Record{}, &ParseError{Source: source, Err: fmt.Errorf("open workbook: %w", err)})
			return
		}
		defer f.Close()

		sheet := p.sheet
		if sheet == "" {
			sheet = f.GetSheetName(0)
		}
		rows, err := f.Rows(sheet)
		if err != nil {
			yield(Record{}, &ParseError{Source: source, Err: fmt.Errorf("sheet %q: %w", sheet, err)})
			return
		}
		defer rows.Close()

		var names []string
		line := 0
		for rows.Next() {
			line++
			cols, err := rows.Columns()
			if err != nil {
				if !yield(Record{}, &ParseError{Source: source, Line: line, Err: err}) {
					return
				}
				continue
			}
			if isBlank(cols) {
				continue
			}
			if names == nil {
				names = normalizeHeader(cols)
				continue
			}
			// trailing empty cells are omitted by excelize, so only overflow is an error
			if len(cols) > len(names) {
				if !yield(Record{}, &ParseError{Source: source, Line: line, Err: ErrFieldCount}) {
					return
				}
				continue
			}
			if !yield(newRecord(source, line, names, cols), nil) {
				return
			}
		}
		if err := rows.Error(); err != nil {
			yield(Record{}, &ParseError{Source: source, Line: line, Err: err})
		}
	}
}
