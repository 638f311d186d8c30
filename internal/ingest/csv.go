package ingest

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"iter"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// SkipBOM drops a leading UTF-8 byte order mark.
func SkipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

// CSVParser reads delimiter-separated text with RFC 4180 quoting.
type CSVParser struct {
	comma rune
}

func NewCSVParser(comma rune) *CSVParser {
	return &CSVParser{comma: comma}
}

func (p *CSVParser) Parse(source string, r io.Reader) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		reader := csv.NewReader(SkipBOM(r))
		reader.Comma = p.comma
		reader.FieldsPerRecord = -1

		header, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			yield(Record{}, toParseError(source, err))
			return
		}
		names := normalizeHeader(header)

		for {
			cols, err := reader.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				var csvErr *csv.ParseError
				if !errors.As(err, &csvErr) {
					yield(Record{}, toParseError(source, err))
					return
				}
				if !yield(Record{}, toParseError(source, err)) {
					return
				}
				continue
			}
			line, _ := reader.FieldPos(0)
			if isBlank(cols) {
				continue
			}
			if len(cols) != len(names) {
				if !yield(Record{}, &ParseError{Source: source, Line: line, Err: ErrFieldCount}) {
					return
				}
				continue
			}
			if !yield(newRecord(source, line, names, cols), nil) {
				return
			}
		}
	}
}

func toParseError(source string, err error) *ParseError {
	var csvErr *csv.ParseError
	if errors.As(err, &csvErr) {
		return &ParseError{Source: source, Line: csvErr.StartLine, Err: csvErr.Err}
	}
	return &ParseError{Source: source, Err: err}
}
