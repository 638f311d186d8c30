// Package ingest turns tabular byte streams into typed values one row at a time.
package ingest

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"
)

// Format names a record parser strategy.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatXLSX Format = "xlsx"
)

// Extension returns the file extension used for sources of this format.
func (f Format) Extension() string {
	return "." + string(f)
}

// Record is one data row keyed by lower-cased header name.
type Record struct {
	Source string
	Line   int
	Fields map[string]string
}

// Get returns the trimmed value of the named column, or "" if absent.
func (r Record) Get(name string) string {
	return strings.TrimSpace(r.Fields[strings.ToLower(name)])
}

// Has reports whether the named column exists in the source header.
func (r Record) Has(name string) bool {
	_, ok := r.Fields[strings.ToLower(name)]
	return ok
}

// RecordParser splits a stream into records. The header row is consumed
// and never yielded. A malformed row yields a *ParseError and iteration
// continues with the next row; the caller decides whether to stop.
type RecordParser interface {
	Parse(source string, r io.Reader) iter.Seq2[Record, error]
}

// ParserFor returns the strategy registered for format.
func ParserFor(format Format) (RecordParser, error) {
	switch format {
	case FormatCSV:
		return NewCSVParser(','), nil
	case FormatTSV:
		return NewCSVParser('\t'), nil
	case FormatXLSX:
		return NewXLSXParser(""), nil
	default:
		return nil, fmt.Errorf("unsupported record format %q", format)
	}
}

var ErrFieldCount = errors.New("wrong number of fields")

// ParseError is a structural failure in the input.
type ParseError struct {
	Source string
	Line   int
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: parse error: %v", e.Source, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ConversionError is a well-formed row whose values cannot become an entity.
type ConversionError struct {
	Source string
	Line   int
	Field  string
	Err    error
}

func (e *ConversionError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s:%d: column %q: %v", e.Source, e.Line, e.Field, e.Err)
	}
	return fmt.Sprintf("%s:%d: %v", e.Source, e.Line, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// ResourceCloseError is reported when a source fails to close. It is only logged.
type ResourceCloseError struct {
	Source string
	Err    error
}

func (e *ResourceCloseError) Error() string {
	return fmt.Sprintf("close %s: %v", e.Source, e.Err)
}

func (e *ResourceCloseError) Unwrap() error { return e.Err }

// IsRowError reports whether err concerns a single row, as opposed to the
// source as a whole.
func IsRowError(err error) bool {
	var pe *ParseError
	var ce *ConversionError
	return errors.As(err, &pe) || errors.As(err, &ce)
}

func normalizeHeader(cols []string) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(c, "\ufeff")))
	}
	return names
}

func isBlank(cols []string) bool {
	for _, c := range cols {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func newRecord(source string, line int, names, cols []string) Record {
	fields := make(map[string]string, len(names))
	for i, name := range names {
		if name == "" {
			continue
		}
		if i < len(cols) {
			fields[name] = cols[i]
		} else {
			fields[name] = ""
		}
	}
	return Record{Source: source, Line: line, Fields: fields}
}
