package ingest

import (
	"errors"
	"io"
	"iter"
	"sync"

	"go.uber.org/zap"
)

// Converter maps one record to a domain value. It never returns a
// partially filled value together with a nil error.
type Converter[T any] interface {
	Convert(rec Record) (T, error)
}

type ConverterFunc[T any] func(rec Record) (T, error)

func (f ConverterFunc[T]) Convert(rec Record) (T, error) {
	return f(rec)
}

// Ingest lazily parses src and converts each record. Row errors are
// yielded as they occur. src is closed exactly once when iteration ends
// for any reason; a close failure is logged and never replaces the
// iteration's own outcome.
func Ingest[T any](src io.ReadCloser, source string, parser RecordParser, conv Converter[T], log *zap.Logger) iter.Seq2[T, error] {
	var once sync.Once
	closeSource := func() {
		once.Do(func() {
			if err := src.Close(); err != nil {
				log.Warn("failed to close seed source",
					zap.String("source", source),
					zap.Error(&ResourceCloseError{Source: source, Err: err}),
				)
			}
		})
	}

	return func(yield func(T, error) bool) {
		defer closeSource()
		var zero T
		for rec, err := range parser.Parse(source, src) {
			if err != nil {
				if !yield(zero, err) {
					return
				}
				continue
			}
			v, err := conv.Convert(rec)
			if err != nil {
				var convErr *ConversionError
				if !errors.As(err, &convErr) {
					err = &ConversionError{Source: source, Line: rec.Line, Err: err}
				}
				if !yield(zero, err) {
					return
				}
				continue
			}
			if !yield(v, nil) {
				return
			}
		}
	}
}

// RowPolicy decides what a row error does to the surrounding stage.
type RowPolicy string

const (
	RowPolicyAbort RowPolicy = "abort"
	RowPolicySkip  RowPolicy = "skip"
)

// Collect drains seq. Under RowPolicySkip, row errors are logged and
// counted; any other error, or any row error under RowPolicyAbort, stops
// collection and is returned.
func Collect[T any](seq iter.Seq2[T, error], policy RowPolicy, log *zap.Logger) ([]T, int, error) {
	var out []T
	skipped := 0
	for v, err := range seq {
		if err != nil {
			if policy == RowPolicySkip && IsRowError(err) {
				skipped++
				log.Warn("skipping malformed seed row", zap.Error(err))
				continue
			}
			return nil, skipped, err
		}
		out = append(out, v)
	}
	return out, skipped, nil
}
