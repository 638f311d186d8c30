package seed

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"sound-byte/internal/ingest"
	"sound-byte/internal/seed/initdata"
)

// requiredKinds are the stages that read a file. The sentence series is
// synthesized and reads nothing.
var requiredKinds = []Kind{KindGroups, KindSeries, KindExercises, KindSeries1Tasks, KindSeries2}

// Source is a resolved location holding the seed files.
type Source interface {
	Location() string
	Format() ingest.Format
	Open(kind Kind) (io.ReadCloser, error)
	FileName(kind Kind) string
	// Verify checks that every listed file exists without reading it.
	Verify(kinds []Kind) error
}

// FSSource serves seed files from a filesystem.
type FSSource struct {
	fsys     fs.FS
	location string
	format   ingest.Format
}

func NewFSSource(fsys fs.FS, location string, format ingest.Format) *FSSource {
	return &FSSource{fsys: fsys, location: location, format: format}
}

// NewEmbeddedSource serves the defaults bundled into the binary.
func NewEmbeddedSource() *FSSource {
	return NewFSSource(initdata.Files(), "embedded:initdata", ingest.FormatCSV)
}

// ResolveSource picks the configured folder, or the bundled defaults when
// folder is empty. A folder that is not an existing directory is a
// configuration error.
func ResolveSource(folder string, format ingest.Format) (Source, error) {
	if folder == "" {
		return NewEmbeddedSource(), nil
	}
	info, err := os.Stat(folder)
	if err != nil {
		return nil, &ConfigurationError{Setting: "seed.folder", Value: folder, Err: err}
	}
	if !info.IsDir() {
		return nil, &ConfigurationError{Setting: "seed.folder", Value: folder, Err: errors.New("not a directory")}
	}
	return NewFSSource(os.DirFS(folder), folder, format), nil
}

func (s *FSSource) Location() string      { return s.location }
func (s *FSSource) Format() ingest.Format { return s.format }

func (s *FSSource) FileName(kind Kind) string {
	return string(kind) + s.format.Extension()
}

func (s *FSSource) Open(kind Kind) (io.ReadCloser, error) {
	f, err := s.fsys.Open(s.FileName(kind))
	if err != nil {
		return nil, fmt.Errorf("open %s in %s: %w", s.FileName(kind), s.location, err)
	}
	return f, nil
}

func (s *FSSource) Verify(kinds []Kind) error {
	var missing []string
	for _, kind := range kinds {
		name := s.FileName(kind)
		info, err := fs.Stat(s.fsys, name)
		if err != nil || info.IsDir() {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &SourceMissingError{Location: s.location, Files: missing}
	}
	return nil
}
