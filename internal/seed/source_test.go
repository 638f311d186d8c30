package seed

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"sound-byte/internal/ingest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSource(t *testing.T) {
	t.Run("empty folder uses bundled defaults", func(t *testing.T) {
		src, err := ResolveSource("", ingest.FormatCSV)
		require.NoError(t, err)
		assert.Equal(t, "embedded:initdata", src.Location())
		assert.NoError(t, src.Verify(requiredKinds))
	})

	t.Run("missing folder", func(t *testing.T) {
		_, err := ResolveSource(filepath.Join(t.TempDir(), "absent"), ingest.FormatCSV)
		var cfgErr *ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "seed.folder", cfgErr.Setting)
	})

	t.Run("folder is a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "groups.csv")
		require.NoError(t, os.WriteFile(path, []byte(groupsHeader), 0o600))
		_, err := ResolveSource(path, ingest.FormatCSV)
		var cfgErr *ConfigurationError
		assert.ErrorAs(t, err, &cfgErr)
	})

	t.Run("directory", func(t *testing.T) {
		dir := writeSeedDir(t, minimalFiles())
		src, err := ResolveSource(dir, ingest.FormatTSV)
		require.NoError(t, err)
		assert.Equal(t, dir, src.Location())
		assert.Equal(t, "groups.tsv", src.FileName(KindGroups))
	})
}

func TestFSSource_VerifyListsEveryMissingFile(t *testing.T) {
	src := NewFSSource(fstest.MapFS{
		"groups.csv":   {Data: []byte(groupsHeader)},
		"1_series.csv": {Data: []byte(series1Header)},
	}, "mem", ingest.FormatCSV)

	err := src.Verify(requiredKinds)

	var missing *SourceMissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"series.csv", "exercises.csv", "2_series.csv"}, missing.Files)
	assert.Contains(t, err.Error(), "mem")
}

func TestFSSource_Open(t *testing.T) {
	src := NewFSSource(fstest.MapFS{"groups.csv": {Data: []byte(groupsHeader)}}, "mem", ingest.FormatCSV)

	rc, err := src.Open(KindGroups)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, groupsHeader, string(data))

	_, err = src.Open(KindSeries)
	assert.ErrorContains(t, err, "series.csv")
}
