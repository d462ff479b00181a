package fetcher

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeZIP(t *testing.T, entries map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "archive.zip")
	out, err := os.Create(path)
	require.NoError(t, err)

	w := zip.NewWriter(out)
	for name, content := range entries {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	require.NoError(t, out.Close())

	return path
}

func TestExtractZIP(t *testing.T) {
	path := writeZIP(t, map[string]string{
		"ilgeo2020.pl":      "geo rows",
		"il000012020.pl":    "table rows",
		"nested/readme.txt": "notes",
	})

	dest := t.TempDir()
	extracted, err := ExtractZIP(path, dest)
	require.NoError(t, err)
	require.Len(t, extracted, 3)

	for _, p := range extracted {
		_, err := os.Stat(p)
		require.NoError(t, err)
	}

	data, err := os.ReadFile(filepath.Join(dest, "nested", "readme.txt"))
	require.NoError(t, err)
	assert.Equal(t, "notes", string(data))
}

func TestExtractZIPSingle(t *testing.T) {
	t.Run("one file", func(t *testing.T) {
		path := writeZIP(t, map[string]string{"blocks.csv": "17,031"})

		extracted, err := ExtractZIPSingle(path, t.TempDir())
		require.NoError(t, err)

		data, err := os.ReadFile(extracted)
		require.NoError(t, err)
		assert.Equal(t, "17,031", string(data))
	})

	t.Run("two files is an error", func(t *testing.T) {
		path := writeZIP(t, map[string]string{"a.csv": "a", "b.csv": "b"})

		_, err := ExtractZIPSingle(path, t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected exactly 1")
	})
}

func TestExtractZIP_RejectsZipSlip(t *testing.T) {
	path := writeZIP(t, map[string]string{"../escape.txt": "bad"})

	_, err := ExtractZIP(path, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "illegal path")
}

func TestExtractZIP_MissingArchive(t *testing.T) {
	_, err := ExtractZIP(filepath.Join(t.TempDir(), "nope.zip"), t.TempDir())
	require.Error(t, err)
}
