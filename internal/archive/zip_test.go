package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildZip writes the given entries into an in-memory archive. Entries with
// a trailing slash become directory entries with no content.
func buildZip(t *testing.T, entries map[string][]byte, order []string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, name := range order {
		f, err := w.Create(name)
		require.NoError(t, err)
		if content := entries[name]; content != nil {
			_, err = f.Write(content)
			require.NoError(t, err)
		}
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestExtractSkipsDirectoriesAndEmptyNames(t *testing.T) {
	data := buildZip(t, map[string][]byte{
		"a/1.jpg": []byte("one"),
		"a/2.png": []byte("two"),
		"b/":      nil,
		"c.jpg":   []byte("three"),
	}, []string{"a/1.jpg", "a/2.png", "b/", "c.jpg"})

	entries, err := Extract(data, "test.zip")
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "1.jpg", entries[0].Name)
	assert.Equal(t, "a", entries[0].Folder)
	assert.Equal(t, []byte("one"), entries[0].Data)

	assert.Equal(t, "2.png", entries[1].Name)
	assert.Equal(t, "a", entries[1].Folder)

	assert.Equal(t, "c.jpg", entries[2].Name)
	assert.Equal(t, "", entries[2].Folder, "root entry has no containing folder")
}

func TestExtractInnermostFolder(t *testing.T) {
	data := buildZip(t, map[string][]byte{
		"outer/inner/file.pdf": []byte("deep"),
	}, []string{"outer/inner/file.pdf"})

	entries, err := Extract(data, "test.zip")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "inner", entries[0].Folder)
}

func TestExtractCorruptArchive(t *testing.T) {
	_, err := Extract([]byte("this is not a zip"), "https://x/bad.zip")
	require.Error(t, err)

	var badArchive *BadArchiveError
	require.True(t, errors.As(err, &badArchive))
	assert.Equal(t, "https://x/bad.zip", badArchive.Source)
}

func TestGroupByFolder(t *testing.T) {
	data := buildZip(t, map[string][]byte{
		"a/1.jpg": []byte("one"),
		"a/2.png": []byte("two"),
		"b/":      nil,
		"c.jpg":   []byte("three"),
	}, []string{"a/1.jpg", "a/2.png", "b/", "c.jpg"})

	entries, err := Extract(data, "test.zip")
	require.NoError(t, err)

	groups := GroupByFolder(entries)
	require.Len(t, groups, 1)
	assert.Equal(t, "a", groups[0].Name)

	var names []string
	for _, e := range groups[0].Entries {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"1.jpg", "2.png"}, names)
}

func TestGroupByFolderPreservesArchiveOrder(t *testing.T) {
	data := buildZip(t, map[string][]byte{
		"z/1.jpg": []byte("1"),
		"a/2.jpg": []byte("2"),
		"z/3.jpg": []byte("3"),
	}, []string{"z/1.jpg", "a/2.jpg", "z/3.jpg"})

	entries, err := Extract(data, "test.zip")
	require.NoError(t, err)

	groups := GroupByFolder(entries)
	require.Len(t, groups, 2)
	// Folders appear in the order they first occur in the archive.
	assert.Equal(t, "z", groups[0].Name)
	assert.Equal(t, "a", groups[1].Name)
	assert.Len(t, groups[0].Entries, 2)
}
