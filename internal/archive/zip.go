// Package archive extracts files from ZIP payloads and groups them by folder
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"
)

// Entry is one extracted file from an archive.
type Entry struct {
	// Path is the full entry path inside the archive.
	Path string
	// Name is the base file name with all directory components stripped.
	Name string
	// Folder is the innermost containing directory, empty for entries at
	// the archive root.
	Folder string
	// Data is the decompressed file content.
	Data []byte
}

// BadArchiveError reports a payload that could not be opened as a ZIP container.
type BadArchiveError struct {
	Source string
	Err    error
}

func (e *BadArchiveError) Error() string {
	return fmt.Sprintf("invalid zip archive %s: %v", e.Source, e.Err)
}

func (e *BadArchiveError) Unwrap() error { return e.Err }

// Extract opens data as a ZIP container and returns its file entries in
// archive order. Directory entries and entries whose base name is empty are
// skipped. Structural corruption yields a BadArchiveError carrying source;
// no partial results are returned in that case.
func Extract(data []byte, source string) ([]Entry, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &BadArchiveError{Source: source, Err: err}
	}

	var entries []Entry
	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, "/") {
			continue
		}
		name := path.Base(f.Name)
		if name == "" || name == "." || name == "/" {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, &BadArchiveError{Source: source, Err: err}
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, &BadArchiveError{Source: source, Err: err}
		}

		entries = append(entries, Entry{
			Path:   f.Name,
			Name:   name,
			Folder: innermostFolder(f.Name),
			Data:   content,
		})
	}
	return entries, nil
}

// innermostFolder returns the path segment immediately before the file name.
func innermostFolder(entryPath string) string {
	dir := path.Dir(entryPath)
	if dir == "." || dir == "/" {
		return ""
	}
	if i := strings.LastIndex(dir, "/"); i >= 0 {
		return dir[i+1:]
	}
	return dir
}

// FolderGroup holds the entries of one archive folder, in archive order.
type FolderGroup struct {
	Name    string
	Entries []Entry
}

// GroupByFolder buckets entries by their innermost containing directory,
// preserving the order folders first appear in the archive. Entries at the
// archive root have no folder to group under and are excluded.
func GroupByFolder(entries []Entry) []FolderGroup {
	byName := make(map[string]int)

	var groups []FolderGroup
	for _, e := range entries {
		if e.Folder == "" {
			continue
		}
		idx, ok := byName[e.Folder]
		if !ok {
			idx = len(groups)
			byName[e.Folder] = idx
			groups = append(groups, FolderGroup{Name: e.Folder})
		}
		groups[idx].Entries = append(groups[idx].Entries, e)
	}
	return groups
}
