package library

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ListPDFs returns the PDF files directly inside dir, sorted
// lexicographically by name. The extension match is case-insensitive and
// only regular files are included; subdirectories are not descended into.
func ListPDFs(dir string) ([]FileEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("could not read folder %s: %w", dir, err)
	}

	var files []FileEntry
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, FileEntry{
			Name:    entry.Name(),
			Path:    filepath.Join(dir, entry.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	return files, nil
}

// FilterEntries returns the entries whose name contains query,
// case-insensitively. It is a derived view: the input slice is never
// mutated, and an empty query returns the input unchanged.
func FilterEntries(entries []FileEntry, query string) []FileEntry {
	if query == "" {
		return entries
	}

	needle := strings.ToLower(query)
	var out []FileEntry
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Name), needle) {
			out = append(out, e)
		}
	}
	return out
}
