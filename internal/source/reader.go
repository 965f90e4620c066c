// Package source loads raw quiz text from local files, extracting plain
// text from the formats users actually upload.
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ReadAll extracts every file and concatenates the contents separated by
// blank lines. Files are processed in filename-sorted order so the
// resulting question numbering is deterministic regardless of how the
// paths were passed in. A failed read aborts with the offending file in
// the error.
func ReadAll(paths []string) (string, error) {
	ordered := append([]string(nil), paths...)
	sort.Slice(ordered, func(i, j int) bool {
		bi, bj := filepath.Base(ordered[i]), filepath.Base(ordered[j])
		if bi != bj {
			return bi < bj
		}
		return ordered[i] < ordered[j]
	})

	parts := make([]string, 0, len(ordered))
	for _, path := range ordered {
		text, err := Extract(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		parts = append(parts, strings.TrimRight(text, "\n"))
	}
	return strings.Join(parts, "\n\n"), nil
}

func readPlain(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
