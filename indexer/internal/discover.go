package internal

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// NormalizeExt guarantees a leading dot, so "md" and ".md" mean the same
// thing on the command line.
func NormalizeExt(ext string) string {
	if !strings.HasPrefix(ext, ".") {
		return "." + ext
	}
	return ext
}

// FindFiles recursively collects every file under root matching one of the
// extensions. The result is the per-extension union, so overlapping
// extensions (".md" and ".note.md") can legitimately produce duplicates.
// Unreadable directory entries are skipped, not fatal.
func FindFiles(root string, fileTypes []string) ([]string, map[string]int, error) {
	var walked []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		walked = append(walked, path)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	var found []string
	counts := make(map[string]int)
	for _, fileType := range fileTypes {
		ext := NormalizeExt(fileType)
		for _, path := range walked {
			if strings.HasSuffix(path, ext) {
				found = append(found, path)
				counts[ext]++
			}
		}
	}
	return found, counts, nil
}
