package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// videoExtensions are the container types picked up during discovery.
var videoExtensions = map[string]bool{
	".mp4": true,
	".mov": true,
	".mkv": true,
	".avi": true,
	".m4v": true,
}

// Scanner discovers video files in a source directory
type Scanner struct{}

// NewScanner creates a new filesystem scanner
func NewScanner() *Scanner {
	return &Scanner{}
}

// ScanDirectory returns the video files directly inside dir, sorted by
// path. Subdirectories are not descended into; segment recorders drop
// their files flat.
func (s *Scanner) ScanDirectory(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading source directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !videoExtensions[ext] {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}

	sort.Strings(files)
	return files, nil
}

// Exists returns true if the file exists
func (s *Scanner) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// FileSize returns the size of the file in bytes, 0 when unreadable.
func (s *Scanner) FileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
