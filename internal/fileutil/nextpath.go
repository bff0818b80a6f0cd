package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// NextAvailablePath returns dir/filename when that slot is free, otherwise
// the first name_N.ext variant that does not exist yet.
func NextAvailablePath(dir, filename string) (string, error) {
	const maxAttempts = 10000
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return "", fmt.Errorf("empty filename for %s", dir)
	}
	candidate := filepath.Join(dir, filename)
	free, err := pathFree(candidate)
	if err != nil {
		return "", err
	}
	if free {
		return candidate, nil
	}
	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, attempt, ext))
		free, err := pathFree(candidate)
		if err != nil {
			return "", err
		}
		if free {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("exhausted filename slots for %s in %s", filename, dir)
}

func pathFree(path string) (bool, error) {
	if _, err := os.Lstat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return true, nil
		}
		return false, err
	}
	return false, nil
}
