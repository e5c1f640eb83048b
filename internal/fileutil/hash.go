package fileutil

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/richardkriesman/batterypack/internal/ignore"
)

// HashBytes returns a short sha256 hex digest.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:16]
}

// ScanFiles lists files under base with one of the given extensions,
// skipping anything the ignore rules exclude. Rules are matched against
// paths relative to rootPath. Returned paths are absolute and sorted.
func ScanFiles(rootPath, base string, extensions []string, ignoreRules []string) ([]string, error) {
	files := make([]string, 0)
	ignoreMatcher := ignore.NewMatcher(ignoreRules)
	allowed := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		allowed[strings.ToLower(ext)] = true
	}

	err := filepath.Walk(base, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			if os.IsNotExist(walkErr) {
				return nil
			}
			return walkErr
		}

		relPath, err := filepath.Rel(rootPath, path)
		if err != nil {
			return err
		}
		if relPath == "." {
			return nil
		}

		if ignoreMatcher.ShouldIgnore(relPath, info.IsDir()) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() {
			return nil
		}

		if !allowed[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		files = append(files, path)

		return nil
	})

	sort.Strings(files)
	return files, err
}
