package persistence

import (
	"bytes"
	"fmt"
	"os"

	"github.com/richardkriesman/batterypack/internal/errs"
	"github.com/richardkriesman/batterypack/internal/fileutil"
	"gopkg.in/yaml.v3"
)

// Store holds one YAML-backed record in memory. Changes to Data are only
// written when Flush is called.
type Store[T any] struct {
	path   string
	exists bool
	Data   T
}

// Load reads the record at path. A missing file yields the zero record.
func Load[T any](path string) (*Store[T], error) {
	s := &Store[T]{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if errs.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	s.exists = true

	if len(bytes.TrimSpace(data)) == 0 {
		return s, nil
	}
	if err := yaml.Unmarshal(data, &s.Data); err != nil {
		return nil, errs.Wrap(err, errs.KindConfigSchema, "failed to parse %s", path)
	}
	return s, nil
}

// Path returns the file backing the store.
func (s *Store[T]) Path() string {
	return s.path
}

// Exists reports whether the backing file was present at load time or has
// been flushed since.
func (s *Store[T]) Exists() bool {
	return s.exists
}

// Flush writes the record back to disk. Unchanged content is not rewritten.
func (s *Store[T]) Flush() error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s.Data); err != nil {
		return fmt.Errorf("failed to encode %s: %w", s.path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode %s: %w", s.path, err)
	}
	if err := fileutil.WriteIfChanged(s.path, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}
	s.exists = true
	return nil
}
