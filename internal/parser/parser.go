package parser

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/richardkriesman/batterypack/internal/fileutil"
)

// ImportParser extracts module specifiers from one family of source files.
type ImportParser interface {
	Language() string
	Extensions() []string
	Parse(filename string, content []byte) (*FileImports, error)
}

// Registry picks an ImportParser by file extension.
type Registry struct {
	byExt map[string]ImportParser
}

func NewRegistry(parsers ...ImportParser) *Registry {
	r := &Registry{byExt: make(map[string]ImportParser)}
	for _, p := range parsers {
		r.Register(p)
	}
	return r
}

// Register maps each of p's extensions to p. Later registrations win.
func (r *Registry) Register(p ImportParser) {
	for _, ext := range p.Extensions() {
		r.byExt[strings.ToLower(ext)] = p
	}
}

// ParserFor returns the parser registered for filename's extension.
func (r *Registry) ParserFor(filename string) (ImportParser, bool) {
	p, ok := r.byExt[strings.ToLower(filepath.Ext(filename))]
	return p, ok
}

// ParseContent parses already-read content. Files with no registered parser
// yield nil. Imports are trimmed, sorted and de-duplicated.
func (r *Registry) ParseContent(path string, content []byte) (*FileImports, error) {
	p, ok := r.ParserFor(path)
	if !ok {
		return nil, nil
	}

	result, err := p.Parse(path, content)
	if err != nil {
		return nil, fmt.Errorf("%s parser: %w", p.Language(), err)
	}
	result.Imports = uniqueSorted(result.Imports)
	return result, nil
}

// HashContent returns the short content hash used to key parse results.
func HashContent(content []byte) string {
	return fileutil.HashBytes(content)
}

func uniqueSorted(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" || seen[value] {
			continue
		}
		seen[value] = true
		out = append(out, value)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}
