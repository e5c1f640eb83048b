package ignore

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar"
)

// DefaultRules are excluded from every source scan.
var DefaultRules = []string{
	".git/",
	".batterypack/",
	".yarn/",
	"node_modules/",
	"build/",
	"coverage/",
}

type rule struct {
	pattern  string
	negated  bool
	dirOnly  bool
	anchored bool
}

// rooted reports whether the rule is matched against the whole path from
// the project root. Rules with a slash in them are rooted even without a
// leading slash, as in gitignore.
func (r rule) rooted() bool {
	return r.anchored || strings.Contains(r.pattern, "/")
}

// matches reports whether relPath or any directory above it is covered by
// the rule.
func (r rule) matches(relPath string, isDir bool) bool {
	segments := strings.Split(relPath, "/")
	for i := range segments {
		last := i == len(segments)-1
		if r.dirOnly && last && !isDir {
			continue
		}
		subject := segments[i]
		if r.rooted() {
			subject = strings.Join(segments[:i+1], "/")
		}
		if ok, err := doublestar.Match(r.pattern, subject); err == nil && ok {
			return true
		}
	}
	return false
}

// Matcher applies gitignore rules from a project's configuration. The last
// matching rule decides, so negations can re-include paths.
type Matcher struct {
	rules []rule
}

// NewMatcher prepends DefaultRules to userRules. Blank lines and comments
// are dropped.
func NewMatcher(userRules []string) *Matcher {
	rules := make([]rule, 0, len(DefaultRules)+len(userRules))
	for _, source := range [][]string{DefaultRules, userRules} {
		for _, line := range source {
			if parsed, ok := parseRule(line); ok {
				rules = append(rules, parsed)
			}
		}
	}
	return &Matcher{rules: rules}
}

// ShouldIgnore reports whether relPath, relative to the project root, is
// excluded.
func (m *Matcher) ShouldIgnore(relPath string, isDir bool) bool {
	relPath = normalizePath(relPath)
	if relPath == "" {
		return false
	}
	ignored := false
	for _, r := range m.rules {
		if r.matches(relPath, isDir) {
			ignored = !r.negated
		}
	}
	return ignored
}

func parseRule(line string) (rule, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return rule{}, false
	}

	var parsed rule
	if rest, ok := strings.CutPrefix(line, "!"); ok {
		parsed.negated = true
		line = rest
	}
	line = strings.TrimPrefix(line, "./")
	if rest, ok := strings.CutPrefix(line, "/"); ok {
		parsed.anchored = true
		line = rest
	}
	if rest, ok := strings.CutSuffix(line, "/"); ok {
		parsed.dirOnly = true
		line = rest
	}

	parsed.pattern = normalizePath(line)
	if parsed.pattern == "" {
		return rule{}, false
	}
	return parsed, true
}

// String renders the rule in normalized ignore-file form.
func (r rule) String() string {
	var b strings.Builder
	if r.negated {
		b.WriteString("!")
	}
	if r.anchored {
		b.WriteString("/")
	}
	b.WriteString(r.pattern)
	if r.dirOnly {
		b.WriteString("/")
	}
	return b.String()
}

func normalizePath(path string) string {
	path = filepath.ToSlash(path)
	path = strings.TrimPrefix(path, "./")
	return strings.Trim(path, "/")
}
