package languages

import "strings"

// unquote strips the quotes tree-sitter keeps around string literals.
func unquote(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) >= 2 {
		first, last := raw[0], raw[len(raw)-1]
		if (first == '"' || first == '\'' || first == '`') && first == last {
			return raw[1 : len(raw)-1]
		}
	}
	return raw
}
