package ignore

import "strings"

// Section is a titled group of rules in a generated ignore file.
type Section struct {
	Title string
	Rules []string
}

// Compose renders sections as ignore-file text. Blank lines and comments in
// rules are dropped, rules are normalized, and a rule that already appeared
// in an earlier section is not repeated. Empty sections are omitted.
func Compose(header string, sections ...Section) string {
	var b strings.Builder
	if header != "" {
		for _, line := range strings.Split(strings.TrimRight(header, "\n"), "\n") {
			b.WriteString("# ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	seen := make(map[string]bool)
	for _, section := range sections {
		rules := make([]string, 0, len(section.Rules))
		for _, line := range section.Rules {
			parsed, ok := parseRule(line)
			if !ok {
				continue
			}
			normalized := parsed.String()
			if seen[normalized] {
				continue
			}
			seen[normalized] = true
			rules = append(rules, normalized)
		}
		if len(rules) == 0 {
			continue
		}

		if b.Len() > 0 {
			b.WriteString("\n")
		}
		if section.Title != "" {
			b.WriteString("# ")
			b.WriteString(section.Title)
			b.WriteString("\n")
		}
		for _, rule := range rules {
			b.WriteString(rule)
			b.WriteString("\n")
		}
	}
	return b.String()
}
