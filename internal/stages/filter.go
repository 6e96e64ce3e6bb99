package stages

import (
	"strings"
	"unicode"
)

// FilterFunc returns true when a prompt should be kept.
type FilterFunc func(string) bool

// Printable keeps non-empty prompts without control characters. Tabs and newlines
// cannot be entered in the single-line input, so prompts containing them are unwinnable.
func Printable(prompt string) bool {
	if prompt == "" {
		return false
	}
	for _, r := range prompt {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

// FilterPrompts trims each prompt and keeps the ones accepted by keep.
func FilterPrompts(prompts []string, keep FilterFunc) []string {
	out := make([]string, 0, len(prompts))
	for _, p := range prompts {
		p = strings.TrimSpace(p)
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
