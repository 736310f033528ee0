// Package sanitize strips markup from free-text user input before it is
// stored or echoed back.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	scriptRe = regexp.MustCompile(`(?is)<script.*?>.*?</script>`)
	tagRe    = regexp.MustCompile(`<.*?>`)
)

// Strip removes script blocks and HTML tags from text.
func Strip(text string) string {
	if text == "" {
		return text
	}
	text = scriptRe.ReplaceAllString(text, "")
	text = tagRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// StripAll sanitizes every element of a list in place and drops empties.
func StripAll(items []string) []string {
	out := items[:0]
	for _, it := range items {
		if cleaned := Strip(it); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}
