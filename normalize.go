package painpoint

import (
	"regexp"
	"strings"
)

var (
	urlRE          = regexp.MustCompile(`http\S+|www\.\S+`)
	markdownLinkRE = regexp.MustCompile(`\[.*?\]\(.*?\)`)
	mentionRE      = regexp.MustCompile(`/[ru]/\w+`)
	disallowedRE   = regexp.MustCompile(`[^\p{L}\p{N}_\s.!?]`)
)

// Normalize lower-cases text, drops links, markdown link syntax and
// community or user references, replaces every character other than letters,
// digits, underscores, whitespace and . ! ? with a space, and collapses
// whitespace. It never fails; empty input gives an empty string.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ToLower(text)
	text = urlRE.ReplaceAllString(text, "")
	text = markdownLinkRE.ReplaceAllString(text, "")
	text = mentionRE.ReplaceAllString(text, "")
	text = disallowedRE.ReplaceAllString(text, " ")
	return strings.Join(strings.Fields(text), " ")
}
