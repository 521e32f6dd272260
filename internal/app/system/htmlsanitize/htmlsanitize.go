// Package htmlsanitize detects markup in user-authored text. Text is
// stored exactly as typed; callers reject input the strict policy would
// have to alter.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// IsPlainText reports whether s contains no tags, comments or other
// markup. Entity-looking text such as "&lt;b&gt;" and bare "<" or "&"
// characters are plain text.
//
// Ampersands are escaped before sanitizing so the policy's tokenizer
// cannot decode entities, and the comparison is against the escaped
// original, so a true result means the policy dropped nothing.
func IsPlainText(s string) bool {
	if s == "" {
		return true
	}
	s = newlines.Replace(s)
	guarded := strings.ReplaceAll(s, "&", "&amp;")
	return strict.Sanitize(guarded) == html.EscapeString(s)
}
