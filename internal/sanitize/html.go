// Package sanitize cleans provider-supplied message bodies before they
// reach the terminal renderer.
package sanitize

import (
	"github.com/jaytaylor/html2text"
	"github.com/microcosm-cc/bluemonday"
)

// HTML strips dangerous markup from a message body using the UGC policy.
func HTML(input string) string {
	policy := bluemonday.UGCPolicy()
	return policy.Sanitize(input)
}

// Text sanitizes a message body and converts it to plain text suitable
// for a terminal viewport. Falls back to the sanitized HTML when the
// conversion fails.
func Text(input string) string {
	clean := HTML(input)
	text, err := html2text.FromString(clean, html2text.Options{PrettyTables: true})
	if err != nil {
		return clean
	}
	return text
}
