// Package htmlsanitize strips markup from client-supplied text before it
// is persisted or interpolated into notification emails. The public lead
// form and the client portal accept free text from unauthenticated
// visitors, so everything they send goes through the strict policy.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Clean removes all HTML from s and trims surrounding whitespace.
func Clean(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}

// CleanAll sanitizes a slice in place and returns it, dropping entries
// that end up empty.
func CleanAll(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if c := Clean(s); c != "" {
			out = append(out, c)
		}
	}
	return out
}
