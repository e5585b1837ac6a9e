// Package normalize centralizes canonical forms for user-entered fields
// so lookups and uniqueness checks behave consistently.
package normalize

import "strings"

// Email lowercases and trims an email address. Emails are matched
// case-insensitively everywhere (login, duplicate checks).
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace and collapses interior runs of
// whitespace to single spaces.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
