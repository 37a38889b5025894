package services

import (
	"net/mail"
	"strings"
)

// NormalizeAuthEmail lowercases and trims raw. It returns the empty string
// when the result is not a parseable address, so callers treat "" as
// invalid input.
func NormalizeAuthEmail(raw string) string {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return ""
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ""
	}
	return email
}
