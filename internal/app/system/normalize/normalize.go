// internal/app/system/normalize/normalize.go
package normalize

import (
	"net/mail"
	"regexp"
	"strings"
)

// Email trims surrounding whitespace and lower-cases the address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace. Case is preserved.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Phone trims surrounding whitespace. The number is otherwise stored as
// the user typed it, so login must use the same form.
func Phone(s string) string {
	return strings.TrimSpace(s)
}

// Optional prefix +91, 91 or 0, then ten digits starting 6-9.
var indianMobile = regexp.MustCompile(`^(\+?91|0)?[6-9]\d{9}$`)

// IsIndianMobile reports whether s is a valid Indian mobile number.
func IsIndianMobile(s string) bool {
	return indianMobile.MatchString(s)
}

// IsEmail reports whether s is a bare address of the form local@domain.
// Display names ("Bob <bob@x.com>") are rejected.
func IsEmail(s string) bool {
	if s == "" || strings.ContainsAny(s, " <>") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndex(s, "@")
	return at > 0 && strings.Contains(s[at+1:], ".")
}
