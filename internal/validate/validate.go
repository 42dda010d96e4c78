// Package validate holds the pure input checks applied to lead submissions
// before anything touches the database.
package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// Basic local@domain.tld shape; anything stricter rejects real addresses.
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	// Algerian mobile numbers: carrier prefix 05, 06 or 07 plus 8 digits.
	phoneRegex = regexp.MustCompile(`^(05|06|07)[0-9]{8}$`)

	strippedChars = strings.NewReplacer("'", "", `"`, "", ";", "", `\`, "")
)

// Email reports whether s looks like a valid email address.
func Email(s string) bool {
	return emailRegex.MatchString(s)
}

// Phone reports whether s is a valid local mobile number.
func Phone(s string) bool {
	return phoneRegex.MatchString(s)
}

// Sanitize strips quote, semicolon and backslash characters, truncates to
// maxLength runes and trims surrounding whitespace. This is a second line
// of defense only; persistence must still use parameterized statements.
func Sanitize(s string, maxLength int) string {
	s = strippedChars.Replace(s)
	if utf8.RuneCountInString(s) > maxLength {
		s = string([]rune(s)[:maxLength])
	}
	return strings.TrimSpace(s)
}
