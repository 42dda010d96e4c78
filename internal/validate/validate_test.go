package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  bool
	}{
		{"prefix 05", "0551234567", true},
		{"prefix 06", "0661234567", true},
		{"prefix 07", "0771234567", true},
		{"wrong prefix 04", "0451234567", false},
		{"wrong prefix 08", "0851234567", false},
		{"nine digits", "055123456", false},
		{"eleven digits", "05512345678", false},
		{"letters", "05512345ab", false},
		{"international format", "+213551234567", false},
		{"empty", "", false},
		{"too short", "123", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Phone(tt.phone))
		})
	}
}

func TestEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  bool
	}{
		{"simple", "ali@example.com", true},
		{"subdomain", "ali@mail.example.dz", true},
		{"missing at", "ali.example.com", false},
		{"missing tld", "ali@example", false},
		{"spaces", "ali @example.com", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Email(tt.email))
		})
	}
}

func TestSanitizeStripsDangerousCharacters(t *testing.T) {
	inputs := []string{
		`Ali'; DROP TABLE inquiries;--`,
		`"quoted"`,
		`back\slash`,
		`mix'"of;every\thing`,
	}

	for _, in := range inputs {
		out := Sanitize(in, 500)
		for _, c := range []string{`'`, `"`, `;`, `\`} {
			assert.NotContains(t, out, c, "input %q", in)
		}
	}
}

func TestSanitizeTruncatesAndTrims(t *testing.T) {
	long := strings.Repeat("a", 600)
	assert.Len(t, Sanitize(long, 500), 500)

	assert.Equal(t, "Ali", Sanitize("  Ali  ", 100))
	assert.Equal(t, "", Sanitize("   ", 100))

	// Truncation must not split multi-byte runes.
	arabic := strings.Repeat("و", 10)
	out := Sanitize(arabic, 4)
	assert.Equal(t, strings.Repeat("و", 4), out)
}
