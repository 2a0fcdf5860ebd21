package service

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "hello", sanitize("  hello  ", 100))
	assert.Equal(t, "hello", sanitize("hello", 0))
	assert.Equal(t, "hel", sanitize("hello", 3))
}

func TestSanitizeTruncatesOnRuneBoundary(t *testing.T) {
	t.Parallel()

	// Each rune here is multibyte; a byte-offset cut would produce
	// invalid UTF-8.
	value := strings.Repeat("é", 10)
	got := sanitize(value, 4)

	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("é", 4), got)
	assert.Equal(t, 4, utf8.RuneCountInString(got))
}

func TestNormalizeSkills(t *testing.T) {
	t.Parallel()

	got := normalizeSkills([]string{" Photoshop ", "photoshop", "", "Excel"})
	assert.Equal(t, []string{"Photoshop", "Excel"}, got)
}

func TestValidEmail(t *testing.T) {
	t.Parallel()

	assert.True(t, validEmail("alice@example.com"))
	assert.False(t, validEmail("not-an-email"))
	assert.False(t, validEmail("alice@"))
}
