package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize_StripsTags(t *testing.T) {
	assert.Equal(t, "bold", Sanitize("<b>bold</b>"))
	assert.Equal(t, "", Sanitize("<script>alert(1)</script>"))
	assert.Equal(t, "click", Sanitize(`<a href="https://evil.example">click</a>`))
}

func TestSanitize_PlainTextRoundTrips(t *testing.T) {
	// Tag-free text must come back byte for byte, entity escaping included.
	for _, s := range []string{
		"wet & dry food",
		"a < b",
		"1 > 0",
		"Tom & Jerry's \"quotes\"",
	} {
		assert.Equal(t, s, Sanitize(s))
	}
}
