package utils

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

// Titles and bodies are plain text; strip every tag rather than allowing a UGC subset.
var sanitizer = bluemonday.StrictPolicy()

// Sanitize removes HTML tags from user supplied content to prevent stored XSS.
// The result is plain text: bluemonday entity-escapes its output, so the
// escaping is undone to keep characters like & and < intact through a
// store-and-fetch round trip. Escaping for display is the renderer's job.
func Sanitize(input string) string {
	return html.UnescapeString(sanitizer.Sanitize(input))
}
