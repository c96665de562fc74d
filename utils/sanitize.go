package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	ugcPolicy    = bluemonday.UGCPolicy()
	strictPolicy = bluemonday.StrictPolicy()
)

// Sanitize cleans user generated HTML, keeping safe formatting.
func Sanitize(input string) string {
	return strings.TrimSpace(ugcPolicy.Sanitize(input))
}

// SanitizePlain strips all markup, for single line fields such as names.
func SanitizePlain(input string) string {
	return strings.TrimSpace(strictPolicy.Sanitize(input))
}
