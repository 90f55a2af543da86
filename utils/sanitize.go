package utils

import "github.com/microcosm-cc/bluemonday"

var sanitizer = bluemonday.StrictPolicy()

// Sanitize strips all HTML from user supplied text. Chat replies echo the
// input back, so markup must never survive the round trip.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}
