// Package slug derives URL-safe identifiers from display names.
package slug

import (
	"regexp"
	"strconv"
	"strings"
)

var nonAlphanumericRun = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases name, replaces every run of characters outside [a-z0-9] with a
// single hyphen and trims hyphens from both ends. Input with no ASCII letters or digits
// yields "".
//
//	Slugify("St. Xavier's College, Mumbai") // "st-xavier-s-college-mumbai"
func Slugify(name string) string {
	s := strings.ToLower(name)
	s = nonAlphanumericRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// WithSuffix returns base for n == 0 and "base-n" otherwise.
func WithSuffix(base string, n int) string {
	if n == 0 {
		return base
	}
	return base + "-" + strconv.Itoa(n)
}
