package common

import (
	"net/url"
	"strings"
)

// HasAny returns true if s contains any of the substrings.
func HasAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// PathQuote percent-encodes s the way a URL path segment quoter does: every
// byte outside the unreserved set is escaped, spaces become %20 and '/' is
// left alone.
func PathQuote(s string) string {
	escaped := url.QueryEscape(s)
	escaped = strings.ReplaceAll(escaped, "+", "%20")
	return strings.ReplaceAll(escaped, "%2F", "/")
}
