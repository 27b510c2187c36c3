// Package utils provides utility functions for the application.
package utils

import (
	"net/url"
	"strings"
)

// commonTLDs used to sniff URL-shaped identifiers that lack a scheme.
var commonTLDs = []string{".com", ".org", ".net", ".io", ".co", ".us", ".info", ".realtor", ".realestate"}

// NormalizeItemID canonicalizes a listing identifier before it is stored in
// or looked up against CRM contacts and list memberships. URL-shaped input
// (a scheme, a www. prefix, or a common TLD) is parsed, trailing slashes are
// stripped from the path, and the whole result is lower-cased, so the same
// logical listing cannot appear twice under differently-formatted URLs.
// Non-URL input is returned trimmed and unchanged. Empty input returns nil.
//
// Normalization is a fixed point: normalizing an already-normalized value
// yields the same value.
func NormalizeItemID(raw string) *string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	if !looksLikeURL(s) {
		return &s
	}

	withScheme := s
	if !strings.Contains(s, "://") {
		withScheme = "https://" + s
	}
	u, err := url.Parse(withScheme)
	if err != nil || u.Host == "" {
		lowered := strings.ToLower(s)
		return &lowered
	}

	u.Path = strings.TrimRight(u.Path, "/")
	normalized := strings.ToLower(u.Host + u.Path)
	return &normalized
}

func looksLikeURL(s string) bool {
	lower := strings.ToLower(s)
	if strings.Contains(lower, "://") || strings.Contains(lower, "www.") {
		return true
	}
	for _, tld := range commonTLDs {
		if strings.Contains(lower, tld) {
			return true
		}
	}
	return false
}
