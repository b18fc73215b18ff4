package utils

import (
	"regexp"
	"strings"
)

var (
	slugInvalid  = regexp.MustCompile(`[^a-z0-9\-]+`)
	slugCollapse = regexp.MustCompile(`-{2,}`)
)

// SlugifyEmail derives a booking-link slug from the local part of an email
// address, falling back to the given name when the email is empty.
func SlugifyEmail(email, fallback string) string {
	base := fallback
	if email != "" {
		base = strings.SplitN(email, "@", 2)[0]
	}
	base = strings.ToLower(base)
	base = slugInvalid.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-")
	base = slugCollapse.ReplaceAllString(base, "-")
	if base == "" {
		return strings.ToLower(fallback)
	}
	return base
}

// UniqueSlugSuffix disambiguates a taken slug with the tail of the host OID.
func UniqueSlugSuffix(base, oid string) string {
	tail := oid
	if len(oid) > 6 {
		tail = oid[len(oid)-6:]
	}
	return base + "-" + strings.ToLower(tail)
}
