package main

import "strings"

// rewriteLink swaps the authority of link for newDomain, keeping
// whatever follows the third slash. This is a literal segment
// operation, not URL parsing: a link with no path comes back as
// newDomain plus a bare trailing slash, losing its original form.
// Stored links depend on these exact semantics, so don't swap in
// net/url here
func rewriteLink(link, newDomain string) string {
	parts := strings.SplitN(link, "/", 4)

	suffix := ""
	if len(parts) > 3 {
		suffix = parts[3]
	}

	return strings.TrimRight(newDomain, "/") + "/" + suffix
}
