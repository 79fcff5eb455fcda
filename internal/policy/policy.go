// Package policy decides whether a request may act on a snippet.
//
// "Owner or read-only": anyone may read, only the authenticated owner may
// mutate. The decision is a pure function — no I/O, no state — and the
// service layer evaluates it before any store mutation is attempted.
package policy

import "net/http"

// safeMethods are the read-only HTTP methods, always allowed.
var safeMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodOptions: true,
}

// Allows reports whether a request may proceed against a snippet owned by
// ownerID. requesterID is only meaningful when authenticated is true.
//
// Create (POST) has no target snippet yet, so any authenticated identity
// passes; callers use ownerID == requesterID there by construction.
func Allows(method string, authenticated bool, requesterID, ownerID int64) bool {
	if safeMethods[method] {
		return true
	}
	if !authenticated {
		return false
	}
	if method == http.MethodPost {
		return true
	}
	return requesterID == ownerID
}
