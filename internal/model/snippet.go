// Package model defines the data structures shared across the application.
// Plain structs, no behaviour — validation and wire mapping live in the
// service and handler layers respectively.
package model

import "time"

// Snippet is a stored code sample plus its rendering metadata.
//
// Highlighted is derived: it is the full HTML rendering of Code under
// Language/Style/Linenos/Title, recomputed by the service layer on every
// write. It is never accepted from clients.
//
// Owner is the username of the owning user, filled in by the store (it joins
// the users table) so callers don't need a second lookup to serialize.
type Snippet struct {
	ID          int64
	Created     time.Time
	OwnerID     int64
	Owner       string
	Title       string
	Code        string
	Linenos     bool
	Language    string
	Style       string
	Highlighted string
}

// SnippetInput is the client-writable portion of a snippet, as sent on create.
// Empty Language/Style mean "use the defaults"; Title is optional.
type SnippetInput struct {
	Title    string `json:"title"`
	Code     string `json:"code"`
	Linenos  bool   `json:"linenos"`
	Language string `json:"language"`
	Style    string `json:"style"`
}

// SnippetUpdate carries a partial update. Pointer fields distinguish
// "omitted" (nil — keep the stored value) from an explicit zero value,
// so `{"title": ""}` clears the title but `{}` changes nothing.
type SnippetUpdate struct {
	Title    *string `json:"title"`
	Code     *string `json:"code"`
	Linenos  *bool   `json:"linenos"`
	Language *string `json:"language"`
	Style    *string `json:"style"`
}
