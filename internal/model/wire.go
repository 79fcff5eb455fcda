package model

// Wire shapes: the JSON representations exchanged with clients. They are kept
// separate from the storage structs so that read-only and derived fields are
// explicit, and so a struct like User (which carries a password hash) can
// never be serialized by accident.

// SnippetListItem is the shape used in list responses. It omits Highlighted —
// the rendered HTML can be large, and list consumers only need the metadata.
type SnippetListItem struct {
	ID       int64  `json:"id"`
	Owner    string `json:"owner"`
	Title    string `json:"title"`
	Code     string `json:"code"`
	Linenos  bool   `json:"linenos"`
	Language string `json:"language"`
	Style    string `json:"style"`
}

// SnippetDetail is the shape used in single-snippet responses (GET by id,
// and the bodies returned from create and update). It adds Highlighted.
type SnippetDetail struct {
	SnippetListItem
	Highlighted string `json:"highlighted"`
}

// UserDetail is the public shape of a user: identity plus the ids of the
// snippets it owns.
type UserDetail struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Snippets []int64 `json:"snippets"`
}

// NewSnippetListItem maps a stored snippet to its list representation.
func NewSnippetListItem(s *Snippet) SnippetListItem {
	return SnippetListItem{
		ID:       s.ID,
		Owner:    s.Owner,
		Title:    s.Title,
		Code:     s.Code,
		Linenos:  s.Linenos,
		Language: s.Language,
		Style:    s.Style,
	}
}

// NewSnippetDetail maps a stored snippet to its detail representation.
func NewSnippetDetail(s *Snippet) SnippetDetail {
	return SnippetDetail{
		SnippetListItem: NewSnippetListItem(s),
		Highlighted:     s.Highlighted,
	}
}

// NewUserDetail maps a user and its owned snippet ids to the public shape.
// snippetIDs may be empty but the JSON field is always a list, never null.
func NewUserDetail(u *User, snippetIDs []int64) UserDetail {
	if snippetIDs == nil {
		snippetIDs = []int64{}
	}
	return UserDetail{
		ID:       u.ID,
		Username: u.Username,
		Snippets: snippetIDs,
	}
}
