package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nhasan/codebin/internal/auth"
	"github.com/nhasan/codebin/internal/model"
	"github.com/nhasan/codebin/internal/service"
)

// SnippetHandler maps the /snippets/ routes onto the snippet service.
// Handlers parse and serialize; every rule — validation, ownership, derived
// fields — lives in the service.
type SnippetHandler struct {
	snippets *service.SnippetService
	logger   *slog.Logger
}

func NewSnippetHandler(snippets *service.SnippetService, logger *slog.Logger) *SnippetHandler {
	return &SnippetHandler{snippets: snippets, logger: logger}
}

// HandleList returns all snippets, oldest first, without the rendered HTML.
//
// GET /snippets/
func (h *SnippetHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	snippets, err := h.snippets.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	items := make([]model.SnippetListItem, 0, len(snippets))
	for i := range snippets {
		items = append(items, model.NewSnippetListItem(&snippets[i]))
	}
	writeJSON(w, http.StatusOK, items)
}

// HandleGet returns one snippet, including its rendered HTML.
//
// GET /snippets/{id}/
func (h *SnippetHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := snippetID(w, r)
	if !ok {
		return
	}

	snippet, err := h.snippets.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.NewSnippetDetail(snippet))
}

// HandleCreate stores a new snippet owned by the authenticated caller.
//
// POST /snippets/
func (h *SnippetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in model.SnippetInput
	if !decodeBody(w, r, &in) {
		return
	}

	snippet, err := h.snippets.Create(r.Context(), identity(r), in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, model.NewSnippetDetail(snippet))
}

// HandleUpdate applies a partial update to a snippet the caller owns.
//
// PUT /snippets/{id}/
func (h *SnippetHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := snippetID(w, r)
	if !ok {
		return
	}

	var in model.SnippetUpdate
	if !decodeBody(w, r, &in) {
		return
	}

	snippet, err := h.snippets.Update(r.Context(), identity(r), id, in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.NewSnippetDetail(snippet))
}

// HandleDelete removes a snippet the caller owns.
//
// DELETE /snippets/{id}/
func (h *SnippetHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := snippetID(w, r)
	if !ok {
		return
	}

	if err := h.snippets.Delete(r.Context(), identity(r), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// identity returns the caller's identity, or nil for anonymous requests.
// The services take the nil pointer as "anonymous".
func identity(r *http.Request) *auth.Identity {
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		return nil
	}
	return &ident
}

// snippetID parses the {id} path parameter. A non-numeric id can't name any
// snippet, so it is a 404, not a 400 — the route simply doesn't exist.
func snippetID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		w.WriteHeader(http.StatusNotFound)
		return 0, false
	}
	return id, true
}

// decodeBody decodes a JSON request body, rejecting undecodable payloads
// with 400 before any validation runs.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "malformed_request",
			Message: "request body is not valid JSON",
		})
		return false
	}
	return true
}
