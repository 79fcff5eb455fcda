package handler

import (
	"log/slog"
	"net/http"

	"github.com/nhasan/codebin/internal/service"
)

// AuthHandler exchanges a username/password pair for a bearer token. Clients
// that don't want to send Basic credentials on every request authenticate
// once here and use `Authorization: Bearer <token>` afterwards.
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

func NewAuthHandler(auth *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

type tokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// HandleToken issues an access token.
//
// POST /auth/token/
func (h *AuthHandler) HandleToken(w http.ResponseWriter, r *http.Request) {
	var in tokenRequest
	if !decodeBody(w, r, &in) {
		return
	}

	token, err := h.auth.IssueToken(r.Context(), in.Username, in.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}
