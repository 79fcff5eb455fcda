package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/nhasan/codebin/internal/model"
)

// Identity is the authenticated caller attached to the request context.
// Its absence from the context means the request is anonymous.
type Identity struct {
	UserID   int64
	Username string
}

// contextKey is unexported so no other package can read or shadow the
// identity value — a plain string key would be collidable.
type contextKey struct{}

var identityKey contextKey

// Verifier resolves credentials to a user. Implemented by the auth service;
// an interface here keeps the middleware testable and this package free of
// repository imports.
type Verifier interface {
	// VerifyPassword checks a username/password pair (HTTP Basic).
	VerifyPassword(ctx context.Context, username, password string) (*model.User, error)
	// VerifyToken checks a bearer token and resolves its user.
	VerifyToken(ctx context.Context, token string) (*model.User, error)
}

// Identify extracts the caller's identity from the Authorization header and
// stores it in the request context. Two schemes are accepted: HTTP Basic
// (username/password on every request) and Bearer (a JWT from /auth/token/).
//
// A request without an Authorization header proceeds as anonymous — route
// handlers decide whether that's acceptable. A request WITH credentials that
// don't verify is rejected 401 immediately: bad credentials are an error,
// not a fallback to anonymous.
func Identify(verifier Verifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r) // anonymous
				return
			}

			user, err := identify(r, verifier, header)
			if err != nil {
				logger.Debug("authentication failed",
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()),
				)
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, Identity{
				UserID:   user.ID,
				Username: user.Username,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext returns the authenticated identity, or ok=false for an
// anonymous request.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	ident, ok := ctx.Value(identityKey).(Identity)
	return ident, ok
}

func identify(r *http.Request, verifier Verifier, header string) (*model.User, error) {
	if strings.HasPrefix(header, "Basic ") {
		username, password, ok := r.BasicAuth()
		if !ok {
			return nil, errAuth("malformed Basic credentials")
		}
		return verifier.VerifyPassword(r.Context(), username, password)
	}

	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return verifier.VerifyToken(r.Context(), strings.TrimSpace(token))
	}

	return nil, errAuth("unsupported authorization scheme")
}

// unauthorized writes the 401 inline rather than going through the handler
// package's helpers — that would be an import cycle.
func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="codebin"`)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"unauthorized","message":"invalid authentication credentials"}`))
}

type errAuth string

func (e errAuth) Error() string { return string(e) }
