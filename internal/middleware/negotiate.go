package middleware

import (
	"net/http"
	"strings"
)

// FormatSuffix lets clients pick the response format with a URL suffix
// instead of an Accept header: GET /snippets/1.json is rewritten to
// /snippets/1/ before routing, so both spellings hit the same handler.
// JSON is the only format served, so ".json" is the only suffix.
func FormatSuffix(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if path, ok := strings.CutSuffix(r.URL.Path, ".json"); ok {
			if !strings.HasSuffix(path, "/") {
				path += "/"
			}
			r.URL.Path = path
		}
		next.ServeHTTP(w, r)
	})
}

// NegotiateJSON enforces content negotiation for an API that only speaks
// JSON: a request whose Accept header rules out application/json gets 406.
// No header, `*/*`, and `application/*` all accept JSON.
func NegotiateJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !acceptsJSON(r.Header.Get("Accept")) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotAcceptable)
			w.Write([]byte(`{"error":"not_acceptable","message":"this API only produces application/json"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func acceptsJSON(accept string) bool {
	if accept == "" {
		return true
	}
	for _, part := range strings.Split(accept, ",") {
		// Strip quality parameters: "application/json;q=0.9" → "application/json".
		mediaType := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		switch strings.ToLower(mediaType) {
		case "application/json", "application/*", "*/*":
			return true
		}
	}
	return false
}
