package handler

import "net/http"

// HandleRoot is the API index: a map from resource name to its URL, so a
// client pointed at the bare host can discover the two collections.
//
// GET /
func HandleRoot(w http.ResponseWriter, r *http.Request) {
	base := "http://" + r.Host
	if r.TLS != nil {
		base = "https://" + r.Host
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"snippets": base + "/snippets/",
		"users":    base + "/users/",
	})
}

// HandleHealth is a liveness probe. It reports whether the process is up;
// the Pinger (the database) decides whether it is healthy.
func HandleHealth(ping func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := ping(); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
