package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFormatSuffix(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/snippets/1.json", "/snippets/1/"},
		{"/snippets.json", "/snippets/"},
		{"/snippets/", "/snippets/"},
		{"/snippets/1/", "/snippets/1/"},
		{"/", "/"},
	}

	for _, tt := range tests {
		var got string
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.URL.Path
		})
		req := httptest.NewRequest(http.MethodGet, tt.in, nil)
		FormatSuffix(next).ServeHTTP(httptest.NewRecorder(), req)

		if got != tt.want {
			t.Errorf("FormatSuffix(%q) routed %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNegotiateJSON(t *testing.T) {
	tests := []struct {
		accept     string
		wantStatus int
	}{
		{"", http.StatusOK},
		{"application/json", http.StatusOK},
		{"*/*", http.StatusOK},
		{"application/*", http.StatusOK},
		{"text/html, application/json;q=0.9", http.StatusOK},
		{"text/html", http.StatusNotAcceptable},
		{"application/xml", http.StatusNotAcceptable},
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/snippets/", nil)
		if tt.accept != "" {
			req.Header.Set("Accept", tt.accept)
		}
		rr := httptest.NewRecorder()
		NegotiateJSON(next).ServeHTTP(rr, req)

		if rr.Code != tt.wantStatus {
			t.Errorf("Accept %q: status = %d, want %d", tt.accept, rr.Code, tt.wantStatus)
		}
	}
}
