package trace

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestServerSpanName(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/encode", func(http.ResponseWriter, *http.Request) {})
	mux.HandleFunc("GET /api/v1/variants/{number}", func(http.ResponseWriter, *http.Request) {})
	mux.HandleFunc("/", func(http.ResponseWriter, *http.Request) {})

	cases := []struct {
		method, path string
		want         string
	}{
		{http.MethodPost, "/api/v1/encode", "POST /api/v1/encode"},
		{http.MethodGet, "/api/v1/variants/42", "GET /api/v1/variants/{number}"},
		// 兜底路由不按原始路径命名
		{http.MethodGet, "/random/path", "GET UNMATCHED"},
	}
	for _, tc := range cases {
		r := httptest.NewRequest(tc.method, tc.path, nil)
		mux.ServeHTTP(httptest.NewRecorder(), r)
		if got := ServerSpanName("http", r); got != tc.want {
			t.Fatalf("%s %s: got %q, want %q", tc.method, tc.path, got, tc.want)
		}
	}

	// 还没经过路由时沿用 operation
	r := httptest.NewRequest(http.MethodGet, "/x", nil)
	if got := ServerSpanName("http", r); got != "http" {
		t.Fatalf("before routing: got %q, want %q", got, "http")
	}
}
