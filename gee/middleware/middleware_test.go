package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hangulnum.local/gee"
)

func TestReqID_GeneratesAndEchoes(t *testing.T) {
	r := gee.New()
	r.Use(ReqID())
	var seen string
	r.GET("/", func(ctx *gee.Context) {
		seen = ctx.RequestID()
		ctx.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if len(seen) != 32 {
		t.Fatalf("request id: got %q, want 32 hex chars", seen)
	}
	if got := w.Header().Get(gee.RequestIDHeader); got != seen {
		t.Fatalf("response header: got %q, want %q", got, seen)
	}
}

func TestReqID_KeepsInbound(t *testing.T) {
	r := gee.New()
	r.Use(ReqID())
	r.GET("/", func(ctx *gee.Context) { ctx.String(http.StatusOK, "ok") })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(gee.RequestIDHeader, "abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get(gee.RequestIDHeader); got != "abc" {
		t.Fatalf("got %q, want abc", got)
	}
}

func TestReqID_ReplacesOversized(t *testing.T) {
	r := gee.New()
	r.Use(ReqID())
	r.GET("/", func(ctx *gee.Context) { ctx.String(http.StatusOK, "ok") })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(gee.RequestIDHeader, strings.Repeat("x", 500))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get(gee.RequestIDHeader); len(got) != 32 {
		t.Fatalf("got %q, want regenerated id", got)
	}
}
