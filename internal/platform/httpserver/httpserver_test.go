package httpserver

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"hangulnum.local/internal/platform/config"
)

func TestNew_CopiesTimeouts(t *testing.T) {
	cfg := config.Config{
		Addr:              ":1234",
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       2 * time.Second,
		WriteTimeout:      3 * time.Second,
		IdleTimeout:       4 * time.Second,
	}
	srv := New(cfg, http.NotFoundHandler())
	if srv.Addr != ":1234" || srv.ReadHeaderTimeout != time.Second || srv.ReadTimeout != 2*time.Second ||
		srv.WriteTimeout != 3*time.Second || srv.IdleTimeout != 4*time.Second {
		t.Fatalf("unexpected server: %+v", srv)
	}
}

func TestRunWithGracefulShutdownContext_StopsOnCancel(t *testing.T) {
	// 先占一个空闲端口再释放，拿到可用地址
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	srv := New(config.Config{Addr: addr}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- RunWithGracefulShutdownContext(srv, time.Second, ctx) }()

	// 等服务起来
	deadline := time.Now().Add(2 * time.Second)
	for {
		resp, err := http.Get("http://" + addr)
		if err == nil {
			resp.Body.Close()
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server did not start: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("got %v, want nil", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("shutdown timed out")
	}
}

func TestRunWithGracefulShutdownContext_ListenError(t *testing.T) {
	srv := New(config.Config{Addr: "256.0.0.1:bad"}, http.NotFoundHandler())
	if err := RunWithGracefulShutdownContext(srv, time.Second, context.Background()); err == nil {
		t.Fatal("expected listen error")
	}
}
