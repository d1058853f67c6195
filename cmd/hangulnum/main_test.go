package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"
	"hangulnum.local/internal/app/hangulnum"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	return runWith(t, hangulnum.Default(), stdin, args...)
}

func runWith(t *testing.T, codec *hangulnum.Codec, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp(strings.NewReader(stdin), &out, codec)
	app.ExitErrHandler = func(*cli.Context, error) {} // 测试里不能 os.Exit
	err := app.Run(append([]string{"hangulnum"}, args...))
	return out.String(), err
}

func TestEncodeCommand_WithSeed(t *testing.T) {
	out, err := run(t, "", "encode", "--seed", "1", "12,345")
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out); got != "간키서" {
		t.Fatalf("got %q, want 간키서", got)
	}
}

func TestEncodeCommand_SeedSkipsSeedSource(t *testing.T) {
	calls := 0
	codec, err := hangulnum.NewCodec(hangulnum.HangulSymbols(), hangulnum.SeedFunc(func() int {
		calls++
		return 0
	}))
	if err != nil {
		t.Fatal(err)
	}

	out, err := runWith(t, codec, "", "encode", "--seed", "1", "12345")
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out); got != "간키서" {
		t.Fatalf("got %q, want 간키서", got)
	}
	if calls != 0 {
		t.Fatalf("seed source called %d times, want 0", calls)
	}

	if _, err := runWith(t, codec, "", "encode", "12345"); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Fatalf("seed source called %d times, want 1", calls)
	}
}

func TestEncodeCommand_RandomSeedRoundTrips(t *testing.T) {
	out, err := run(t, "", "encode", "987654321")
	if err != nil {
		t.Fatal(err)
	}
	out, err = run(t, "", "decode", strings.TrimSpace(out))
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out); got != "987,654,321" {
		t.Fatalf("got %q", got)
	}
}

func TestEncodeCommand_Errors(t *testing.T) {
	if _, err := run(t, "", "encode", "--seed", "128", "1"); err == nil {
		t.Fatal("seed 128: expected error")
	}
	if _, err := run(t, "", "encode", "abc"); err == nil {
		t.Fatal("abc: expected error")
	}
	if _, err := run(t, "", "encode"); err == nil {
		t.Fatal("missing arg: expected error")
	}
}

func TestDecodeCommand(t *testing.T) {
	out, err := run(t, "", "decode", "가크새")
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out); got != "12,345" {
		t.Fatalf("got %q, want 12,345", got)
	}
	if _, err := run(t, "", "decode", "가"); err == nil {
		t.Fatal("too short: expected error")
	}
}

func TestAllCommand(t *testing.T) {
	out, err := run(t, "", "all", "0")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Total: 128 variants, Length: 2 chars each") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestDefaultActionIsREPL(t *testing.T) {
	out, err := run(t, "42\nexit\n")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "All 128 encodings for 42:") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}
