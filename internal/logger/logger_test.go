package logger

import (
	"context"
	"testing"

	"github.com/docforge/docforge/internal/config"
)

func TestNewSync(t *testing.T) {
	l, closer := New(config.Logging{Level: "debug", Service: "docforge-test"})
	defer closer.Close()
	if l == nil {
		t.Fatal("nil logger")
	}
}

func TestNewAsync(t *testing.T) {
	l, closer := New(config.Logging{Level: "debug", Service: "docforge-test", Async: true})
	if l == nil {
		t.Fatal("nil logger")
	}
	closer.Close()
}

func TestParseLevel(t *testing.T) {
	cases := map[string]string{
		"debug":   "DEBUG",
		"info":    "INFO",
		"warn":    "WARN",
		"warning": "WARN",
		"error":   "ERROR",
		"unknown": "INFO",
		"":        "INFO",
	}
	for input, want := range cases {
		if got := parseLevel(input).String(); got != want {
			t.Errorf("parseLevel(%q) = %s, want %s", input, got, want)
		}
	}
}

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := context.Background()
	if got := RequestID(ctx); got != "" {
		t.Errorf("empty context id = %q", got)
	}

	ctx = WithRequestID(ctx, "req-123")
	if got := RequestID(ctx); got != "req-123" {
		t.Errorf("id = %q, want req-123", got)
	}
}
