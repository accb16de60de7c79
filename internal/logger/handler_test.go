package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"path"
	"runtime"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/tracelog"
)

type ctxKey struct{}

func newTestLogger(t *testing.T, buf *bytes.Buffer) *slog.Logger {
	t.Helper()

	_, thisFile, _, _ := runtime.Caller(0)

	h, err := NewHandler(buf, slog.LevelDebug, "json", path.Dir(thisFile), ctxKey{})
	if err != nil {
		t.Fatalf("NewHandler returned error: %v", err)
	}

	return slog.New(h)
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("log output is not json: %v (%s)", err, buf.String())
	}

	return rec
}

func TestHandler_TrimsSourceAndAddsRequestId(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(t, &buf)

	ctx := context.WithValue(context.Background(), ctxKey{}, "req-1")
	l.InfoContext(ctx, "book added")

	rec := decode(t, &buf)

	if rec["request_id"] != "req-1" {
		t.Fatalf("expected request_id req-1, got %v", rec["request_id"])
	}

	src, ok := rec[slog.SourceKey].(map[string]any)
	if !ok {
		t.Fatalf("expected source attribute, got %v", rec[slog.SourceKey])
	}

	if src["file"] != "handler_test.go" {
		t.Fatalf("expected file relative to root, got %v", src["file"])
	}
}

func TestHandler_WithAttrsKeepsRequestId(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(t, &buf).With("component", "storage")

	ctx := context.WithValue(context.Background(), ctxKey{}, "req-2")
	l.InfoContext(ctx, "listed")

	rec := decode(t, &buf)

	if rec["request_id"] != "req-2" || rec["component"] != "storage" {
		t.Fatalf("expected request id and attrs to survive With, got %v", rec)
	}
}

func TestNewHandler_RejectsUnknownFormat(t *testing.T) {
	if _, err := NewHandler(&bytes.Buffer{}, slog.LevelInfo, "xml", "/", nil); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestPGXTracer_MapsLevelsAndDropsArgs(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(newTestLogger(t, &buf))
	t.Cleanup(func() {
		slog.SetDefault(prev)
	})

	tr := NewPGXTracer()
	tr.Logger.Log(context.Background(), tracelog.LogLevelWarn, "Query", map[string]any{
		"sql":  "select 1",
		"args": []any{"secret"},
		"pid":  uint32(7),
	})

	rec := decode(t, &buf)

	if rec[slog.LevelKey] != "WARN" {
		t.Fatalf("expected WARN, got %v", rec[slog.LevelKey])
	}

	if _, ok := rec["args"]; ok || strings.Contains(buf.String(), "secret") {
		t.Fatalf("args must not be logged: %s", buf.String())
	}

	if rec["sql"] != "select 1" {
		t.Fatalf("expected sql attribute, got %v", rec["sql"])
	}

	src, ok := rec[slog.SourceKey].(map[string]any)
	if !ok || src["file"] != "handler_test.go" {
		t.Fatalf("expected source to point at the caller, got %v", rec[slog.SourceKey])
	}
}
