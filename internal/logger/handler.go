package logger

import (
	"context"
	"errors"
	"go/build"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
)

// SetupSLog installs the default logger writing to stderr in format ("text" or "json").
// Source file paths are printed relative to rootPath (or GOPATH for dependencies),
// and the request id found in the context under requestIdKey is attached to every record.
func SetupSLog(lvl slog.Level, format, rootPath string, requestIdKey any) error {
	h, err := NewHandler(os.Stderr, lvl, format, rootPath, requestIdKey)
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(h))
	return nil
}

func NewHandler(w io.Writer, lvl slog.Level, format, rootPath string,
	requestIdKey any) (slog.Handler, error) {

	ho := slog.HandlerOptions{
		Level: lvl,
	}

	var h slog.Handler
	switch format {
	case "json":
		h = slog.NewJSONHandler(w, &ho)
	case "text":
		h = slog.NewTextHandler(w, &ho)
	default:
		return nil, errors.New("LOG_FORMAT must be json or text")
	}

	gopath := os.Getenv("GOPATH")
	if gopath == "" {
		gopath = build.Default.GOPATH
	}

	return &handler{
		baseHandler:  h,
		rootPath:     strings.TrimSuffix(rootPath, "/") + "/",
		goPath:       strings.TrimSuffix(gopath, "/") + "/",
		requestIdKey: requestIdKey,
	}, nil
}

type handler struct {
	baseHandler  slog.Handler
	rootPath     string
	goPath       string
	requestIdKey any
}

func (e *handler) Enabled(ctx context.Context, level slog.Level) bool {
	return e.baseHandler.Enabled(ctx, level)
}

func (e *handler) Handle(ctx context.Context, record slog.Record) error {
	record = record.Clone()

	if record.PC != 0 {
		fs := runtime.CallersFrames([]uintptr{record.PC})
		f, _ := fs.Next()
		file := f.File
		if strings.HasPrefix(file, e.rootPath) {
			file = file[len(e.rootPath):]
		} else if strings.HasPrefix(file, e.goPath) {
			file = file[len(e.goPath):]
		}
		record.AddAttrs(slog.Any(slog.SourceKey, &slog.Source{
			Function: f.Function,
			File:     file,
			Line:     f.Line,
		}))
	}

	if e.requestIdKey != nil {
		if requestId, ok := ctx.Value(e.requestIdKey).(string); ok && requestId != "" {
			record.AddAttrs(slog.String("request_id", requestId))
		}
	}

	return e.baseHandler.Handle(ctx, record)
}

func (e *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *e
	c.baseHandler = e.baseHandler.WithAttrs(attrs)
	return &c
}

func (e *handler) WithGroup(name string) slog.Handler {
	c := *e
	c.baseHandler = e.baseHandler.WithGroup(name)
	return &c
}
