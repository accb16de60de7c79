package logger

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/tracelog"
)

var tracerFile = func() string {
	_, file, _, _ := runtime.Caller(0)
	return file
}()

// NewPGXTracer forwards pgx query logs to the default slog logger.
// Query arguments are dropped, they carry book contents.
func NewPGXTracer() *tracelog.TraceLog {
	return &tracelog.TraceLog{
		Logger: tracelog.LoggerFunc(func(ctx context.Context, l tracelog.LogLevel, msg string, data map[string]any) {
			logger := slog.Default()

			lvl, known := pgxLevel(l)
			if !logger.Enabled(ctx, lvl) {
				return
			}

			attrs := make([]slog.Attr, 0, len(data)+1)
			for k, v := range data {
				switch k {
				case "args":
				case "pid":
				default:
					attrs = append(attrs, slog.Any(k, v))
				}
			}

			sort.Slice(attrs, func(i, j int) bool {
				return attrs[i].Key < attrs[j].Key
			})

			if !known {
				attrs = append(attrs, slog.Any("INVALID_PGX_LOG_LEVEL", l))
			}

			r := slog.NewRecord(time.Now(), lvl, "pgx: "+msg, callerPC())
			r.AddAttrs(attrs...)
			_ = logger.Handler().Handle(ctx, r)
		}),
		LogLevel: tracelog.LogLevelDebug,
	}
}

// callerPC returns the first frame outside this file and the database
// packages, so the source attribute points at the code that ran the statement.
func callerPC() uintptr {
	var pcs [32]uintptr
	// skip [runtime.Callers, this function]
	n := runtime.Callers(2, pcs[:])

	for _, pc := range pcs[:n] {
		f, _ := runtime.CallersFrames([]uintptr{pc}).Next()
		if f.File == tracerFile ||
			strings.HasPrefix(f.Function, "github.com/jackc/pgx/") ||
			strings.HasPrefix(f.Function, "github.com/georgysavva/scany/") ||
			strings.HasPrefix(f.Function, "database/sql.") ||
			strings.HasPrefix(f.Function, "runtime.") {
			continue
		}

		return pc
	}

	return 0
}

func pgxLevel(l tracelog.LogLevel) (slog.Level, bool) {
	switch l {
	case tracelog.LogLevelTrace, tracelog.LogLevelDebug, tracelog.LogLevelInfo:
		return slog.LevelDebug, true
	case tracelog.LogLevelWarn:
		return slog.LevelWarn, true
	case tracelog.LogLevelError:
		return slog.LevelError, true
	}

	return slog.LevelError, false
}
