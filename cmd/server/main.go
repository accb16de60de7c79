package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path"
	"runtime"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/joho/godotenv/autoload"

	"library/internal/logger"
	"library/internal/response"
	"library/internal/server"
	"library/internal/storage"
	"library/internal/storage/books"
)

func getEnvOrDefault(key, default_ string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}

	return default_
}

func getBoolEnv(key string) bool {
	if val := strings.ToLower(os.Getenv(key)); val == "yes" || val == "on" || val == "true" {
		return true
	}

	return false
}

var (
	logLevel  = strings.ToLower(getEnvOrDefault("LOG_LEVEL", "debug"))
	logFormat = strings.ToLower(getEnvOrDefault("LOG_FORMAT", "text"))
	dbPath    = getEnvOrDefault("DATABASE_PATH", "library.db")
	dbConnStr = os.Getenv("DATABASE_URL")
	bindAddr  = getEnvOrDefault("BIND_ADDR", ":8080")
	debugMode = getBoolEnv("DEBUG_MODE")
)

func main() {
	_, thisFile, _, _ := runtime.Caller(0)

	var lvl slog.Level
	lvlErr := lvl.UnmarshalText([]byte(logLevel))
	if lvlErr != nil {
		lvl = slog.LevelDebug
	}

	err := logger.SetupSLog(lvl, logFormat, path.Dir(path.Dir(path.Dir(thisFile))), middleware.RequestIDKey)
	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}

	if lvlErr != nil {
		slog.Error("Invalid log level specified in LOG_LEVEL, one of debug, info, warn or error expected")
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := storage.Open(ctx, storage.Config{
		Path:   dbPath,
		Url:    dbConnStr,
		Tracer: logger.NewPGXTracer(),
	})
	if err != nil {
		slog.Error("failed to open library store: " + err.Error())
		os.Exit(1)
	}

	br := books.NewCachedRepository(books.NewSQLRepository(db, slog.Default()))

	err = br.EnsureSchema(ctx)
	if err != nil {
		slog.Error("failed to initialize library store: " + err.Error())
		_ = db.Close()
		os.Exit(1)
	}

	rr, err := response.NewResponder(debugMode)
	if err != nil {
		slog.Error("failed to load page templates: " + err.Error())
		_ = db.Close()
		os.Exit(1)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Mount("/", server.Handler(br, rr))

	slog.Info("library manager listening", slog.String("addr", bindAddr), slog.String("store", string(db.Dialect)))

	err = http.ListenAndServe(bindAddr, r)
	slog.Error("aborting: " + err.Error())
	_ = db.Close()
	os.Exit(1)
}
