package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"library/internal/types"
)

func TestOpen_SQLite(t *testing.T) {
	db, err := Open(context.Background(), Config{Path: filepath.Join(t.TempDir(), "library.db")})
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer db.Close()

	if db.Dialect != DialectSQLite {
		t.Fatalf("expected sqlite dialect, got %q", db.Dialect)
	}
}

func TestOpen_Unavailable(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "empty path", cfg: Config{}},
		{name: "missing directory", cfg: Config{Path: filepath.Join(t.TempDir(), "missing", "library.db")}},
		{name: "malformed url", cfg: Config{Url: "postgres://%zz"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(context.Background(), tt.cfg)
			if !errors.Is(err, types.ErrStorageUnavailable) {
				t.Fatalf("expected ErrStorageUnavailable, got %v", err)
			}
		})
	}
}
