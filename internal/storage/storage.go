package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"library/internal/types"
)

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite3"
	DialectPostgres Dialect = "postgres"
)

type Config struct {
	// Path of the SQLite file, used when Url is empty.
	Path string
	// Url is a PostgreSQL connection string.
	Url string
	// Tracer is attached to PostgreSQL connections only.
	Tracer pgx.QueryTracer
}

type DB struct {
	SQL     *sql.DB
	Dialect Dialect
}

// Open connects to PostgreSQL when cfg.Url is set and to the SQLite file at cfg.Path otherwise.
// No connection is kept idle between statements.
func Open(ctx context.Context, cfg Config) (*DB, error) {
	var (
		db      *sql.DB
		dialect Dialect
	)

	if url := strings.TrimSpace(cfg.Url); url != "" {
		cc, err := pgx.ParseConfig(url)
		if err != nil {
			return nil, fmt.Errorf("%w: parsing DATABASE_URL: %w", types.ErrStorageUnavailable, err)
		}

		if cfg.Tracer != nil {
			cc.Tracer = cfg.Tracer
		}

		db = stdlib.OpenDB(*cc)
		dialect = DialectPostgres
	} else {
		if cfg.Path == "" {
			return nil, fmt.Errorf("%w: empty database path", types.ErrStorageUnavailable)
		}

		var err error
		db, err = sql.Open("sqlite", cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: opening %s: %w", types.ErrStorageUnavailable, cfg.Path, err)
		}

		db.SetMaxOpenConns(1)
		dialect = DialectSQLite
	}

	db.SetMaxIdleConns(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", types.ErrStorageUnavailable, err)
	}

	return &DB{SQL: db, Dialect: dialect}, nil
}

func (d *DB) Close() error {
	return d.SQL.Close()
}
