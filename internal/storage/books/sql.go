package books

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"library/internal/storage"
	"library/internal/types"
)

const (
	schemaSQLite = `CREATE TABLE IF NOT EXISTS books (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	author TEXT NOT NULL,
	genre TEXT NOT NULL,
	year INTEGER CHECK(year BETWEEN 1000 AND 9999)
)`
	schemaPostgres = `CREATE TABLE IF NOT EXISTS books (
	id BIGSERIAL PRIMARY KEY,
	title TEXT NOT NULL,
	author TEXT NOT NULL,
	genre TEXT NOT NULL,
	year INTEGER CHECK(year BETWEEN 1000 AND 9999)
)`
)

func NewSQLRepository(db *storage.DB, l *slog.Logger) Repository {
	return &sqlRepo{db: db.SQL, dialect: db.Dialect, g: goqu.Dialect(string(db.Dialect)), l: l}
}

type sqlRepo struct {
	db      *sql.DB
	dialect storage.Dialect
	g       goqu.DialectWrapper
	l       *slog.Logger
}

type sqlBook struct {
	Id     int64  `db:"id"`
	Title  string `db:"title"`
	Author string `db:"author"`
	Genre  string `db:"genre"`
	Year   *int   `db:"year"`
}

func (b *sqlBook) intoCommon() *types.Book {
	year := 0
	if b.Year != nil {
		year = *b.Year
	}

	return &types.Book{
		Id:     b.Id,
		Title:  b.Title,
		Author: b.Author,
		Genre:  b.Genre,
		Year:   year,
	}
}

func (p *sqlRepo) EnsureSchema(ctx context.Context) error {
	ddl := schemaSQLite
	if p.dialect == storage.DialectPostgres {
		ddl = schemaPostgres
	}

	_, err := p.db.ExecContext(ctx, ddl)
	if err != nil {
		return fmt.Errorf("%w: creating books table: %w", types.ErrStorageUnavailable, err)
	}

	return nil
}

// addSQL renders the insert for Add. On PostgreSQL it returns the new id,
// goqu's sqlite3 dialect does not render RETURNING.
func (p *sqlRepo) addSQL(title, author, genre string, year int) (string, []any, error) {
	ds := p.g.Insert("books").
		Rows(goqu.Record{
			"title":  title,
			"author": author,
			"genre":  genre,
			"year":   year,
		}).
		Prepared(true)

	if p.dialect == storage.DialectPostgres {
		ds = ds.Returning("id")
	}

	return ds.ToSQL()
}

func (p *sqlRepo) Add(ctx context.Context, title, author, genre string, year int) (int64, error) {
	sql, params, err := p.addSQL(title, author, genre, year)
	if err != nil {
		return 0, err
	}

	p.l.DebugContext(ctx, sql)

	var id int64

	if p.dialect == storage.DialectPostgres {
		err = sqlscan.Get(ctx, p.db, &id, sql, params...)
		if err != nil {
			return 0, classify(err)
		}

		return id, nil
	}

	res, err := p.db.ExecContext(ctx, sql, params...)
	if err != nil {
		return 0, classify(err)
	}

	id, err = res.LastInsertId()
	if err != nil {
		return 0, classify(err)
	}

	return id, nil
}

func (p *sqlRepo) ListAll(ctx context.Context) ([]*types.Book, error) {
	sql, params, err := p.g.From("books").
		Select("id", "title", "author", "genre", "year").
		Order(goqu.C("id").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, err
	}

	var rows []sqlBook

	err = sqlscan.Select(ctx, p.db, &rows, sql, params...)
	if err != nil {
		return nil, classify(err)
	}

	ret := make([]*types.Book, 0, len(rows))
	for _, row := range rows {
		ret = append(ret, row.intoCommon())
	}

	return ret, nil
}

func (p *sqlRepo) Update(ctx context.Context, id int64, title, author, genre string, year int) error {
	sql, params, err := p.g.Update("books").
		Set(goqu.Record{
			"title":  title,
			"author": author,
			"genre":  genre,
			"year":   year,
		}).
		Where(goqu.C("id").Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return err
	}

	p.l.DebugContext(ctx, sql)

	_, err = p.db.ExecContext(ctx, sql, params...)
	return classify(err)
}

func (p *sqlRepo) Delete(ctx context.Context, id int64) error {
	sql, params, err := p.g.Delete("books").
		Where(goqu.C("id").Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return err
	}

	p.l.DebugContext(ctx, sql)

	_, err = p.db.ExecContext(ctx, sql, params...)
	return classify(err)
}

// classify maps engine errors onto ErrConstraintViolation or ErrStorageUnavailable.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var se *sqlite.Error
	if errors.As(err, &se) && se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		return fmt.Errorf("%w: %w", types.ErrConstraintViolation, err)
	}

	var pe *pgconn.PgError
	if errors.As(err, &pe) && strings.HasPrefix(pe.Code, "23") {
		return fmt.Errorf("%w: %w", types.ErrConstraintViolation, err)
	}

	return fmt.Errorf("%w: %w", types.ErrStorageUnavailable, err)
}
