package books

import (
	"context"

	"library/internal/types"
)

type Repository interface {
	// EnsureSchema creates the books table if it does not exist yet.
	EnsureSchema(ctx context.Context) error

	Add(ctx context.Context, title, author, genre string, year int) (int64, error)
	// ListAll shall return empty slice and no error when there are no books.
	ListAll(ctx context.Context) ([]*types.Book, error)
	// Update and Delete succeed silently when id does not exist.
	Update(ctx context.Context, id int64, title, author, genre string, year int) error
	Delete(ctx context.Context, id int64) error
}
