package books

import (
	"context"
	"sync"

	"library/internal/types"
)

// CachedRepository keeps the last ListAll result in memory.
// Every successful write discards it in full.
type CachedRepository struct {
	Repository

	mu    sync.Mutex
	rows  []*types.Book
	valid bool
}

func NewCachedRepository(r Repository) *CachedRepository {
	return &CachedRepository{Repository: r}
}

func (c *CachedRepository) Invalidate() {
	c.mu.Lock()
	c.rows = nil
	c.valid = false
	c.mu.Unlock()
}

func (c *CachedRepository) ListAll(ctx context.Context) ([]*types.Book, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.valid {
		rows, err := c.Repository.ListAll(ctx)
		if err != nil {
			return nil, err
		}

		c.rows = rows
		c.valid = true
	}

	return copyBooks(c.rows), nil
}

func (c *CachedRepository) Add(ctx context.Context, title, author, genre string, year int) (int64, error) {
	id, err := c.Repository.Add(ctx, title, author, genre, year)
	if err != nil {
		return 0, err
	}

	c.Invalidate()
	return id, nil
}

func (c *CachedRepository) Update(ctx context.Context, id int64, title, author, genre string, year int) error {
	err := c.Repository.Update(ctx, id, title, author, genre, year)
	if err != nil {
		return err
	}

	c.Invalidate()
	return nil
}

func (c *CachedRepository) Delete(ctx context.Context, id int64) error {
	err := c.Repository.Delete(ctx, id)
	if err != nil {
		return err
	}

	c.Invalidate()
	return nil
}

func copyBooks(rows []*types.Book) []*types.Book {
	ret := make([]*types.Book, 0, len(rows))
	for _, row := range rows {
		b := *row
		ret = append(ret, &b)
	}

	return ret
}
