// Package librarycache keeps per-user in-memory mirrors of the library data.
// Each cache wraps a service: mutators write through to the database and then
// patch the mirror locally instead of re-querying, so the mirror stays equal
// to what a full reload would return. Refresh is the authoritative reload.
package librarycache

import (
	"context"
	"sync"

	"github.com/deepreadapp/deepread/pkg/books"
	"github.com/deepreadapp/deepread/pkg/models"
)

// BookCache mirrors one user's library. The zero value is not usable; use
// NewBookCache.
type BookCache struct {
	mu      sync.Mutex
	svc     *books.Service
	userID  string
	books   []*models.Book
	loading bool
	lastErr error
}

func NewBookCache(svc *books.Service, userID string) *BookCache {
	return &BookCache{svc: svc, userID: userID}
}

// Load populates the mirror from the database.
func (c *BookCache) Load(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	loaded, err := c.svc.ListBooks(ctx, books.ListBooksOptions{UserID: &c.userID})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	c.lastErr = err
	if err != nil {
		return err
	}
	c.books = loaded
	return nil
}

// Refresh is the authoritative full reload.
func (c *BookCache) Refresh(ctx context.Context) error {
	return c.Load(ctx)
}

// Books returns a snapshot copy of the mirror, most recently read first.
func (c *BookCache) Books() []*models.Book {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot := make([]*models.Book, len(c.books))
	copy(snapshot, c.books)
	return snapshot
}

// Loading reports whether a Load is in flight.
func (c *BookCache) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Err returns the error from the last operation, nil after a success.
func (c *BookCache) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Add creates the book and prepends it to the mirror. A fresh import has no
// last_read_at, so it sorts ahead of everything else.
func (c *BookCache) Add(ctx context.Context, book *models.Book) (*models.Book, error) {
	book.UserID = c.userID

	created, err := c.svc.CreateBook(ctx, book)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = err
	if err != nil {
		return nil, err
	}
	c.books = append([]*models.Book{created}, c.books...)
	return created, nil
}

// Update patches the book and replaces it in place in the mirror.
func (c *BookCache) Update(ctx context.Context, id string, opts books.UpdateBookOptions) (*models.Book, error) {
	updated, err := c.svc.UpdateBook(ctx, id, opts)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = err
	if err != nil {
		return nil, err
	}
	c.replaceLocked(updated)
	return updated, nil
}

// SaveProgress records the reading position and moves the book to the front
// of the mirror, matching its new last_read_at ordering.
func (c *BookCache) SaveProgress(ctx context.Context, id string, progress int, lastCFI *string) (*models.Book, error) {
	updated, err := c.svc.UpdateProgress(ctx, id, progress, lastCFI)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = err
	if err != nil {
		return nil, err
	}
	c.removeLocked(updated.ID)
	c.books = append([]*models.Book{updated}, c.books...)
	return updated, nil
}

// Remove soft-deletes the book and filters it out of the mirror.
func (c *BookCache) Remove(ctx context.Context, id string) error {
	err := c.svc.DeleteBook(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = err
	if err != nil {
		return err
	}
	c.removeLocked(id)
	return nil
}

func (c *BookCache) replaceLocked(book *models.Book) {
	for i, b := range c.books {
		if b.ID == book.ID {
			c.books[i] = book
			return
		}
	}
}

func (c *BookCache) removeLocked(id string) {
	kept := c.books[:0]
	for _, b := range c.books {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	c.books = kept
}
