package librarycache

import (
	"context"
	"sync"

	"github.com/deepreadapp/deepread/pkg/annotations"
	"github.com/deepreadapp/deepread/pkg/models"
)

// AnnotationCache mirrors the annotations of one book for one user.
type AnnotationCache struct {
	mu          sync.Mutex
	svc         *annotations.Service
	userID      string
	bookID      string
	annotations []*models.Annotation
	loading     bool
	lastErr     error
}

func NewAnnotationCache(svc *annotations.Service, userID, bookID string) *AnnotationCache {
	return &AnnotationCache{svc: svc, userID: userID, bookID: bookID}
}

// Load populates the mirror from the database.
func (c *AnnotationCache) Load(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	loaded, err := c.svc.ListAnnotations(ctx, annotations.ListAnnotationsOptions{
		BookID: &c.bookID,
		UserID: &c.userID,
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	c.lastErr = err
	if err != nil {
		return err
	}
	c.annotations = loaded
	return nil
}

// Refresh is the authoritative full reload.
func (c *AnnotationCache) Refresh(ctx context.Context) error {
	return c.Load(ctx)
}

// Annotations returns a snapshot copy of the mirror, newest first.
func (c *AnnotationCache) Annotations() []*models.Annotation {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot := make([]*models.Annotation, len(c.annotations))
	copy(snapshot, c.annotations)
	return snapshot
}

// Loading reports whether a Load is in flight.
func (c *AnnotationCache) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Err returns the error from the last operation, nil after a success.
func (c *AnnotationCache) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Add creates the annotation and prepends it to the mirror, matching the
// created_at DESC ordering.
func (c *AnnotationCache) Add(ctx context.Context, annotation *models.Annotation) (*models.Annotation, error) {
	annotation.UserID = c.userID
	annotation.BookID = c.bookID

	created, err := c.svc.CreateAnnotation(ctx, annotation)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = err
	if err != nil {
		return nil, err
	}
	c.annotations = append([]*models.Annotation{created}, c.annotations...)
	return created, nil
}

// Update patches the annotation and replaces it in place in the mirror.
func (c *AnnotationCache) Update(ctx context.Context, id string, opts annotations.UpdateAnnotationOptions) (*models.Annotation, error) {
	updated, err := c.svc.UpdateAnnotation(ctx, id, opts)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = err
	if err != nil {
		return nil, err
	}
	for i, a := range c.annotations {
		if a.ID == updated.ID {
			c.annotations[i] = updated
			break
		}
	}
	return updated, nil
}

// Remove soft-deletes the annotation and filters it out of the mirror.
func (c *AnnotationCache) Remove(ctx context.Context, id string) error {
	err := c.svc.DeleteAnnotation(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = err
	if err != nil {
		return err
	}
	kept := c.annotations[:0]
	for _, a := range c.annotations {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	c.annotations = kept
	return nil
}
