package librarycache

import (
	"context"
	"sync"

	"github.com/deepreadapp/deepread/pkg/models"
	"github.com/deepreadapp/deepread/pkg/settings"
)

// SettingsCache mirrors one user's settings row.
type SettingsCache struct {
	mu       sync.Mutex
	svc      *settings.Service
	userID   string
	settings *models.UserSettings
	loading  bool
	lastErr  error
}

func NewSettingsCache(svc *settings.Service, userID string) *SettingsCache {
	return &SettingsCache{svc: svc, userID: userID}
}

// Load populates the mirror, creating the defaults row on first access.
func (c *SettingsCache) Load(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	loaded, err := c.svc.GetOrCreate(ctx, c.userID)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	c.lastErr = err
	if err != nil {
		return err
	}
	c.settings = loaded
	return nil
}

// Refresh is the authoritative full reload.
func (c *SettingsCache) Refresh(ctx context.Context) error {
	return c.Load(ctx)
}

// Settings returns a copy of the mirrored row, or nil before the first Load.
func (c *SettingsCache) Settings() *models.UserSettings {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.settings == nil {
		return nil
	}
	snapshot := *c.settings
	return &snapshot
}

// Loading reports whether a Load is in flight.
func (c *SettingsCache) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Err returns the error from the last operation, nil after a success.
func (c *SettingsCache) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Update patches the settings and mirrors the stored result.
func (c *SettingsCache) Update(ctx context.Context, opts settings.UpdateSettingsOptions) (*models.UserSettings, error) {
	updated, err := c.svc.UpdateSettings(ctx, c.userID, opts)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = err
	if err != nil {
		return nil, err
	}
	c.settings = updated
	return updated, nil
}
