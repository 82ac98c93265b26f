package repository

import (
	"context"

	"github.com/meetmart/meetmart/internal/models"
)

// CartRepository persists the shopping cart between runs. Load returns an
// empty slice (never an error) when the stored value is missing or corrupt;
// a broken cart must degrade to an empty one, not break the client.
type CartRepository interface {
	Load(ctx context.Context) ([]models.CartLine, error)
	Save(ctx context.Context, lines []models.CartLine) error
	Clear(ctx context.Context) error
}

// SessionRepository persists the authenticated session. Load returns nil
// when no session is stored or the stored value is corrupt.
type SessionRepository interface {
	Load(ctx context.Context) (*models.Session, error)
	Save(ctx context.Context, session *models.Session) error
	Clear(ctx context.Context) error
}

// PreferenceRepository stores small string preferences such as the UI theme.
// Get returns "" for unknown keys.
type PreferenceRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}
