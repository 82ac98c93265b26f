package memory

import (
	"context"
	"sync"

	"github.com/meetmart/meetmart/internal/models"
	"github.com/meetmart/meetmart/internal/repository"
)

// In-memory repositories. Primarily used in tests and as the
// STATE_BACKEND=memory option, where nothing survives a restart.

type cartRepository struct {
	mu    sync.Mutex
	lines []models.CartLine
}

// NewCartRepository creates an in-memory cart repository.
func NewCartRepository() repository.CartRepository {
	return &cartRepository{}
}

func (r *cartRepository) Load(ctx context.Context) ([]models.CartLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lines := make([]models.CartLine, len(r.lines))
	copy(lines, r.lines)
	return lines, nil
}

func (r *cartRepository) Save(ctx context.Context, lines []models.CartLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = make([]models.CartLine, len(lines))
	copy(r.lines, lines)
	return nil
}

func (r *cartRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = nil
	return nil
}

type sessionRepository struct {
	mu      sync.Mutex
	session *models.Session
}

// NewSessionRepository creates an in-memory session repository.
func NewSessionRepository() repository.SessionRepository {
	return &sessionRepository{}
}

func (r *sessionRepository) Load(ctx context.Context) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session == nil {
		return nil, nil
	}
	copied := *r.session
	return &copied, nil
}

func (r *sessionRepository) Save(ctx context.Context, session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *session
	r.session = &copied
	return nil
}

func (r *sessionRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.session = nil
	return nil
}

type preferenceRepository struct {
	mu    sync.Mutex
	prefs map[string]string
}

// NewPreferenceRepository creates an in-memory preference repository.
func NewPreferenceRepository() repository.PreferenceRepository {
	return &preferenceRepository{prefs: make(map[string]string)}
}

func (r *preferenceRepository) Get(ctx context.Context, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.prefs[key], nil
}

func (r *preferenceRepository) Set(ctx context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prefs[key] = value
	return nil
}
