package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/meetmart/meetmart/internal/models"
	"github.com/meetmart/meetmart/internal/repository"
)

// File-backed repositories: each value is one JSON file in the state
// directory, the closest analog to the browser's local storage. A missing
// or corrupt file reads back as the zero value rather than an error.

const (
	cartFile    = "cart.json"
	sessionFile = "session.json"
	prefsFile   = "preferences.json"
)

// writeJSON writes data atomically via a temp file rename.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

// readJSON reads path into v. Missing or malformed files report ok=false
// and leave v untouched.
func readJSON(path string, v any) (ok bool, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		// Corrupt state files are discarded, not fatal.
		return false, nil
	}
	return true, nil
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create state directory %s: %w", dir, err)
	}
	return nil
}

type cartRepository struct {
	mu   sync.Mutex
	path string
}

// NewCartRepository creates a cart repository rooted at dir.
func NewCartRepository(dir string) (repository.CartRepository, error) {
	if err := ensureDir(dir); err != nil {
		return nil, err
	}
	return &cartRepository{path: filepath.Join(dir, cartFile)}, nil
}

func (r *cartRepository) Load(ctx context.Context) ([]models.CartLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var lines []models.CartLine
	if _, err := readJSON(r.path, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *cartRepository) Save(ctx context.Context, lines []models.CartLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return writeJSON(r.path, lines)
}

func (r *cartRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := os.Remove(r.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

type sessionRepository struct {
	mu   sync.Mutex
	path string
}

// NewSessionRepository creates a session repository rooted at dir.
func NewSessionRepository(dir string) (repository.SessionRepository, error) {
	if err := ensureDir(dir); err != nil {
		return nil, err
	}
	return &sessionRepository{path: filepath.Join(dir, sessionFile)}, nil
}

func (r *sessionRepository) Load(ctx context.Context) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var session models.Session
	ok, err := readJSON(r.path, &session)
	if err != nil {
		return nil, err
	}
	if !ok || session.Token == "" {
		return nil, nil
	}
	return &session, nil
}

func (r *sessionRepository) Save(ctx context.Context, session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return writeJSON(r.path, session)
}

func (r *sessionRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := os.Remove(r.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

type preferenceRepository struct {
	mu   sync.Mutex
	path string
}

// NewPreferenceRepository creates a preference repository rooted at dir.
func NewPreferenceRepository(dir string) (repository.PreferenceRepository, error) {
	if err := ensureDir(dir); err != nil {
		return nil, err
	}
	return &preferenceRepository{path: filepath.Join(dir, prefsFile)}, nil
}

func (r *preferenceRepository) Get(ctx context.Context, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prefs := make(map[string]string)
	if _, err := readJSON(r.path, &prefs); err != nil {
		return "", err
	}
	return prefs[key], nil
}

func (r *preferenceRepository) Set(ctx context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	prefs := make(map[string]string)
	if _, err := readJSON(r.path, &prefs); err != nil {
		return err
	}
	prefs[key] = value
	return writeJSON(r.path, prefs)
}
