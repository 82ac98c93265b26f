package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/meetmart/meetmart/internal/models"
	"github.com/meetmart/meetmart/internal/repository"
)

type sessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a postgres-backed session repository
func NewSessionRepository(db *sql.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

// The sessions table holds at most one row; the client is single-user.
func (r *sessionRepository) Load(ctx context.Context) (*models.Session, error) {
	query := `SELECT token, user_json FROM sessions WHERE id = 1`

	var token string
	var userJSON []byte
	err := r.db.QueryRowContext(ctx, query).Scan(&token, &userJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	session := &models.Session{Token: token}
	if err := json.Unmarshal(userJSON, &session.User); err != nil {
		// Corrupt stored user payload counts as no session.
		return nil, nil
	}
	return session, nil
}

func (r *sessionRepository) Save(ctx context.Context, session *models.Session) error {
	userJSON, err := json.Marshal(session.User)
	if err != nil {
		return fmt.Errorf("failed to encode session user: %w", err)
	}

	query := `
		INSERT INTO sessions (id, token, user_json, updated_at)
		VALUES (1, $1, $2, now())
		ON CONFLICT (id)
		DO UPDATE SET token = EXCLUDED.token, user_json = EXCLUDED.user_json, updated_at = now()`

	if _, err := r.db.ExecContext(ctx, query, session.Token, userJSON); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *sessionRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = 1`); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
