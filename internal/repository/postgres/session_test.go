package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meetmart/meetmart/internal/models"
)

func TestSessionLoad(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT token, user_json FROM sessions WHERE id = 1")).
		WillReturnRows(sqlmock.NewRows([]string{"token", "user_json"}).
			AddRow("tok-1", []byte(`{"id":"user-1","name":"Ada","is_admin":true}`)))

	repo := NewSessionRepository(db)
	session, err := repo.Load(context.Background())
	require.NoError(t, err)

	require.NotNil(t, session)
	assert.Equal(t, "tok-1", session.Token)
	assert.Equal(t, "Ada", session.User.Name)
	assert.True(t, session.User.IsAdmin)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionLoadNoRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT token, user_json FROM sessions WHERE id = 1")).
		WillReturnError(sql.ErrNoRows)

	repo := NewSessionRepository(db)
	session, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestSessionLoadCorruptUserPayload(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT token, user_json FROM sessions WHERE id = 1")).
		WillReturnRows(sqlmock.NewRows([]string{"token", "user_json"}).
			AddRow("tok-1", []byte("{broken")))

	repo := NewSessionRepository(db)
	session, err := repo.Load(context.Background())
	require.NoError(t, err, "a corrupt stored user reads as no session")
	assert.Nil(t, session)
}

func TestSessionSaveUpserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sessions (id, token, user_json, updated_at)")).
		WithArgs("tok-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewSessionRepository(db)
	err = repo.Save(context.Background(), &models.Session{
		Token: "tok-1",
		User:  models.User{ID: "user-1", Name: "Ada"},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionClear(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sessions WHERE id = 1")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewSessionRepository(db)
	require.NoError(t, repo.Clear(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
