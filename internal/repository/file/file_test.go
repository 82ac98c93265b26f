package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meetmart/meetmart/internal/models"
)

func TestCartRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	repo, err := NewCartRepository(dir)
	require.NoError(t, err)

	lines := []models.CartLine{
		{StoreID: "store-1", Item: models.Item{ID: "a", Name: "Lamp", Price: 1000}, Quantity: 2},
		{StoreID: "store-2", Item: models.Item{ID: "b", Name: "Chair", Price: 500}, Quantity: 1},
	}
	require.NoError(t, repo.Save(ctx, lines))

	// A fresh repository over the same directory sees the same cart.
	reopened, err := NewCartRepository(dir)
	require.NoError(t, err)
	loaded, err := reopened.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "Lamp", loaded[0].Item.Name)
	assert.Equal(t, 2, loaded[0].Quantity)
}

func TestCartLoadMissingFile(t *testing.T) {
	repo, err := NewCartRepository(t.TempDir())
	require.NoError(t, err)

	loaded, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestCartLoadCorruptFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, cartFile), []byte("{not json"), 0o600))

	repo, err := NewCartRepository(dir)
	require.NoError(t, err)

	loaded, err := repo.Load(ctx)
	require.NoError(t, err, "a corrupt cart file must read as empty, not fail")
	assert.Empty(t, loaded)
}

func TestCartClear(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	repo, err := NewCartRepository(dir)
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, []models.CartLine{{StoreID: "s", Item: models.Item{ID: "a"}, Quantity: 1}}))
	require.NoError(t, repo.Clear(ctx))
	require.NoError(t, repo.Clear(ctx), "clearing an already-empty cart is fine")

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	repo, err := NewSessionRepository(dir)
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, &models.Session{
		Token: "tok-1",
		User:  models.User{ID: "user-1", Name: "Ada", IsAdmin: true},
	}))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "tok-1", loaded.Token)
	assert.True(t, loaded.User.IsAdmin)
}

func TestSessionLoadMissingOrCorrupt(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	repo, err := NewSessionRepository(dir)
	require.NoError(t, err)

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)

	require.NoError(t, os.WriteFile(filepath.Join(dir, sessionFile), []byte("###"), 0o600))
	loaded, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestSessionClear(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	repo, err := NewSessionRepository(dir)
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, &models.Session{Token: "tok-1"}))
	require.NoError(t, repo.Clear(ctx))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestPreferences(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	repo, err := NewPreferenceRepository(dir)
	require.NoError(t, err)

	got, err := repo.Get(ctx, "theme")
	require.NoError(t, err)
	assert.Empty(t, got, "unknown keys read as empty")

	require.NoError(t, repo.Set(ctx, "theme", "retro"))
	require.NoError(t, repo.Set(ctx, "chat-theme", "coffee"))

	got, err = repo.Get(ctx, "theme")
	require.NoError(t, err)
	assert.Equal(t, "retro", got)

	// Keys are independent.
	got, err = repo.Get(ctx, "chat-theme")
	require.NoError(t, err)
	assert.Equal(t, "coffee", got)
}

func TestStateDirIsCreated(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "state")
	_, err := NewCartRepository(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
