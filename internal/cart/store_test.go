package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meetmart/meetmart/internal/models"
	"github.com/meetmart/meetmart/internal/repository/memory"
	"github.com/meetmart/meetmart/pkg/logger"
)

func testItem(id, name string, price float64) models.Item {
	return models.Item{ID: id, Name: name, Price: price}
}

func newTestStore(t *testing.T, notify NotifyFunc) *Store {
	t.Helper()
	store, err := NewStore(context.Background(), memory.NewCartRepository(), notify, logger.Discard())
	require.NoError(t, err)
	return store
}

func TestAddAndTotals(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, nil)

	require.NoError(t, store.Add(ctx, "store-1", testItem("a", "Lamp", 1000), 1))
	require.NoError(t, store.Add(ctx, "store-1", testItem("b", "Chair", 500), 2))

	assert.Equal(t, 2000.0, store.Total())
	assert.Equal(t, 3, store.ItemCount())

	require.NoError(t, store.Remove(ctx, "store-1", "b"))
	assert.Equal(t, 1000.0, store.Total())
	assert.Equal(t, 1, store.ItemCount())
}

func TestAddAccumulatesQuantity(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, nil)

	require.NoError(t, store.Add(ctx, "store-1", testItem("a", "Lamp", 1000), 2))
	require.NoError(t, store.Add(ctx, "store-1", testItem("a", "Lamp", 1000), 3))

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
}

func TestAddClampsQuantityToOne(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, nil)

	require.NoError(t, store.Add(ctx, "store-1", testItem("a", "Lamp", 1000), 0))

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)
}

func TestSameItemDifferentStoresAreSeparateLines(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, nil)

	require.NoError(t, store.Add(ctx, "store-1", testItem("a", "Lamp", 1000), 1))
	require.NoError(t, store.Add(ctx, "store-2", testItem("a", "Lamp", 1000), 1))

	assert.Len(t, store.Lines(), 2)
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, nil)

	require.NoError(t, store.Add(ctx, "store-1", testItem("a", "Lamp", 1000), 1))
	require.NoError(t, store.UpdateQuantity(ctx, "store-1", "a", 4))
	assert.Equal(t, 4, store.ItemCount())

	// Dropping below one removes the line.
	require.NoError(t, store.UpdateQuantity(ctx, "store-1", "a", 0))
	assert.Empty(t, store.Lines())
}

func TestUpdateAndRemoveMissingLine(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, nil)

	assert.ErrorIs(t, store.UpdateQuantity(ctx, "store-1", "nope", 2), ErrNotInCart)
	assert.ErrorIs(t, store.Remove(ctx, "store-1", "nope"), ErrNotInCart)
}

func TestClearEmptiesStoreAndRepository(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewCartRepository()
	store, err := NewStore(ctx, repo, nil, logger.Discard())
	require.NoError(t, err)

	require.NoError(t, store.Add(ctx, "store-1", testItem("a", "Lamp", 1000), 2))
	require.NoError(t, store.Clear(ctx))

	assert.Empty(t, store.Lines())
	assert.Zero(t, store.Total())

	persisted, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, persisted)
}

func TestRehydratesFromRepository(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewCartRepository()

	first, err := NewStore(ctx, repo, nil, logger.Discard())
	require.NoError(t, err)
	require.NoError(t, first.Add(ctx, "store-1", testItem("a", "Lamp", 1000), 2))

	second, err := NewStore(ctx, repo, nil, logger.Discard())
	require.NoError(t, err)
	assert.Equal(t, 2000.0, second.Total())
	assert.Equal(t, 2, second.ItemCount())
}

func TestRehydrationDropsInvalidQuantities(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewCartRepository()
	require.NoError(t, repo.Save(ctx, []models.CartLine{
		{StoreID: "store-1", Item: testItem("a", "Lamp", 1000), Quantity: 2},
		{StoreID: "store-1", Item: testItem("b", "Chair", 500), Quantity: 0},
	}))

	store, err := NewStore(ctx, repo, nil, logger.Discard())
	require.NoError(t, err)

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "a", lines[0].Item.ID)
}

func TestMutationsNotify(t *testing.T) {
	ctx := context.Background()
	var notes []string
	store := newTestStore(t, func(msg string) { notes = append(notes, msg) })

	require.NoError(t, store.Add(ctx, "store-1", testItem("a", "Lamp", 1000), 1))
	require.NoError(t, store.UpdateQuantity(ctx, "store-1", "a", 2))
	require.NoError(t, store.Remove(ctx, "store-1", "a"))
	require.NoError(t, store.Clear(ctx))

	assert.Equal(t, []string{
		"Lamp added to cart",
		"Cart updated",
		"Lamp removed from cart",
		"Cart cleared",
	}, notes)
}
