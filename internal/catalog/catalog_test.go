package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meetmart/meetmart/internal/backend"
	"github.com/meetmart/meetmart/pkg/logger"
)

func catalogClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(backend.New(srv.URL, backend.AuthBearer, nil, logger.Discard(), nil))
}

func TestStores(t *testing.T) {
	client := catalogClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/stores", r.URL.Path)
		fmt.Fprint(w, `[{"id":"s1","name":"Corner Shop"},{"id":"s2","name":"Depot"}]`)
	})

	stores, err := client.Stores(context.Background())
	require.NoError(t, err)
	require.Len(t, stores, 2)
	assert.Equal(t, "Corner Shop", stores[0].Name)
}

func TestGoods(t *testing.T) {
	client := catalogClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/stores/s1/goods", r.URL.Path)
		fmt.Fprint(w, `[{"id":"g1","store_id":"s1","item":{"id":"a","name":"Lamp","price":1000},"in_stock":true}]`)
	})

	goods, err := client.Goods(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, goods, 1)
	assert.Equal(t, "Lamp", goods[0].Item.Name)
	assert.True(t, goods[0].InStock)
}

func TestItem(t *testing.T) {
	client := catalogClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/items/a", r.URL.Path)
		fmt.Fprint(w, `{"id":"a","name":"Lamp","price":1000}`)
	})

	item, err := client.Item(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, 1000.0, item.Price)
}

func TestEmptyIDsFailLocally(t *testing.T) {
	client := catalogClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})
	ctx := context.Background()

	_, err := client.Store(ctx, "")
	assert.True(t, backend.IsKind(err, backend.KindValidation))
	_, err = client.Goods(ctx, "")
	assert.True(t, backend.IsKind(err, backend.KindValidation))
	_, err = client.Item(ctx, "")
	assert.True(t, backend.IsKind(err, backend.KindValidation))
}
