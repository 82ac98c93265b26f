package catalog

import (
	"context"
	"fmt"

	"github.com/meetmart/meetmart/internal/backend"
	"github.com/meetmart/meetmart/internal/models"
)

// Client is the browsing surface: stores, their goods, and single items.
type Client struct {
	backend *backend.Client
}

// New creates a catalog client.
func New(b *backend.Client) *Client {
	return &Client{backend: b}
}

// Stores lists all storefronts.
func (c *Client) Stores(ctx context.Context) ([]models.Store, error) {
	var stores []models.Store
	if err := c.backend.Get(ctx, "/stores", &stores); err != nil {
		return nil, err
	}
	return stores, nil
}

// Store fetches a single storefront.
func (c *Client) Store(ctx context.Context, id string) (*models.Store, error) {
	if id == "" {
		return nil, backend.NewValidation("store id is required")
	}
	var store models.Store
	if err := c.backend.Get(ctx, fmt.Sprintf("/stores/%s", id), &store); err != nil {
		return nil, err
	}
	return &store, nil
}

// Goods lists a store's goods.
func (c *Client) Goods(ctx context.Context, storeID string) ([]models.Good, error) {
	if storeID == "" {
		return nil, backend.NewValidation("store id is required")
	}
	var goods []models.Good
	if err := c.backend.Get(ctx, fmt.Sprintf("/stores/%s/goods", storeID), &goods); err != nil {
		return nil, err
	}
	return goods, nil
}

// Item fetches a single item.
func (c *Client) Item(ctx context.Context, id string) (*models.Item, error) {
	if id == "" {
		return nil, backend.NewValidation("item id is required")
	}
	var item models.Item
	if err := c.backend.Get(ctx, fmt.Sprintf("/items/%s", id), &item); err != nil {
		return nil, err
	}
	return &item, nil
}
