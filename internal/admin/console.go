package admin

import (
	"context"
	"fmt"

	"github.com/meetmart/meetmart/internal/backend"
	"github.com/meetmart/meetmart/internal/models"
)

// PurchaseStatus values the review console may set on a purchase.
type PurchaseStatus string

const (
	PurchasePending   PurchaseStatus = "pending"
	PurchaseConfirmed PurchaseStatus = "confirmed"
	PurchaseCancelled PurchaseStatus = "cancelled"
)

// PurchaseStatuses lists every status the backend accepts.
var PurchaseStatuses = []PurchaseStatus{
	PurchasePending,
	PurchaseConfirmed,
	PurchaseCancelled,
}

// ValidPurchaseStatus reports whether s is one of the accepted statuses.
func ValidPurchaseStatus(s PurchaseStatus) bool {
	for _, v := range PurchaseStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Console is the admin back office: it lists purchase, shopping-list and
// waitlist records and PUTs status transitions from the closed sets. No
// business rules live here; the backend decides what a transition means.
type Console struct {
	backend *backend.Client
}

// New creates an admin console client.
func New(b *backend.Client) *Console {
	return &Console{backend: b}
}

// Purchases lists all purchases for review.
func (c *Console) Purchases(ctx context.Context) ([]models.Order, error) {
	var list []models.Order
	if err := c.backend.Get(ctx, "/admin/purchases", &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetPurchaseStatus updates one purchase's status.
func (c *Console) SetPurchaseStatus(ctx context.Context, id string, status PurchaseStatus) (*models.Order, error) {
	if id == "" {
		return nil, backend.NewValidation("purchase id is required")
	}
	if !ValidPurchaseStatus(status) {
		return nil, backend.NewValidation("invalid purchase status %q", status)
	}

	var updated models.Order
	err := c.backend.Put(ctx, fmt.Sprintf("/admin/purchases/%s/status", id), map[string]string{
		"status": string(status),
	}, &updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// ShoppingLists lists all customer shopping lists.
func (c *Console) ShoppingLists(ctx context.Context) ([]models.ShoppingList, error) {
	var list []models.ShoppingList
	if err := c.backend.Get(ctx, "/admin/shopping-lists", &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetShoppingListStatus updates one shopping list's fulfilment stage.
func (c *Console) SetShoppingListStatus(ctx context.Context, id string, status models.ShoppingListStatus) (*models.ShoppingList, error) {
	if id == "" {
		return nil, backend.NewValidation("shopping list id is required")
	}
	if !models.ValidShoppingListStatus(status) {
		return nil, backend.NewValidation("invalid shopping list status %q", status)
	}

	var updated models.ShoppingList
	err := c.backend.Put(ctx, fmt.Sprintf("/admin/shopping-lists/%s/status", id), map[string]string{
		"status": string(status),
	}, &updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Waitlist lists the signup waitlist.
func (c *Console) Waitlist(ctx context.Context) ([]models.WaitlistEntry, error) {
	var list []models.WaitlistEntry
	if err := c.backend.Get(ctx, "/admin/waitlist", &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetWaitlistStatus updates one waitlist entry.
func (c *Console) SetWaitlistStatus(ctx context.Context, id string, status models.WaitlistStatus) (*models.WaitlistEntry, error) {
	if id == "" {
		return nil, backend.NewValidation("waitlist id is required")
	}
	if !models.ValidWaitlistStatus(status) {
		return nil, backend.NewValidation("invalid waitlist status %q", status)
	}

	var updated models.WaitlistEntry
	err := c.backend.Put(ctx, fmt.Sprintf("/admin/waitlist/%s/status", id), map[string]string{
		"status": string(status),
	}, &updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
