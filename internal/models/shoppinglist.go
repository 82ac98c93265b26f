package models

import "time"

// ShoppingListStatus is the fulfilment stage of a managed shopping list.
// The values are a closed set; the admin console never sends anything else.
type ShoppingListStatus string

const (
	ShoppingListPriceVerification ShoppingListStatus = "Price Verification"
	ShoppingListPaid              ShoppingListStatus = "Paid"
	ShoppingListProcessing        ShoppingListStatus = "Processing"
	ShoppingListEnRoute           ShoppingListStatus = "En Route"
	ShoppingListDelivered         ShoppingListStatus = "Delivered"
	ShoppingListFailed            ShoppingListStatus = "Failed"
)

// ShoppingListStatuses lists every status the backend accepts.
var ShoppingListStatuses = []ShoppingListStatus{
	ShoppingListPriceVerification,
	ShoppingListPaid,
	ShoppingListProcessing,
	ShoppingListEnRoute,
	ShoppingListDelivered,
	ShoppingListFailed,
}

// ValidShoppingListStatus reports whether s is one of the accepted statuses.
func ValidShoppingListStatus(s ShoppingListStatus) bool {
	for _, v := range ShoppingListStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// ShoppingListItem is a free-form entry on a customer's shopping list.
type ShoppingListItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Note     string `json:"note,omitempty"`
}

// ShoppingList is a customer-submitted list fulfilled by the marketplace.
type ShoppingList struct {
	ID        string             `json:"id" db:"id"`
	Owner     User               `json:"owner"`
	Items     []ShoppingListItem `json:"items"`
	Status    ShoppingListStatus `json:"status" db:"status"`
	CreatedAt time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" db:"updated_at"`
}
