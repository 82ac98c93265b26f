package models

import "time"

// Item is a sellable good as listed in a store's catalog.
type Item struct {
	ID          string  `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Description string  `json:"description,omitempty" db:"description"`
	Price       float64 `json:"price" db:"price"`
	Measurement string  `json:"measurement" db:"measurement"`
	Image       string  `json:"image,omitempty" db:"image"`
}

// Store represents a seller's storefront.
type Store struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description,omitempty" db:"description"`
	Image       string    `json:"image,omitempty" db:"image"`
	Location    string    `json:"location,omitempty" db:"location"`
	OwnerID     string    `json:"owner_id" db:"owner_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Good is a store's listing of an item, including availability.
type Good struct {
	ID      string `json:"id" db:"id"`
	StoreID string `json:"store_id" db:"store_id"`
	Item    Item   `json:"item"`
	InStock bool   `json:"in_stock" db:"in_stock"`
}
