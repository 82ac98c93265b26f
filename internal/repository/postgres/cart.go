package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/meetmart/meetmart/internal/models"
	"github.com/meetmart/meetmart/internal/repository"
)

type cartRepository struct {
	db *sql.DB
}

// NewCartRepository creates a postgres-backed cart repository
func NewCartRepository(db *sql.DB) repository.CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) Load(ctx context.Context) ([]models.CartLine, error) {
	query := `
		SELECT store_id, item_id, item_name, item_price, item_measurement, item_image, quantity, added_at
		FROM cart_lines
		ORDER BY added_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	defer rows.Close()

	var lines []models.CartLine
	for rows.Next() {
		var line models.CartLine
		if err := rows.Scan(
			&line.StoreID,
			&line.Item.ID,
			&line.Item.Name,
			&line.Item.Price,
			&line.Item.Measurement,
			&line.Item.Image,
			&line.Quantity,
			&line.AddedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cart rows: %w", err)
	}

	return lines, nil
}

// Save replaces the stored cart wholesale, mirroring the serialize-the-
// full-cart write the other backends do.
func (r *cartRepository) Save(ctx context.Context, lines []models.CartLine) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin cart save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_lines`); err != nil {
		return fmt.Errorf("failed to reset cart: %w", err)
	}

	query := `
		INSERT INTO cart_lines (store_id, item_id, item_name, item_price, item_measurement, item_image, quantity, added_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	for _, line := range lines {
		addedAt := line.AddedAt
		if addedAt.IsZero() {
			addedAt = time.Now()
		}
		if _, err := tx.ExecContext(ctx, query,
			line.StoreID,
			line.Item.ID,
			line.Item.Name,
			line.Item.Price,
			line.Item.Measurement,
			line.Item.Image,
			line.Quantity,
			addedAt,
		); err != nil {
			return fmt.Errorf("failed to insert cart line: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cart save: %w", err)
	}
	return nil
}

func (r *cartRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cart_lines`); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
