package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/meetmart/meetmart/internal/models"
	"github.com/meetmart/meetmart/internal/repository"
)

// ErrNotInCart is returned when updating or removing a line that is not
// in the cart.
var ErrNotInCart = errors.New("item not in cart")

// NotifyFunc receives the transient notification emitted by every cart
// mutation. The CLI prints it; tests capture it.
type NotifyFunc func(message string)

// Store holds the shopping cart. Every mutation persists the full cart
// through the repository and emits a notification. Lines are unique by
// (storeID, itemID) and a retained line always has quantity >= 1.
type Store struct {
	mu     sync.Mutex
	repo   repository.CartRepository
	lines  []models.CartLine
	notify NotifyFunc
	logger *logrus.Logger
}

// NewStore creates a cart store rehydrated from the repository. A corrupt
// or missing stored cart yields an empty one. Lines that violate the
// quantity invariant are dropped on load.
func NewStore(ctx context.Context, repo repository.CartRepository, notify NotifyFunc, logger *logrus.Logger) (*Store, error) {
	lines, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	kept := lines[:0]
	for _, line := range lines {
		if line.Quantity >= 1 {
			kept = append(kept, line)
		}
	}

	if notify == nil {
		notify = func(string) {}
	}

	return &Store{
		repo:   repo,
		lines:  kept,
		notify: notify,
		logger: logger,
	}, nil
}

// Add inserts a line or increments the quantity of an existing one.
// A quantity below 1 counts as 1.
func (s *Store) Add(ctx context.Context, storeID string, item models.Item, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for i := range s.lines {
		if s.lines[i].StoreID == storeID && s.lines[i].Item.ID == item.ID {
			s.lines[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		s.lines = append(s.lines, models.CartLine{
			StoreID:  storeID,
			Item:     item,
			Quantity: quantity,
			AddedAt:  time.Now(),
		})
	}

	if err := s.persist(ctx); err != nil {
		return err
	}
	s.notify(fmt.Sprintf("%s added to cart", item.Name))
	return nil
}

// UpdateQuantity replaces a line's quantity. A quantity below 1 removes
// the line instead.
func (s *Store) UpdateQuantity(ctx context.Context, storeID, itemID string, quantity int) error {
	if quantity < 1 {
		return s.Remove(ctx, storeID, itemID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].StoreID == storeID && s.lines[i].Item.ID == itemID {
			s.lines[i].Quantity = quantity
			if err := s.persist(ctx); err != nil {
				return err
			}
			s.notify("Cart updated")
			return nil
		}
	}
	return ErrNotInCart
}

// Remove drops a line from the cart.
func (s *Store) Remove(ctx context.Context, storeID, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.lines[:0]
	removed := ""
	for _, line := range s.lines {
		if line.StoreID == storeID && line.Item.ID == itemID {
			removed = line.Item.Name
			continue
		}
		kept = append(kept, line)
	}
	if removed == "" {
		return ErrNotInCart
	}
	s.lines = kept

	if err := s.persist(ctx); err != nil {
		return err
	}
	s.notify(fmt.Sprintf("%s removed from cart", removed))
	return nil
}

// Clear empties the cart and the persisted copy.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil
	if err := s.repo.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	s.notify("Cart cleared")
	return nil
}

// Total returns the sum of price times quantity over all lines.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total float64
	for i := range s.lines {
		total += s.lines[i].Subtotal()
	}
	return total
}

// ItemCount returns the total quantity across all lines.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for i := range s.lines {
		count += s.lines[i].Quantity
	}
	return count
}

// Lines returns a snapshot of the cart.
func (s *Store) Lines() []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := make([]models.CartLine, len(s.lines))
	copy(lines, s.lines)
	return lines
}

// persist writes the full cart. Callers hold the mutex.
func (s *Store) persist(ctx context.Context) error {
	if err := s.repo.Save(ctx, s.lines); err != nil {
		s.logger.WithFields(logrus.Fields{"error": err}).Error("Failed to persist cart")
		return fmt.Errorf("failed to persist cart: %w", err)
	}
	return nil
}
