package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/meetmart/meetmart/internal/backend"
	"github.com/meetmart/meetmart/internal/models"
)

// Client drives an order through the meetup and funds-release flow. The
// backend owns the state machine; every method validates locally only to
// avoid pointless round-trips, then mirrors whatever Order the backend
// returns. Nothing is updated optimistically.
type Client struct {
	backend *backend.Client
}

// New creates an order lifecycle client.
func New(b *backend.Client) *Client {
	return &Client{backend: b}
}

// Get fetches one order.
func (c *Client) Get(ctx context.Context, orderID string) (*models.Order, error) {
	if orderID == "" {
		return nil, backend.NewValidation("order id is required")
	}
	var order models.Order
	if err := c.backend.Get(ctx, fmt.Sprintf("/purchases/%s", orderID), &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListMine lists the logged-in user's orders, as buyer or seller.
func (c *Client) ListMine(ctx context.Context) ([]models.Order, error) {
	var list []models.Order
	if err := c.backend.Get(ctx, "/purchases", &list); err != nil {
		return nil, err
	}
	return list, nil
}

// ScheduleMeeting proposes the buyer/seller meetup. Only valid while the
// order is freshly paid, with a non-empty location and time.
func (c *Client) ScheduleMeeting(ctx context.Context, order *models.Order, location string, at time.Time) (*models.Order, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, backend.NewValidation("meetup location is required")
	}
	if at.IsZero() {
		return nil, backend.NewValidation("meetup time is required")
	}
	if order.TrackingStatus != models.TrackingPaid {
		return nil, backend.NewValidation("a meetup can only be scheduled for a paid order, current status is %s", order.TrackingStatus)
	}

	var updated models.Order
	err := c.backend.Post(ctx, fmt.Sprintf("/purchases/%s/schedule-meeting", order.ID), map[string]any{
		"location": location,
		"time":     at.Format(time.RFC3339),
	}, &updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// ReleaseFunds hands the escrowed payment to the seller. Buyer-side
// action, valid once a meetup has been scheduled.
func (c *Client) ReleaseFunds(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.TrackingStatus != models.TrackingMeetingScheduled {
		return nil, backend.NewValidation("funds can only be released after a meetup is scheduled, current status is %s", order.TrackingStatus)
	}

	var updated models.Order
	if err := c.backend.Post(ctx, fmt.Sprintf("/purchases/%s/release-funds", order.ID), nil, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// RetractFunds asks for the escrowed payment back, starting the refund
// branch. Requires a reason, and an order that has not already finished.
func (c *Client) RetractFunds(ctx context.Context, order *models.Order, reason string) (*models.Order, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, backend.NewValidation("a reason is required to retract funds")
	}
	switch order.TrackingStatus {
	case models.TrackingPaid, models.TrackingMeetingScheduled:
	default:
		return nil, backend.NewValidation("funds cannot be retracted once the order is %s", order.TrackingStatus)
	}

	var updated models.Order
	err := c.backend.Post(ctx, fmt.Sprintf("/purchases/%s/retract-funds", order.ID), map[string]string{
		"reason": reason,
	}, &updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// RateSeller records the buyer's rating, an integer from 1 to 5, once the
// order is completed and only once.
func (c *Client) RateSeller(ctx context.Context, order *models.Order, rating int) (*models.Order, error) {
	if rating < 1 || rating > 5 {
		return nil, backend.NewValidation("rating must be between 1 and 5")
	}
	if order.TrackingStatus != models.TrackingCompleted {
		return nil, backend.NewValidation("the seller can only be rated after the order is completed")
	}
	if order.IsRated() {
		return nil, backend.NewValidation("this order's seller has already been rated")
	}

	var updated models.Order
	err := c.backend.Post(ctx, fmt.Sprintf("/purchases/%s/rate", order.ID), map[string]int{
		"rating": rating,
	}, &updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
