package models

import "time"

// OrderStatus is the coarse order state reported by the backend.
type OrderStatus string

const (
	OrderStatusPending         OrderStatus = "pending"
	OrderStatusCompleted       OrderStatus = "completed"
	OrderStatusCancelled       OrderStatus = "cancelled"
	OrderStatusRefundRequested OrderStatus = "refund_requested"
)

// TrackingStatus is the fine-grained progress of a paid order through the
// buyer/seller meetup and funds-release flow. The backend owns the state
// machine; the client only mirrors the value it is handed.
type TrackingStatus string

const (
	TrackingPaid             TrackingStatus = "paid"
	TrackingMeetingScheduled TrackingStatus = "meeting_scheduled"
	TrackingCompleted        TrackingStatus = "completed"
	TrackingRefundRequested  TrackingStatus = "refund_requested"
	TrackingRefunded         TrackingStatus = "refunded"
)

// MeetingDetails holds the buyer/seller meetup agreed for an order.
type MeetingDetails struct {
	Location string    `json:"location" db:"location"`
	Time     time.Time `json:"time" db:"time"`
}

// Order is a completed purchase of a single item, created by the backend
// once the payment gateway confirms the charge.
type Order struct {
	ID               string          `json:"id" db:"id"`
	Buyer            User            `json:"buyer"`
	Seller           User            `json:"seller"`
	Item             Item            `json:"item"`
	Price            float64         `json:"price" db:"price"`
	PaymentReference string          `json:"payment_reference" db:"payment_reference"`
	Status           OrderStatus     `json:"status" db:"status"`
	TrackingStatus   TrackingStatus  `json:"tracking_status" db:"tracking_status"`
	MeetingDetails   *MeetingDetails `json:"meeting_details,omitempty"`
	SellerRating     int             `json:"seller_rating,omitempty" db:"seller_rating"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
}

// IsTerminal returns true once the order can no longer move.
func (o *Order) IsTerminal() bool {
	switch o.TrackingStatus {
	case TrackingCompleted, TrackingRefunded:
		return true
	}
	return o.Status == OrderStatusCancelled
}

// IsRated returns true if the buyer has already rated the seller.
func (o *Order) IsRated() bool {
	return o.SellerRating > 0
}
