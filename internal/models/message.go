package models

import "time"

// Message is a single direct message between two users.
type Message struct {
	ID         string    `json:"id" db:"id"`
	SenderID   string    `json:"sender_id" db:"sender_id"`
	ReceiverID string    `json:"receiver_id" db:"receiver_id"`
	Text       string    `json:"text,omitempty" db:"text"`
	Image      string    `json:"image,omitempty" db:"image"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// InvolvesPeer reports whether the message belongs to the conversation with
// the given peer, in either direction.
func (m *Message) InvolvesPeer(peerID string) bool {
	return m.SenderID == peerID || m.ReceiverID == peerID
}
