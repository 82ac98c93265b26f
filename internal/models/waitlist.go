package models

import "time"

// WaitlistStatus tracks an email on the signup waitlist.
type WaitlistStatus string

const (
	WaitlistPending WaitlistStatus = "pending"
	WaitlistInvited WaitlistStatus = "invited"
	WaitlistJoined  WaitlistStatus = "joined"
)

// WaitlistStatuses lists every status the backend accepts.
var WaitlistStatuses = []WaitlistStatus{
	WaitlistPending,
	WaitlistInvited,
	WaitlistJoined,
}

// ValidWaitlistStatus reports whether s is one of the accepted statuses.
func ValidWaitlistStatus(s WaitlistStatus) bool {
	for _, v := range WaitlistStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// WaitlistEntry is a single email waiting for access.
type WaitlistEntry struct {
	ID        string         `json:"id" db:"id"`
	Email     string         `json:"email" db:"email"`
	Status    WaitlistStatus `json:"status" db:"status"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
}
