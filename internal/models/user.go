package models

import "time"

// User represents a marketplace account, buyer or seller.
type User struct {
	ID         string    `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Email      string    `json:"email" db:"email"`
	Avatar     string    `json:"avatar,omitempty" db:"avatar"`
	IsAdmin    bool      `json:"is_admin" db:"is_admin"`
	IsVerified bool      `json:"is_verified" db:"is_verified"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// DisplayName returns the best display name for the user.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// Session is the authenticated state persisted between runs: the bearer
// token issued by the backend plus the user it belongs to.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
