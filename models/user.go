package models

import "time"

// Role values.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User status values. Deleting a user flips it to inactive.
const (
	UserActive   = "active"
	UserInactive = "inactive"
)

// User is an entry of the customer/admin directory.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	Role         string     `json:"role"`
	PasswordHash string     `json:"passwordHash,omitempty"`
	Company      string     `json:"company,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	Discount     *float64   `json:"discount,omitempty"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
}

// Public returns a copy safe to hand to clients or to embed in snapshots.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}

// IsActive reports whether the user may authenticate.
func (u User) IsActive() bool {
	return u.Status == UserActive
}
