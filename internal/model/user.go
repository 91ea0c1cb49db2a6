// Package model defines the data structures used throughout the application.
package model

import "time"

// Roles a user account can hold. Stored as plain TEXT in the users table —
// two values are all this board needs, so a lookup table would be noise.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered account, whether it was created with a local
// password or provisioned on first federated (Google) login.
//
// WHY Password `json:"-"`?
// The bcrypt hash must never leave the server. The `-` tag tells
// encoding/json to skip the field entirely, so handlers can return a
// *User directly without building a separate response struct.
//
// Federated accounts still carry a password hash — a random unusable one —
// so every row satisfies the NOT NULL constraint and the login path never
// needs to special-case them.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"` // UNIQUE in the users table
	Password  string    `json:"-"`     // bcrypt hash, never serialized
	Role      string    `json:"role"`  // RoleUser or RoleAdmin
	CreatedAt time.Time `json:"created_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
