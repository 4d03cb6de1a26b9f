package model

import "time"

// User mirrors the 'users' table.  Users are uniform: the same account can
// own properties and reserve other users' properties, so there is no role
// column; authorization is always per-resource.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	FirstName    string    // users.first_name
	LastName     string    // users.last_name
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
