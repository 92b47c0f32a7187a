package model

import "time"

// User represents an account record as stored in the `users` table. Both
// Username and Email carry unique indexes; duplicate inserts surface as
// constraint violations from the database.
//
// PasswordHash is nil for accounts created through the administrative path
// without a password. Such accounts exist and can own posts but cannot
// authenticate.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username
	Email        string    // users.email
	PasswordHash *string   // users.password_hash (nullable)
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
