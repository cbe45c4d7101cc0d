// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import "time"

// User is an account that owns tasks and authenticates with email and password.
type User struct {
	ID           int64     // Database-assigned identifier, carried in session tokens as userId.
	Email        string    // Login identifier, unique across users.
	Name         string    // Display name.
	PasswordHash string    // Stored credential in "saltHex.keyHex" form. Never leaves the server.
	CreatedAt    time.Time // Timestamp of when this user account was created.
}
