// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

// PasswordHasher defines the interface for password hashing and verification.
// This abstracts the underlying key-derivation function, keeping the domain pure.
type PasswordHasher interface {
	// Hash derives a salted credential from a plaintext password.
	// Every call uses a fresh salt, so hashing the same password twice yields different strings.
	Hash(password string) (string, error)

	// Check reports whether password matches the stored credential.
	// A malformed credential is a mismatch, not an error.
	Check(password, credential string) bool
}
