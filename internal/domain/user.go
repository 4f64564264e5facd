// Package domain contains the core data types for the Spoedpakketjes delivery
// application. This package has zero external dependencies and is imported by
// every other internal package (repo, service, handler).
package domain

import "time"

// User is a customer account. Created at signup, immutable afterwards.
// PasswordHash holds a bcrypt hash; the plaintext password never reaches
// storage and the hash never serializes to JSON.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	CreatedAt    time.Time `json:"createdAt"`
}
