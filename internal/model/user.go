package model

import "time"

// User is an account that can own snippets.
//
// PasswordHash is the bcrypt hash of the user's password. It must never leave
// the server — the wire shapes in wire.go deliberately have no field for it.
// Accounts are provisioned out of band (see cmd/useradd); the API itself has
// no registration endpoint.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Created      time.Time
}
