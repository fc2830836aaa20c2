package models

import "time"

// User is a registered account. Password holds the digest, never plaintext.
type User struct {
	ID        string
	Name      string
	Email     string
	Password  string
	PhotoURL  string
	CreatedAt time.Time
}
