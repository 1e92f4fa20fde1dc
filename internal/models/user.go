package models

import "time"

type User struct {
	ID        string
	Name      string
	Email     string
	Password  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Identity is what a verified access token says about its bearer.
type Identity struct {
	UserID string
	Email  string
}
