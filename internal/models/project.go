package models

import "time"

type Project struct {
	ID          string
	OwnerID     string
	Name        string
	Description *string
	Archived    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProjectRef is the minimal project identity embedded in cross-project task listings.
type ProjectRef struct {
	ID   string
	Name string
}
