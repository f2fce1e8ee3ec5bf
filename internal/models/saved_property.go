package models

import "time"

// SavedProperty is a bookmark join entity; at most one row may exist
// per (user, property) pair.
type SavedProperty struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	PropertyID int64     `json:"property_id"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Property *Property `json:"property,omitempty"`
}
