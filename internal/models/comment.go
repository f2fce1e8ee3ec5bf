package models

import "time"

// Comment is a free-text remark on a property, independent of any
// booking history. Public visibility is gated by moderation status.
type Comment struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	PropertyID    int64     `json:"property_id"`
	Comment       string    `json:"comment"`
	Status        string    `json:"status"`
	AdminResponse string    `json:"admin_response,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	UserName      string `json:"user_name,omitempty"`
	PropertyTitle string `json:"property_title,omitempty"`
}

// CommentStats aggregates comment counts by moderation status.
type CommentStats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}
