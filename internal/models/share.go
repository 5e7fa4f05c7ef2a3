package models

import "time"

// Share is a write-once snapshot of a user's liked songs, fetched by its short code.
type Share struct {
	ID        string    `json:"shareId"`
	OwnerID   string    `json:"ownerId"`
	Songs     []Track   `json:"songs"`
	CreatedAt time.Time `json:"createdAt"`
}
