package models

import "time"

// Business is the root tenant boundary. Every other entity belongs to
// exactly one business.
type Business struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
