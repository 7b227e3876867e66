package model

import "time"

// Ingredient represents a reusable ingredient entry owned by a user, e.g. an
// additive with its E number and the allergens it carries. Allergens are kept
// as an ordered list; the repository stores them JSON-encoded since MySQL has
// no array column type.
type Ingredient struct {
	ID        uint64    `json:"id"`        // ingredients.id
	OwnerID   uint64    `json:"ownerId"`   // ingredients.owner_id
	Name      string    `json:"name"`      // ingredients.name (required)
	Category  string    `json:"category"`  // ingredients.category
	ENumber   string    `json:"eNumber"`   // ingredients.e_number
	Allergens []string  `json:"allergens"` // ingredients.allergens (JSON-encoded TEXT)
	Details   string    `json:"details"`   // ingredients.details
	CreatedAt time.Time `json:"createdAt"` // ingredients.created_at
	UpdatedAt time.Time `json:"updatedAt"` // ingredients.updated_at
}
