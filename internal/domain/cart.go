package domain

import "github.com/google/uuid"

// CartItem represents one product line in a user's cart.
// Rows are unique per (user_id, product_id); repeated adds
// accumulate into the quantity of the existing row.
type CartItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
}
