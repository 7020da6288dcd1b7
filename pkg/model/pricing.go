package model

import "time"

// TicketPrice is the per-person price for one category. One document per
// category, upserted by staff.
type TicketPrice struct {
	ID        string         `json:"id,omitempty" bson:"_id,omitempty"`
	Category  TicketCategory `json:"category" bson:"category" validate:"required,ticket_category"`
	Price     int64          `json:"price" bson:"price" validate:"required,min=0"`
	UpdatedAt time.Time      `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// PriceTable maps each category to its current price. Missing categories
// price at zero.
type PriceTable map[TicketCategory]int64

func (t PriceTable) PriceFor(c TicketCategory) int64 {
	return t[c]
}
