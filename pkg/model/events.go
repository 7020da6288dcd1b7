package model

import "time"

const (
	EventTypeTicketsSold        = "tickets.sold"
	EventTypeReservationCreated = "reservation.created"
)

// TicketsSoldEvent is published after a successful allocation commits.
type TicketsSoldEvent struct {
	Category TicketCategory `json:"category"`
	Codes    []string       `json:"codes"`
	Quantity int            `json:"quantity"`
	SoldAt   time.Time      `json:"sold_at"`
}

// ReservationCreatedEvent is published after a reservation of any variant
// is persisted with its public identifier.
type ReservationCreatedEvent struct {
	Variant      string        `json:"variant"`
	PublicID     string        `json:"public_id"`
	VisitingDate time.Time     `json:"visiting_date"`
	VisitingHour int           `json:"visiting_hour"`
	TotalMembers int           `json:"total_members"`
	TotalAmount  int64         `json:"total_amount"`
	Status       PaymentStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
}
