package model

import "time"

type TicketCategory string

const (
	CategoryStudent TicketCategory = "student"
	CategoryPublic  TicketCategory = "public"
	CategoryForeign TicketCategory = "foreign"
	CategoryOther   TicketCategory = "other"
)

// categoryPrefixes maps a category to the single-letter suffix appended to
// each generated ticket code (code "17P" = seventeenth student ticket).
var categoryPrefixes = map[TicketCategory]string{
	CategoryStudent: "P",
	CategoryPublic:  "U",
	CategoryForeign: "A",
	CategoryOther:   "K",
}

func (c TicketCategory) Valid() bool {
	_, ok := categoryPrefixes[c]
	return ok
}

func (c TicketCategory) CodeSuffix() string {
	return categoryPrefixes[c]
}

func AllCategories() []TicketCategory {
	return []TicketCategory{CategoryStudent, CategoryPublic, CategoryForeign, CategoryOther}
}

type TicketCodeStatus string

const (
	TicketAvailable TicketCodeStatus = "available"
	TicketSold      TicketCodeStatus = "sold"
	TicketExpired   TicketCodeStatus = "expired"
)

// StockBatch is the purchasable quantity for one category. At most one batch
// exists per category; TotalCount always equals the number of linked codes
// that have not been sold off the total.
type StockBatch struct {
	ID         string         `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Category   TicketCategory `json:"category" bson:"category" validate:"required,ticket_category"`
	TotalCount int            `json:"total_count" bson:"total_count" validate:"required,min=1,max=100000"`
	CreatedAt  time.Time      `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt  time.Time      `json:"updated_at,omitempty" bson:"updated_at,omitempty" validate:"omitempty"`
}

// TicketCode is one individually sellable unit generated from a StockBatch.
// Codes are owned by their batch and die with it.
type TicketCode struct {
	ID        string           `json:"id,omitempty" bson:"_id,omitempty"`
	Code      string           `json:"code" bson:"code"`
	Category  TicketCategory   `json:"category" bson:"category"`
	BatchID   string           `json:"batch_id" bson:"batch_id"`
	Status    TicketCodeStatus `json:"status" bson:"status"`
	CreatedAt time.Time        `json:"created_at" bson:"created_at"`
}

type CreateBatchRequest struct {
	Category   TicketCategory `json:"category" validate:"required,ticket_category"`
	TotalCount int            `json:"total_count" validate:"required,min=1,max=100000"`
}

type ResizeBatchRequest struct {
	TotalCount int `json:"total_count" validate:"required,min=1,max=100000"`
}

type AllocateRequest struct {
	Category TicketCategory `json:"category" validate:"required,ticket_category"`
	Quantity int            `json:"quantity" validate:"required,min=1,max=1000"`
}
