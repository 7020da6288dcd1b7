package model

import "time"

// SalesRecap aggregates ticket sales for one calendar day. Built by the
// recap worker from sale events; Code is a random public identifier minted
// on first sale of the day.
type SalesRecap struct {
	ID             string         `json:"id,omitempty" bson:"_id,omitempty"`
	Code           string         `json:"code" bson:"code"`
	Date           string         `json:"date" bson:"date"` // YYYY-MM-DD
	CategoryCounts map[string]int `json:"category_counts" bson:"category_counts"`
	TotalSold      int            `json:"total_sold" bson:"total_sold"`
	UpdatedAt      time.Time      `json:"updated_at" bson:"updated_at"`
}

const RecapDateLayout = "2006-01-02"

func RecapDateFor(t time.Time) string {
	return t.UTC().Format(RecapDateLayout)
}
