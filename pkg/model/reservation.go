package model

import "time"

type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentPartial PaymentStatus = "dp"
	PaymentUnpaid  PaymentStatus = "unpaid"
)

// ReservationVariant describes one of the three booking flows. All variants
// share the Reservation document shape; they differ in collection, in how
// their public identifier is minted, and in whether the payment status
// distinguishes partial down payments.
type ReservationVariant struct {
	Name        string
	Collection  string
	CodePrefix  string
	CounterName string
	// Serial variants mint zero-padded counter identifiers; the rest get
	// collision-checked random codes.
	Serial bool
	// TriState variants report paid/dp/unpaid; binary ones only paid/unpaid.
	TriState bool
}

var (
	VariantDirect = ReservationVariant{
		Name:        "direct",
		Collection:  "Reservations",
		CodePrefix:  "RSV",
		CounterName: "reservationNumber",
		Serial:      true,
		TriState:    false,
	}
	VariantGroup = ReservationVariant{
		Name:        "group",
		Collection:  "Group_bookings",
		CodePrefix:  "BKG",
		CounterName: "bookingNumber",
		Serial:      true,
		TriState:    true,
	}
	VariantCustom = ReservationVariant{
		Name:       "custom",
		Collection: "Custom_reservations",
		CodePrefix: "CST",
		Serial:     false,
		TriState:   true,
	}
)

func Variants() []ReservationVariant {
	return []ReservationVariant{VariantDirect, VariantGroup, VariantCustom}
}

// Reservation is one visitor or group booking. PublicID is assigned exactly
// once at first persist and never reassigned. TotalMembers, the per-category
// amounts, TotalAmount, Change, and Status are derived before every write
// and never trusted from the caller.
type Reservation struct {
	ID       string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	PublicID string `json:"public_id,omitempty" bson:"public_id,omitempty" validate:"omitempty"`

	VisitorName string `json:"visitor_name" bson:"visitor_name" validate:"required,min=2,max=100"`
	Phone       string `json:"phone,omitempty" bson:"phone,omitempty" validate:"omitempty,max=20"`
	Address     string `json:"address,omitempty" bson:"address,omitempty" validate:"omitempty,max=200"`
	Agency      string `json:"agency,omitempty" bson:"agency,omitempty" validate:"omitempty,max=100"`
	Notes       string `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=500"`

	VisitingDate time.Time `json:"visiting_date" bson:"visiting_date" validate:"required"`
	VisitingHour int       `json:"visiting_hour" bson:"visiting_hour" validate:"required,visiting_hour"`

	StudentCount int `json:"student_count" bson:"student_count" validate:"min=0,max=1000"`
	PublicCount  int `json:"public_count" bson:"public_count" validate:"min=0,max=1000"`
	ForeignCount int `json:"foreign_count" bson:"foreign_count" validate:"min=0,max=1000"`
	OtherCount   int `json:"other_count" bson:"other_count" validate:"min=0,max=1000"`

	TotalMembers int `json:"total_members" bson:"total_members"`

	StudentAmount int64 `json:"student_amount" bson:"student_amount"`
	PublicAmount  int64 `json:"public_amount" bson:"public_amount"`
	ForeignAmount int64 `json:"foreign_amount" bson:"foreign_amount"`
	OtherAmount   int64 `json:"other_amount" bson:"other_amount"`

	TotalAmount int64 `json:"total_amount" bson:"total_amount" validate:"min=0"`
	DownPayment int64 `json:"down_payment" bson:"down_payment" validate:"min=0"`
	Change      int64 `json:"change" bson:"change"`

	Status PaymentStatus `json:"status" bson:"status"`

	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty" validate:"omitempty"`
}

// MemberCounts returns the per-category head counts in category order.
func (r *Reservation) MemberCounts() map[TicketCategory]int {
	return map[TicketCategory]int{
		CategoryStudent: r.StudentCount,
		CategoryPublic:  r.PublicCount,
		CategoryForeign: r.ForeignCount,
		CategoryOther:   r.OtherCount,
	}
}

type ReservationUpdate struct {
	VisitorName string `json:"visitor_name,omitempty" validate:"omitempty,min=2,max=100"`
	Phone       string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Address     string `json:"address,omitempty" validate:"omitempty,max=200"`
	Agency      string `json:"agency,omitempty" validate:"omitempty,max=100"`
	Notes       string `json:"notes,omitempty" validate:"omitempty,max=500"`

	VisitingDate *time.Time `json:"visiting_date,omitempty" validate:"omitempty"`
	VisitingHour *int       `json:"visiting_hour,omitempty" validate:"omitempty,visiting_hour"`

	StudentCount *int `json:"student_count,omitempty" validate:"omitempty,min=0,max=1000"`
	PublicCount  *int `json:"public_count,omitempty" validate:"omitempty,min=0,max=1000"`
	ForeignCount *int `json:"foreign_count,omitempty" validate:"omitempty,min=0,max=1000"`
	OtherCount   *int `json:"other_count,omitempty" validate:"omitempty,min=0,max=1000"`

	TotalAmount *int64 `json:"total_amount,omitempty" validate:"omitempty,min=0"`
	DownPayment *int64 `json:"down_payment,omitempty" validate:"omitempty,min=0"`
}
