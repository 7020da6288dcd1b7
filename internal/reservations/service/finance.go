package service

import "museumtix/pkg/model"

// ApplyDerivedState recomputes every derived field on the reservation from
// its head counts, the price table, and the down payment. Caller-supplied
// values for these fields are overwritten: totals, change, and payment
// status are facts about the inputs, not inputs themselves.
//
// Change is the overpayment refund: max(0, downPayment - totalAmount). Tri
// state variants report "dp" for a partial down payment; binary variants
// collapse that case to "unpaid".
func ApplyDerivedState(r *model.Reservation, prices model.PriceTable, variant model.ReservationVariant) {
	r.TotalMembers = r.StudentCount + r.PublicCount + r.ForeignCount + r.OtherCount

	r.StudentAmount = int64(r.StudentCount) * prices.PriceFor(model.CategoryStudent)
	r.PublicAmount = int64(r.PublicCount) * prices.PriceFor(model.CategoryPublic)
	r.ForeignAmount = int64(r.ForeignCount) * prices.PriceFor(model.CategoryForeign)
	r.OtherAmount = int64(r.OtherCount) * prices.PriceFor(model.CategoryOther)

	computed := r.StudentAmount + r.PublicAmount + r.ForeignAmount + r.OtherAmount
	if len(prices) > 0 {
		r.TotalAmount = computed
	}

	if r.DownPayment > r.TotalAmount {
		r.Change = r.DownPayment - r.TotalAmount
	} else {
		r.Change = 0
	}

	switch {
	case r.TotalAmount > 0 && r.DownPayment >= r.TotalAmount:
		r.Status = model.PaymentPaid
	case r.DownPayment > 0 && variant.TriState:
		r.Status = model.PaymentPartial
	default:
		r.Status = model.PaymentUnpaid
	}
}
