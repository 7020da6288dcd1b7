package service

import (
	"testing"

	"museumtix/pkg/model"
)

func testPrices() model.PriceTable {
	return model.PriceTable{
		model.CategoryStudent: 3000,
		model.CategoryPublic:  5000,
		model.CategoryForeign: 25000,
		model.CategoryOther:   4000,
	}
}

func TestApplyDerivedState_TotalsAndAmounts(t *testing.T) {
	r := &model.Reservation{
		StudentCount: 6,
		PublicCount:  10,
		ForeignCount: 1,
	}

	ApplyDerivedState(r, testPrices(), model.VariantGroup)

	if r.TotalMembers != 17 {
		t.Errorf("expected 17 total members, got %d", r.TotalMembers)
	}
	if r.StudentAmount != 18000 {
		t.Errorf("expected student amount 18000, got %d", r.StudentAmount)
	}
	if r.PublicAmount != 50000 {
		t.Errorf("expected public amount 50000, got %d", r.PublicAmount)
	}
	if r.ForeignAmount != 25000 {
		t.Errorf("expected foreign amount 25000, got %d", r.ForeignAmount)
	}
	if r.OtherAmount != 0 {
		t.Errorf("expected other amount 0, got %d", r.OtherAmount)
	}
	if r.TotalAmount != 93000 {
		t.Errorf("expected total amount 93000, got %d", r.TotalAmount)
	}
}

func TestApplyDerivedState_PaymentStatus(t *testing.T) {
	tests := []struct {
		name        string
		downPayment int64
		variant     model.ReservationVariant
		wantStatus  model.PaymentStatus
		wantChange  int64
	}{
		{"no payment tri-state", 0, model.VariantGroup, model.PaymentUnpaid, 0},
		{"partial payment tri-state", 50000, model.VariantGroup, model.PaymentPartial, 0},
		{"partial payment binary", 50000, model.VariantDirect, model.PaymentUnpaid, 0},
		{"exact payment", 93000, model.VariantGroup, model.PaymentPaid, 0},
		{"exact payment binary", 93000, model.VariantDirect, model.PaymentPaid, 0},
		{"overpayment", 100000, model.VariantCustom, model.PaymentPaid, 7000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &model.Reservation{
				StudentCount: 6,
				PublicCount:  10,
				ForeignCount: 1,
				DownPayment:  tt.downPayment,
			}

			ApplyDerivedState(r, testPrices(), tt.variant)

			if r.Status != tt.wantStatus {
				t.Errorf("expected status %s, got %s", tt.wantStatus, r.Status)
			}
			if r.Change != tt.wantChange {
				t.Errorf("expected change %d, got %d", tt.wantChange, r.Change)
			}
		})
	}
}

func TestApplyDerivedState_ZeroTotalNeverPaid(t *testing.T) {
	r := &model.Reservation{
		StudentCount: 2,
		DownPayment:  5000,
	}

	// No prices configured for any category.
	ApplyDerivedState(r, model.PriceTable{model.CategoryOther: 4000}, model.VariantDirect)

	if r.TotalAmount != 0 {
		t.Fatalf("expected total 0, got %d", r.TotalAmount)
	}
	if r.Status == model.PaymentPaid {
		t.Error("a zero total must not be reported as paid")
	}
	if r.Change != 5000 {
		t.Errorf("expected full down payment returned as change, got %d", r.Change)
	}
}

func TestApplyDerivedState_EmptyTableKeepsCallerTotal(t *testing.T) {
	r := &model.Reservation{
		PublicCount: 4,
		TotalAmount: 20000,
		DownPayment: 20000,
	}

	ApplyDerivedState(r, model.PriceTable{}, model.VariantGroup)

	if r.TotalAmount != 20000 {
		t.Errorf("expected caller total kept at 20000, got %d", r.TotalAmount)
	}
	if r.Status != model.PaymentPaid {
		t.Errorf("expected status paid, got %s", r.Status)
	}
}

func TestApplyDerivedState_OverwritesStaleDerivedFields(t *testing.T) {
	r := &model.Reservation{
		StudentCount: 1,
		TotalMembers: 99,
		TotalAmount:  1,
		Change:       12345,
		Status:       model.PaymentPaid,
	}

	ApplyDerivedState(r, testPrices(), model.VariantGroup)

	if r.TotalMembers != 1 {
		t.Errorf("expected recomputed members 1, got %d", r.TotalMembers)
	}
	if r.TotalAmount != 3000 {
		t.Errorf("expected recomputed total 3000, got %d", r.TotalAmount)
	}
	if r.Change != 0 {
		t.Errorf("expected recomputed change 0, got %d", r.Change)
	}
	if r.Status != model.PaymentUnpaid {
		t.Errorf("expected recomputed status unpaid, got %s", r.Status)
	}
}
