package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	identifiersvc "museumtix/internal/identifier/service"
	reservationerrors "museumtix/internal/reservations/errors"
	"museumtix/internal/reservations/validator"
	"museumtix/pkg/config"
	mongotx "museumtix/pkg/db/mongo"
	apperrors "museumtix/pkg/errors"
	"museumtix/pkg/logger"
	"museumtix/pkg/model"
)

// Mock repository for testing
type mockReservationRepository struct {
	variant model.ReservationVariant

	insertFunc         func(ctx context.Context, r *model.Reservation) error
	findByIDFunc       func(ctx context.Context, id string) (*model.Reservation, error)
	findByPublicIDFunc func(ctx context.Context, publicID string) (*model.Reservation, error)
	findAllFunc        func(ctx context.Context, limit int, offset int64) ([]*model.Reservation, error)
	countFunc          func(ctx context.Context) (int64, error)
	replaceFunc        func(ctx context.Context, id string, r *model.Reservation) error
	deleteFunc         func(ctx context.Context, id string) error
	countBySlotFunc    func(ctx context.Context, date time.Time, hour int) (int64, error)
	codeInUseFunc      func(ctx context.Context, code string) (bool, error)
}

func (m *mockReservationRepository) Insert(ctx context.Context, r *model.Reservation) error {
	if m.insertFunc != nil {
		return m.insertFunc(ctx, r)
	}
	r.ID = "res-1"
	return nil
}

func (m *mockReservationRepository) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, reservationerrors.ErrNotFound
}

func (m *mockReservationRepository) FindByPublicID(ctx context.Context, publicID string) (*model.Reservation, error) {
	if m.findByPublicIDFunc != nil {
		return m.findByPublicIDFunc(ctx, publicID)
	}
	return nil, reservationerrors.ErrNotFound
}

func (m *mockReservationRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Reservation, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, limit, offset)
	}
	return []*model.Reservation{}, nil
}

func (m *mockReservationRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

func (m *mockReservationRepository) Replace(ctx context.Context, id string, r *model.Reservation) error {
	if m.replaceFunc != nil {
		return m.replaceFunc(ctx, id, r)
	}
	return nil
}

func (m *mockReservationRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockReservationRepository) CountBySlot(ctx context.Context, date time.Time, hour int) (int64, error) {
	if m.countBySlotFunc != nil {
		return m.countBySlotFunc(ctx, date, hour)
	}
	return 0, nil
}

func (m *mockReservationRepository) CodeInUse(ctx context.Context, code string) (bool, error) {
	if m.codeInUseFunc != nil {
		return m.codeInUseFunc(ctx, code)
	}
	return false, nil
}

func (m *mockReservationRepository) Variant() model.ReservationVariant {
	return m.variant
}

func (m *mockReservationRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockSequenceRepository struct {
	seq int64
}

func (m *mockSequenceRepository) Next(ctx context.Context, name string) (int64, error) {
	m.seq++
	return m.seq, nil
}

type fixedPrices struct {
	table model.PriceTable
}

func (f *fixedPrices) Prices(ctx context.Context) (model.PriceTable, error) {
	return f.table, nil
}

func testReservationConfig() *config.Config {
	return &config.Config{
		SerialPadding:     6,
		RandomCodeLength:  6,
		RandomCodeRetries: 10,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      5 * time.Second,
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
	}
}

func newTestReservationService(repo *mockReservationRepository) ReservationService {
	cfg := testReservationConfig()
	identifier := identifiersvc.NewIdentifierService(&mockSequenceRepository{}, cfg)
	prices := &fixedPrices{table: testPrices()}
	return NewReservationService(repo, identifier, prices, validator.NewReservationValidator(cfg.Log), nil, cfg)
}

func validReservation() *model.Reservation {
	return &model.Reservation{
		VisitorName:  "Budi Santoso",
		VisitingDate: time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		VisitingHour: 3,
		StudentCount: 6,
		PublicCount:  10,
		ForeignCount: 1,
		DownPayment:  50000,
	}
}

func TestCreate_DirectMintsSerialPublicID(t *testing.T) {
	repo := &mockReservationRepository{variant: model.VariantDirect}
	svc := newTestReservationService(repo)

	r := validReservation()
	if err := svc.Create(context.Background(), r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if r.PublicID != "RSV-000001" {
		t.Errorf("expected public ID RSV-000001, got %q", r.PublicID)
	}
	if r.TotalMembers != 17 {
		t.Errorf("expected 17 members, got %d", r.TotalMembers)
	}
	if r.TotalAmount != 93000 {
		t.Errorf("expected total 93000, got %d", r.TotalAmount)
	}
	// Direct bookings collapse partial payments to unpaid.
	if r.Status != model.PaymentUnpaid {
		t.Errorf("expected status unpaid, got %s", r.Status)
	}
}

func TestCreate_GroupReportsPartialPayment(t *testing.T) {
	repo := &mockReservationRepository{variant: model.VariantGroup}
	svc := newTestReservationService(repo)

	r := validReservation()
	if err := svc.Create(context.Background(), r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if r.PublicID != "BKG-000001" {
		t.Errorf("expected public ID BKG-000001, got %q", r.PublicID)
	}
	if r.Status != model.PaymentPartial {
		t.Errorf("expected status dp, got %s", r.Status)
	}
}

func TestCreate_CustomMintsRandomPublicID(t *testing.T) {
	repo := &mockReservationRepository{variant: model.VariantCustom}
	svc := newTestReservationService(repo)

	r := validReservation()
	if err := svc.Create(context.Background(), r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(r.PublicID, "CST-") {
		t.Errorf("expected CST- prefix, got %q", r.PublicID)
	}
	if len(r.PublicID) != len("CST-")+6 {
		t.Errorf("expected 6 random characters, got %q", r.PublicID)
	}
}

func TestCreate_OptionalFieldsDefaultToDash(t *testing.T) {
	repo := &mockReservationRepository{variant: model.VariantDirect}
	svc := newTestReservationService(repo)

	r := validReservation()
	r.Phone = ""
	r.Address = "  "
	r.Agency = ""
	r.Notes = ""
	if err := svc.Create(context.Background(), r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for field, value := range map[string]string{
		"phone":   r.Phone,
		"address": r.Address,
		"agency":  r.Agency,
		"notes":   r.Notes,
	} {
		if value != "-" {
			t.Errorf("expected %s defaulted to \"-\", got %q", field, value)
		}
	}
}

func TestCreate_SlotAlreadyBookedFastPath(t *testing.T) {
	var inserted bool
	repo := &mockReservationRepository{
		variant: model.VariantDirect,
		countBySlotFunc: func(ctx context.Context, date time.Time, hour int) (int64, error) {
			return 1, nil
		},
		insertFunc: func(ctx context.Context, r *model.Reservation) error {
			inserted = true
			return nil
		},
	}
	svc := newTestReservationService(repo)

	err := svc.Create(context.Background(), validReservation())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected code %s, got %s", apperrors.CodeConflict, appErr.Code)
	}
	if inserted {
		t.Error("insert must not run when the pre-check sees the slot taken")
	}
}

func TestCreate_SlotRaceCaughtByIndex(t *testing.T) {
	// Pre-check passes but a concurrent insert wins the unique index.
	repo := &mockReservationRepository{
		variant: model.VariantDirect,
		insertFunc: func(ctx context.Context, r *model.Reservation) error {
			return reservationerrors.ErrSlotTaken
		},
	}
	svc := newTestReservationService(repo)

	err := svc.Create(context.Background(), validReservation())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected code %s, got %s", apperrors.CodeConflict, appErr.Code)
	}
}

func TestCreate_RandomCodeRetriesOnDuplicate(t *testing.T) {
	attempts := 0
	repo := &mockReservationRepository{
		variant: model.VariantCustom,
		insertFunc: func(ctx context.Context, r *model.Reservation) error {
			attempts++
			if attempts <= 2 {
				return fmt.Errorf("%w: dup", reservationerrors.ErrDuplicateCode)
			}
			return nil
		},
	}
	svc := newTestReservationService(repo)

	if err := svc.Create(context.Background(), validReservation()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 insert attempts, got %d", attempts)
	}
}

func TestCreate_InvalidVisitingHour(t *testing.T) {
	repo := &mockReservationRepository{variant: model.VariantDirect}
	svc := newTestReservationService(repo)

	r := validReservation()
	r.VisitingHour = 42
	err := svc.Create(context.Background(), r)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeValidation {
		t.Errorf("expected code %s, got %s", apperrors.CodeValidation, appErr.Code)
	}
}

func TestCreate_NoVisitors(t *testing.T) {
	repo := &mockReservationRepository{variant: model.VariantDirect}
	svc := newTestReservationService(repo)

	r := validReservation()
	r.StudentCount = 0
	r.PublicCount = 0
	r.ForeignCount = 0
	err := svc.Create(context.Background(), r)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeValidation {
		t.Errorf("expected code %s, got %s", apperrors.CodeValidation, appErr.Code)
	}
}

func TestUpdate_PublicIDStaysImmutable(t *testing.T) {
	existing := validReservation()
	existing.ID = "res-1"
	existing.PublicID = "RSV-000042"
	existing.Phone = "-"
	existing.Address = "-"
	existing.Agency = "-"
	existing.Notes = "-"

	var replaced *model.Reservation
	repo := &mockReservationRepository{
		variant: model.VariantDirect,
		findByIDFunc: func(ctx context.Context, id string) (*model.Reservation, error) {
			snapshot := *existing
			return &snapshot, nil
		},
		replaceFunc: func(ctx context.Context, id string, r *model.Reservation) error {
			replaced = r
			return nil
		},
	}
	svc := newTestReservationService(repo)

	newDP := int64(93000)
	updated, err := svc.Update(context.Background(), "res-1", &model.ReservationUpdate{
		DownPayment: &newDP,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.PublicID != "RSV-000042" {
		t.Errorf("expected public ID preserved, got %q", updated.PublicID)
	}
	if replaced.PublicID != "RSV-000042" {
		t.Errorf("expected persisted public ID preserved, got %q", replaced.PublicID)
	}
	if updated.Status != model.PaymentPaid {
		t.Errorf("expected status recomputed to paid, got %s", updated.Status)
	}
}

func TestUpdate_MovedSlotConflicts(t *testing.T) {
	existing := validReservation()
	existing.ID = "res-1"
	existing.PublicID = "RSV-000042"

	repo := &mockReservationRepository{
		variant: model.VariantDirect,
		findByIDFunc: func(ctx context.Context, id string) (*model.Reservation, error) {
			snapshot := *existing
			return &snapshot, nil
		},
		countBySlotFunc: func(ctx context.Context, date time.Time, hour int) (int64, error) {
			return 1, nil
		},
	}
	svc := newTestReservationService(repo)

	newHour := 6
	_, err := svc.Update(context.Background(), "res-1", &model.ReservationUpdate{
		VisitingHour: &newHour,
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected code %s, got %s", apperrors.CodeConflict, appErr.Code)
	}
}

func TestUpdate_SameSlotSkipsPreCheck(t *testing.T) {
	existing := validReservation()
	existing.ID = "res-1"
	existing.PublicID = "RSV-000042"

	repo := &mockReservationRepository{
		variant: model.VariantDirect,
		findByIDFunc: func(ctx context.Context, id string) (*model.Reservation, error) {
			snapshot := *existing
			return &snapshot, nil
		},
		// Occupied by this very reservation; an unchanged slot must not
		// trip the guard.
		countBySlotFunc: func(ctx context.Context, date time.Time, hour int) (int64, error) {
			return 1, nil
		},
	}
	svc := newTestReservationService(repo)

	name := "Siti Rahma"
	_, err := svc.Update(context.Background(), "res-1", &model.ReservationUpdate{
		VisitorName: name,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	svc := newTestReservationService(&mockReservationRepository{variant: model.VariantDirect})

	_, err := svc.GetByID(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeNotFound {
		t.Errorf("expected code %s, got %s", apperrors.CodeNotFound, appErr.Code)
	}
}
