package service

import (
	"context"
	"strings"
	"testing"
	"time"

	identifiersvc "museumtix/internal/identifier/service"
	recaperrors "museumtix/internal/recaps/errors"
	"museumtix/pkg/config"
	apperrors "museumtix/pkg/errors"
	"museumtix/pkg/kafka"
	"museumtix/pkg/logger"
	"museumtix/pkg/model"
)

// Mock repository for testing
type mockRecapRepository struct {
	incrementFunc  func(ctx context.Context, date, code string, category model.TicketCategory, quantity int) error
	findByDateFunc func(ctx context.Context, date string) (*model.SalesRecap, error)
	findAllFunc    func(ctx context.Context, limit int, offset int64) ([]*model.SalesRecap, error)
	codeInUseFunc  func(ctx context.Context, code string) (bool, error)
}

func (m *mockRecapRepository) IncrementSales(ctx context.Context, date, code string, category model.TicketCategory, quantity int) error {
	if m.incrementFunc != nil {
		return m.incrementFunc(ctx, date, code, category, quantity)
	}
	return nil
}

func (m *mockRecapRepository) FindByDate(ctx context.Context, date string) (*model.SalesRecap, error) {
	if m.findByDateFunc != nil {
		return m.findByDateFunc(ctx, date)
	}
	return nil, recaperrors.ErrRecapNotFound
}

func (m *mockRecapRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.SalesRecap, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, limit, offset)
	}
	return []*model.SalesRecap{}, nil
}

func (m *mockRecapRepository) CodeInUse(ctx context.Context, code string) (bool, error) {
	if m.codeInUseFunc != nil {
		return m.codeInUseFunc(ctx, code)
	}
	return false, nil
}

type mockSequenceRepository struct{}

func (m *mockSequenceRepository) Next(ctx context.Context, name string) (int64, error) {
	return 1, nil
}

func testRecapConfig() *config.Config {
	return &config.Config{
		SerialPadding:     6,
		RandomCodeLength:  6,
		RandomCodeRetries: 10,
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
	}
}

func newTestRecapService(repo *mockRecapRepository) RecapService {
	cfg := testRecapConfig()
	identifier := identifiersvc.NewIdentifierService(&mockSequenceRepository{}, cfg)
	return NewRecapService(repo, identifier, cfg)
}

func saleMessage(t *testing.T, event model.TicketsSoldEvent) kafka.Message {
	t.Helper()
	return kafka.NewMessage().
		WithKey(string(event.Category)).
		WithValue(event).
		WithEventType(model.EventTypeTicketsSold).
		WithSource("test").
		Build()
}

func TestHandleTicketsSold_FoldsSaleIntoDailyRecap(t *testing.T) {
	soldAt := time.Date(2026, 8, 29, 13, 30, 0, 0, time.UTC)

	var gotDate string
	var gotCategory model.TicketCategory
	var gotQuantity int
	repo := &mockRecapRepository{
		findByDateFunc: func(ctx context.Context, date string) (*model.SalesRecap, error) {
			return &model.SalesRecap{Date: date, Code: "RCP-AAAAAA"}, nil
		},
		incrementFunc: func(ctx context.Context, date, code string, category model.TicketCategory, quantity int) error {
			gotDate = date
			gotCategory = category
			gotQuantity = quantity
			if code != "" {
				t.Errorf("expected no code minted for an existing recap, got %q", code)
			}
			return nil
		},
	}
	svc := newTestRecapService(repo)

	msg := saleMessage(t, model.TicketsSoldEvent{
		Category: model.CategoryPublic,
		Codes:    []string{"1U", "2U", "3U"},
		Quantity: 3,
		SoldAt:   soldAt,
	})
	if err := svc.HandleTicketsSold(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotDate != "2026-08-29" {
		t.Errorf("expected date 2026-08-29, got %q", gotDate)
	}
	if gotCategory != model.CategoryPublic {
		t.Errorf("expected category public, got %s", gotCategory)
	}
	if gotQuantity != 3 {
		t.Errorf("expected quantity 3, got %d", gotQuantity)
	}
}

func TestHandleTicketsSold_MintsCodeForFirstSaleOfDay(t *testing.T) {
	var gotCode string
	repo := &mockRecapRepository{
		incrementFunc: func(ctx context.Context, date, code string, category model.TicketCategory, quantity int) error {
			gotCode = code
			return nil
		},
	}
	svc := newTestRecapService(repo)

	msg := saleMessage(t, model.TicketsSoldEvent{
		Category: model.CategoryStudent,
		Quantity: 2,
		SoldAt:   time.Now().UTC(),
	})
	if err := svc.HandleTicketsSold(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(gotCode, "RCP-") {
		t.Errorf("expected a minted RCP- code, got %q", gotCode)
	}
	if len(gotCode) != len("RCP-")+6 {
		t.Errorf("expected 6 random characters, got %q", gotCode)
	}
}

func TestHandleTicketsSold_UndecodablePayloadIsDiscarded(t *testing.T) {
	called := false
	repo := &mockRecapRepository{
		incrementFunc: func(ctx context.Context, date, code string, category model.TicketCategory, quantity int) error {
			called = true
			return nil
		},
	}
	svc := newTestRecapService(repo)

	msg := kafka.Message{Value: []byte("not json")}
	if err := svc.HandleTicketsSold(context.Background(), msg); err != nil {
		t.Fatalf("expected nil so the consumer commits, got %v", err)
	}
	if called {
		t.Error("malformed payload must not reach the repository")
	}
}

func TestHandleTicketsSold_InvalidEventFieldsAreDiscarded(t *testing.T) {
	tests := []struct {
		name  string
		event model.TicketsSoldEvent
	}{
		{
			name:  "unknown category",
			event: model.TicketsSoldEvent{Category: "vip", Quantity: 2, SoldAt: time.Now()},
		},
		{
			name:  "zero quantity",
			event: model.TicketsSoldEvent{Category: model.CategoryPublic, Quantity: 0, SoldAt: time.Now()},
		},
		{
			name:  "negative quantity",
			event: model.TicketsSoldEvent{Category: model.CategoryPublic, Quantity: -1, SoldAt: time.Now()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			repo := &mockRecapRepository{
				incrementFunc: func(ctx context.Context, date, code string, category model.TicketCategory, quantity int) error {
					called = true
					return nil
				},
			}
			svc := newTestRecapService(repo)

			if err := svc.HandleTicketsSold(context.Background(), saleMessage(t, tt.event)); err != nil {
				t.Fatalf("expected nil so the consumer commits, got %v", err)
			}
			if called {
				t.Error("invalid event must not reach the repository")
			}
		})
	}
}

func TestGetByDate_NotFound(t *testing.T) {
	svc := newTestRecapService(&mockRecapRepository{})

	_, err := svc.GetByDate(context.Background(), "2026-08-29")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeNotFound {
		t.Errorf("expected code %s, got %s", apperrors.CodeNotFound, appErr.Code)
	}
}

func TestGetByDate_Found(t *testing.T) {
	svc := newTestRecapService(&mockRecapRepository{
		findByDateFunc: func(ctx context.Context, date string) (*model.SalesRecap, error) {
			return &model.SalesRecap{
				Date:           date,
				Code:           "RCP-7KQ2ZP",
				CategoryCounts: map[string]int{"public": 3},
				TotalSold:      3,
			}, nil
		},
	})

	recap, err := svc.GetByDate(context.Background(), "2026-08-29")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if recap.TotalSold != 3 {
		t.Errorf("expected total sold 3, got %d", recap.TotalSold)
	}
}
