package service

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	stockerrors "museumtix/internal/stock/errors"
	"museumtix/internal/stock/validator"
	"museumtix/pkg/config"
	mongotx "museumtix/pkg/db/mongo"
	apperrors "museumtix/pkg/errors"
	"museumtix/pkg/logger"
	"museumtix/pkg/model"
)

// Mock repositories for testing
type mockBatchRepository struct {
	insertFunc         func(ctx context.Context, batch *model.StockBatch) error
	findByIDFunc       func(ctx context.Context, id string) (*model.StockBatch, error)
	findByCategoryFunc func(ctx context.Context, category model.TicketCategory) (*model.StockBatch, error)
	findAllFunc        func(ctx context.Context) ([]*model.StockBatch, error)
	setTotalFunc       func(ctx context.Context, id string, total int) error
	incTotalFunc       func(ctx context.Context, id string, delta int) error
	deleteFunc         func(ctx context.Context, id string) error
}

func (m *mockBatchRepository) Insert(ctx context.Context, batch *model.StockBatch) error {
	if m.insertFunc != nil {
		return m.insertFunc(ctx, batch)
	}
	batch.ID = "batch-1"
	return nil
}

func (m *mockBatchRepository) FindByID(ctx context.Context, id string) (*model.StockBatch, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, stockerrors.ErrBatchNotFound
}

func (m *mockBatchRepository) FindByCategory(ctx context.Context, category model.TicketCategory) (*model.StockBatch, error) {
	if m.findByCategoryFunc != nil {
		return m.findByCategoryFunc(ctx, category)
	}
	return nil, stockerrors.ErrBatchNotFound
}

func (m *mockBatchRepository) FindAll(ctx context.Context) ([]*model.StockBatch, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx)
	}
	return []*model.StockBatch{}, nil
}

func (m *mockBatchRepository) SetTotal(ctx context.Context, id string, total int) error {
	if m.setTotalFunc != nil {
		return m.setTotalFunc(ctx, id, total)
	}
	return nil
}

func (m *mockBatchRepository) IncTotal(ctx context.Context, id string, delta int) error {
	if m.incTotalFunc != nil {
		return m.incTotalFunc(ctx, id, delta)
	}
	return nil
}

func (m *mockBatchRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockBatchRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	var sessCtx mongo.SessionContext
	return fn(sessCtx)
}

type mockCodeRepository struct {
	insertManyFunc    func(ctx context.Context, codes []*model.TicketCode) error
	findByBatchFunc   func(ctx context.Context, batchID string) ([]*model.TicketCode, error)
	findAvailableFunc func(ctx context.Context, category model.TicketCategory, limit int) ([]*model.TicketCode, error)
	claimSoldFunc     func(ctx context.Context, ids []string) (int64, error)
	deleteByBatchFunc func(ctx context.Context, batchID string) (int64, error)
	countByBatchFunc  func(ctx context.Context, batchID string) (int64, error)
}

func (m *mockCodeRepository) InsertMany(ctx context.Context, codes []*model.TicketCode) error {
	if m.insertManyFunc != nil {
		return m.insertManyFunc(ctx, codes)
	}
	return nil
}

func (m *mockCodeRepository) FindByBatch(ctx context.Context, batchID string) ([]*model.TicketCode, error) {
	if m.findByBatchFunc != nil {
		return m.findByBatchFunc(ctx, batchID)
	}
	return []*model.TicketCode{}, nil
}

func (m *mockCodeRepository) FindAvailable(ctx context.Context, category model.TicketCategory, limit int) ([]*model.TicketCode, error) {
	if m.findAvailableFunc != nil {
		return m.findAvailableFunc(ctx, category, limit)
	}
	return []*model.TicketCode{}, nil
}

func (m *mockCodeRepository) ClaimSold(ctx context.Context, ids []string) (int64, error) {
	if m.claimSoldFunc != nil {
		return m.claimSoldFunc(ctx, ids)
	}
	return int64(len(ids)), nil
}

func (m *mockCodeRepository) DeleteByBatch(ctx context.Context, batchID string) (int64, error) {
	if m.deleteByBatchFunc != nil {
		return m.deleteByBatchFunc(ctx, batchID)
	}
	return 0, nil
}

func (m *mockCodeRepository) CountByBatch(ctx context.Context, batchID string) (int64, error) {
	if m.countByBatchFunc != nil {
		return m.countByBatchFunc(ctx, batchID)
	}
	return 0, nil
}

func testStockConfig() *config.Config {
	return &config.Config{
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
	}
}

func newTestStockService(batchRepo *mockBatchRepository, codeRepo *mockCodeRepository) StockService {
	cfg := testStockConfig()
	return NewStockService(batchRepo, codeRepo, validator.NewStockValidator(cfg.Log), nil, cfg)
}

func TestCreateBatch_GeneratesNumberedCodes(t *testing.T) {
	var inserted []*model.TicketCode
	batchRepo := &mockBatchRepository{}
	codeRepo := &mockCodeRepository{
		insertManyFunc: func(ctx context.Context, codes []*model.TicketCode) error {
			inserted = codes
			return nil
		},
	}
	svc := newTestStockService(batchRepo, codeRepo)

	batch, generated, err := svc.CreateBatch(context.Background(), &model.CreateBatchRequest{
		Category:   model.CategoryStudent,
		TotalCount: 20,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if generated != 20 {
		t.Errorf("expected 20 codes generated, got %d", generated)
	}
	if batch.TotalCount != 20 {
		t.Errorf("expected total 20, got %d", batch.TotalCount)
	}
	if len(inserted) != 20 {
		t.Fatalf("expected 20 inserted codes, got %d", len(inserted))
	}
	if inserted[0].Code != "1P" {
		t.Errorf("expected first code 1P, got %s", inserted[0].Code)
	}
	if inserted[16].Code != "17P" {
		t.Errorf("expected 17th code 17P, got %s", inserted[16].Code)
	}
	if inserted[19].Code != "20P" {
		t.Errorf("expected last code 20P, got %s", inserted[19].Code)
	}
	for i, code := range inserted {
		if code.Status != model.TicketAvailable {
			t.Fatalf("code %d: expected status available, got %s", i, code.Status)
		}
	}
}

func TestCreateBatch_CategorySuffixes(t *testing.T) {
	tests := []struct {
		category model.TicketCategory
		first    string
	}{
		{model.CategoryStudent, "1P"},
		{model.CategoryPublic, "1U"},
		{model.CategoryForeign, "1A"},
		{model.CategoryOther, "1K"},
	}

	for _, tt := range tests {
		var inserted []*model.TicketCode
		codeRepo := &mockCodeRepository{
			insertManyFunc: func(ctx context.Context, codes []*model.TicketCode) error {
				inserted = codes
				return nil
			},
		}
		svc := newTestStockService(&mockBatchRepository{}, codeRepo)

		_, _, err := svc.CreateBatch(context.Background(), &model.CreateBatchRequest{
			Category:   tt.category,
			TotalCount: 1,
		})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.category, err)
		}
		if inserted[0].Code != tt.first {
			t.Errorf("%s: expected code %s, got %s", tt.category, tt.first, inserted[0].Code)
		}
	}
}

func TestCreateBatch_DuplicateCategory(t *testing.T) {
	batchRepo := &mockBatchRepository{
		findByCategoryFunc: func(ctx context.Context, category model.TicketCategory) (*model.StockBatch, error) {
			return &model.StockBatch{ID: "existing", Category: category}, nil
		},
	}
	svc := newTestStockService(batchRepo, &mockCodeRepository{})

	_, _, err := svc.CreateBatch(context.Background(), &model.CreateBatchRequest{
		Category:   model.CategoryPublic,
		TotalCount: 5,
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected code %s, got %s", apperrors.CodeConflict, appErr.Code)
	}
}

func TestCreateBatch_InvalidCategory(t *testing.T) {
	svc := newTestStockService(&mockBatchRepository{}, &mockCodeRepository{})

	_, _, err := svc.CreateBatch(context.Background(), &model.CreateBatchRequest{
		Category:   "vip",
		TotalCount: 5,
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeValidation {
		t.Errorf("expected code %s, got %s", apperrors.CodeValidation, appErr.Code)
	}
}

func TestResizeBatch_RegeneratesFromOne(t *testing.T) {
	var deletedBatch string
	var inserted []*model.TicketCode
	var setTotal int

	batchRepo := &mockBatchRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.StockBatch, error) {
			return &model.StockBatch{ID: id, Category: model.CategoryForeign, TotalCount: 50}, nil
		},
		setTotalFunc: func(ctx context.Context, id string, total int) error {
			setTotal = total
			return nil
		},
	}
	codeRepo := &mockCodeRepository{
		deleteByBatchFunc: func(ctx context.Context, batchID string) (int64, error) {
			deletedBatch = batchID
			return 50, nil
		},
		insertManyFunc: func(ctx context.Context, codes []*model.TicketCode) error {
			inserted = codes
			return nil
		},
	}
	svc := newTestStockService(batchRepo, codeRepo)

	batch, err := svc.ResizeBatch(context.Background(), "batch-9", &model.ResizeBatchRequest{TotalCount: 30})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if deletedBatch != "batch-9" {
		t.Errorf("expected codes of batch-9 deleted, got %q", deletedBatch)
	}
	if len(inserted) != 30 {
		t.Fatalf("expected 30 regenerated codes, got %d", len(inserted))
	}
	if inserted[0].Code != "1A" || inserted[29].Code != "30A" {
		t.Errorf("expected codes 1A..30A, got %s..%s", inserted[0].Code, inserted[29].Code)
	}
	if setTotal != 30 {
		t.Errorf("expected total set to 30, got %d", setTotal)
	}
	if batch.TotalCount != 30 {
		t.Errorf("expected returned total 30, got %d", batch.TotalCount)
	}
}

func TestDeleteBatch_CascadesCodes(t *testing.T) {
	var deleted bool
	batchRepo := &mockBatchRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.StockBatch, error) {
			return &model.StockBatch{ID: id, Category: model.CategoryOther, TotalCount: 12}, nil
		},
		deleteFunc: func(ctx context.Context, id string) error {
			deleted = true
			return nil
		},
	}
	codeRepo := &mockCodeRepository{
		deleteByBatchFunc: func(ctx context.Context, batchID string) (int64, error) {
			return 12, nil
		},
	}
	svc := newTestStockService(batchRepo, codeRepo)

	batch, removed, err := svc.DeleteBatch(context.Background(), "batch-3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !deleted {
		t.Error("expected batch document deleted")
	}
	if removed != 12 {
		t.Errorf("expected 12 codes removed, got %d", removed)
	}
	if batch.Category != model.CategoryOther {
		t.Errorf("expected category other, got %s", batch.Category)
	}
}

func TestDeleteBatch_NotFound(t *testing.T) {
	svc := newTestStockService(&mockBatchRepository{}, &mockCodeRepository{})

	_, _, err := svc.DeleteBatch(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeNotFound {
		t.Errorf("expected code %s, got %s", apperrors.CodeNotFound, appErr.Code)
	}
}
