package service

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	stockerrors "museumtix/internal/stock/errors"
	"museumtix/internal/stock/repository"
	"museumtix/internal/stock/validator"
	"museumtix/pkg/config"
	apperrors "museumtix/pkg/errors"
	"museumtix/pkg/kafka"
	"museumtix/pkg/model"
)

// EventPublisher is the slice of the kafka producer the stock service needs.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type StockService interface {
	CreateBatch(ctx context.Context, req *model.CreateBatchRequest) (*model.StockBatch, int, error)
	ResizeBatch(ctx context.Context, id string, req *model.ResizeBatchRequest) (*model.StockBatch, error)
	DeleteBatch(ctx context.Context, id string) (*model.StockBatch, int64, error)
	GetBatch(ctx context.Context, id string) (*model.StockBatch, []*model.TicketCode, error)
	ListBatches(ctx context.Context) ([]*model.StockBatch, error)
	Allocate(ctx context.Context, req *model.AllocateRequest) ([]string, error)
}

type stockService struct {
	batchRepo repository.BatchRepository
	codeRepo  repository.CodeRepository
	validator *validator.StockValidator
	publisher EventPublisher
	cfg       *config.Config
}

func NewStockService(
	batchRepo repository.BatchRepository,
	codeRepo repository.CodeRepository,
	validator *validator.StockValidator,
	publisher EventPublisher,
	cfg *config.Config,
) StockService {
	return &stockService{
		batchRepo: batchRepo,
		codeRepo:  codeRepo,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *stockService) CreateBatch(ctx context.Context, req *model.CreateBatchRequest) (*model.StockBatch, int, error) {
	if err := s.validator.ValidateCreate(req); err != nil {
		s.cfg.Log.Warn("Stock batch validation failed", "error", err)
		return nil, 0, apperrors.Validation("Stock batch validation failed", map[string]any{"error": err.Error()})
	}

	// Fast-path check; the unique index on category stays authoritative
	// and Insert maps its duplicate-key error to the same conflict.
	if _, err := s.batchRepo.FindByCategory(ctx, req.Category); err == nil {
		return nil, 0, apperrors.Conflict(fmt.Sprintf("A stock batch for category %q already exists", req.Category))
	} else if !errors.Is(err, stockerrors.ErrBatchNotFound) {
		return nil, 0, apperrors.Internal("Failed to check existing stock batch", err)
	}

	batch := &model.StockBatch{
		Category:   req.Category,
		TotalCount: req.TotalCount,
	}

	err := s.batchRepo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.batchRepo.Insert(sessCtx, batch); err != nil {
			if errors.Is(err, stockerrors.ErrDuplicateCategory) {
				return apperrors.Conflict(fmt.Sprintf("A stock batch for category %q already exists", req.Category))
			}
			return apperrors.Internal("Failed to create stock batch", err)
		}

		if err := s.codeRepo.InsertMany(sessCtx, buildCodes(batch, req.TotalCount)); err != nil {
			return apperrors.Internal("Failed to generate ticket codes", err)
		}

		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create stock batch", "category", req.Category, "error", err)
		return nil, 0, err
	}

	s.cfg.Log.Info("Stock batch created",
		"id", batch.ID,
		"category", batch.Category,
		"total_count", batch.TotalCount,
	)
	return batch, req.TotalCount, nil
}

func (s *stockService) ResizeBatch(ctx context.Context, id string, req *model.ResizeBatchRequest) (*model.StockBatch, error) {
	if err := s.validator.ValidateResize(req); err != nil {
		s.cfg.Log.Warn("Stock batch resize validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Stock batch validation failed", map[string]any{"error": err.Error()})
	}

	batch, err := s.loadBatch(ctx, id)
	if err != nil {
		return nil, err
	}

	// Destructive by design: all codes, sold ones included, are discarded
	// and regenerated from 1. Callers needing a sale audit trail must keep
	// it elsewhere before resizing.
	err = s.batchRepo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if _, err := s.codeRepo.DeleteByBatch(sessCtx, batch.ID); err != nil {
			return apperrors.Internal("Failed to clear ticket codes", err)
		}

		if err := s.codeRepo.InsertMany(sessCtx, buildCodes(batch, req.TotalCount)); err != nil {
			return apperrors.Internal("Failed to regenerate ticket codes", err)
		}

		if err := s.batchRepo.SetTotal(sessCtx, batch.ID, req.TotalCount); err != nil {
			return apperrors.Internal("Failed to update stock batch total", err)
		}

		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to resize stock batch", "id", id, "error", err)
		return nil, err
	}

	batch.TotalCount = req.TotalCount
	s.cfg.Log.Info("Stock batch resized",
		"id", batch.ID,
		"category", batch.Category,
		"total_count", batch.TotalCount,
	)
	return batch, nil
}

func (s *stockService) DeleteBatch(ctx context.Context, id string) (*model.StockBatch, int64, error) {
	batch, err := s.loadBatch(ctx, id)
	if err != nil {
		return nil, 0, err
	}

	var removed int64
	err = s.batchRepo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		count, err := s.codeRepo.DeleteByBatch(sessCtx, batch.ID)
		if err != nil {
			return apperrors.Internal("Failed to delete ticket codes", err)
		}
		removed = count

		if err := s.batchRepo.Delete(sessCtx, batch.ID); err != nil {
			if errors.Is(err, stockerrors.ErrBatchNotFound) {
				return apperrors.NotFoundWithID("Stock batch", id)
			}
			return apperrors.Internal("Failed to delete stock batch", err)
		}

		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to delete stock batch", "id", id, "error", err)
		return nil, 0, err
	}

	s.cfg.Log.Info("Stock batch deleted",
		"id", batch.ID,
		"category", batch.Category,
		"codes_removed", removed,
	)
	return batch, removed, nil
}

func (s *stockService) GetBatch(ctx context.Context, id string) (*model.StockBatch, []*model.TicketCode, error) {
	batch, err := s.loadBatch(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	codes, err := s.codeRepo.FindByBatch(ctx, batch.ID)
	if err != nil {
		return nil, nil, apperrors.Internal("Failed to load ticket codes", err)
	}

	return batch, codes, nil
}

func (s *stockService) ListBatches(ctx context.Context) ([]*model.StockBatch, error) {
	batches, err := s.batchRepo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list stock batches", "error", err)
		return nil, apperrors.Internal("Failed to list stock batches", err)
	}
	return batches, nil
}

func (s *stockService) loadBatch(ctx context.Context, id string) (*model.StockBatch, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Stock batch ID cannot be empty")
	}

	batch, err := s.batchRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, stockerrors.ErrBatchNotFound) {
			return nil, apperrors.NotFoundWithID("Stock batch", id)
		}
		if errors.Is(err, stockerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid stock batch ID format")
		}
		return nil, apperrors.Internal("Failed to load stock batch", err)
	}

	return batch, nil
}

// buildCodes expands a batch into its individual codes, numbered from 1 and
// suffixed with the category letter ("1P", "2P", ...).
func buildCodes(batch *model.StockBatch, total int) []*model.TicketCode {
	codes := make([]*model.TicketCode, 0, total)
	for i := 1; i <= total; i++ {
		codes = append(codes, &model.TicketCode{
			Code:     fmt.Sprintf("%d%s", i, batch.Category.CodeSuffix()),
			Category: batch.Category,
			BatchID:  batch.ID,
			Status:   model.TicketAvailable,
		})
	}
	return codes
}
