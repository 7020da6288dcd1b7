package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	stockerrors "museumtix/internal/stock/errors"
	apperrors "museumtix/pkg/errors"
	"museumtix/pkg/kafka"
	"museumtix/pkg/model"
)

// Allocate claims req.Quantity available codes for the category, marks them
// sold, and decrements the batch total. The claim is a conditional bulk
// update inside a transaction: if another allocation grabbed any of the
// selected codes first, the modified count comes up short and the
// transaction aborts without partial effects.
func (s *stockService) Allocate(ctx context.Context, req *model.AllocateRequest) ([]string, error) {
	if err := s.validator.ValidateAllocate(req); err != nil {
		s.cfg.Log.Warn("Ticket allocation validation failed", "error", err)
		return nil, apperrors.Validation("Ticket allocation validation failed", map[string]any{"error": err.Error()})
	}

	var claimed []string
	err := s.batchRepo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		batch, err := s.batchRepo.FindByCategory(sessCtx, req.Category)
		if err != nil {
			if errors.Is(err, stockerrors.ErrBatchNotFound) {
				return apperrors.NotFound(fmt.Sprintf("No stock batch exists for category %q", req.Category))
			}
			return apperrors.Internal("Failed to load stock batch", err)
		}

		if batch.TotalCount < req.Quantity {
			return apperrors.BusinessRule(fmt.Sprintf("Insufficient stock for category %q", req.Category)).
				WithDetails(map[string]any{"requested": req.Quantity, "remaining": batch.TotalCount})
		}

		codes, err := s.codeRepo.FindAvailable(sessCtx, req.Category, req.Quantity)
		if err != nil {
			return apperrors.Internal("Failed to select available ticket codes", err)
		}
		if len(codes) < req.Quantity {
			return apperrors.BusinessRule(fmt.Sprintf("Insufficient available ticket codes for category %q", req.Category)).
				WithDetails(map[string]any{"requested": req.Quantity, "available": len(codes)})
		}

		ids := make([]string, 0, len(codes))
		values := make([]string, 0, len(codes))
		for _, code := range codes {
			ids = append(ids, code.ID)
			values = append(values, code.Code)
		}

		modified, err := s.codeRepo.ClaimSold(sessCtx, ids)
		if err != nil {
			return apperrors.Internal("Failed to claim ticket codes", err)
		}
		if modified != int64(req.Quantity) {
			// A concurrent allocation won some of these codes; abort so
			// the caller can retry against fresh availability.
			return apperrors.Conflict("Ticket codes were claimed by a concurrent allocation").
				WithDetails(map[string]any{"requested": req.Quantity, "claimed": modified})
		}

		if err := s.batchRepo.IncTotal(sessCtx, batch.ID, -req.Quantity); err != nil {
			return apperrors.Internal("Failed to decrement stock batch total", err)
		}

		claimed = values
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Ticket allocation failed",
			"category", req.Category,
			"quantity", req.Quantity,
			"error", err,
		)
		return nil, err
	}

	s.cfg.Log.Info("Tickets allocated",
		"category", req.Category,
		"quantity", req.Quantity,
	)
	s.publishTicketsSold(ctx, req.Category, claimed)

	return claimed, nil
}

func (s *stockService) publishTicketsSold(ctx context.Context, category model.TicketCategory, codes []string) {
	if !s.cfg.EventPublishEnabled || s.publisher == nil {
		return
	}

	event := model.TicketsSoldEvent{
		Category: category,
		Codes:    codes,
		Quantity: len(codes),
		SoldAt:   time.Now().UTC(),
	}

	msg := kafka.NewMessage().
		WithKey(string(category)).
		WithValue(event).
		WithEventType(model.EventTypeTicketsSold).
		WithSource("museumtix").
		Build()

	if err := s.publisher.Publish(ctx, msg); err != nil {
		// Publishing is best effort; the allocation already committed.
		s.cfg.Log.Error("Failed to publish tickets sold event", "error", err)
	}
}
