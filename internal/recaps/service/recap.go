package service

import (
	"context"
	"errors"

	identifiersvc "museumtix/internal/identifier/service"
	recaperrors "museumtix/internal/recaps/errors"
	"museumtix/internal/recaps/repository"
	"museumtix/pkg/config"
	apperrors "museumtix/pkg/errors"
	"museumtix/pkg/kafka"
	"museumtix/pkg/model"
)

type RecapService interface {
	// HandleTicketsSold is the consumer callback for sale events. Errors
	// bubble up to the consumer's retry and DLQ handling.
	HandleTicketsSold(ctx context.Context, msg kafka.Message) error
	GetByDate(ctx context.Context, date string) (*model.SalesRecap, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.SalesRecap, error)
}

type recapService struct {
	repo       repository.RecapRepository
	identifier identifiersvc.IdentifierService
	cfg        *config.Config
}

func NewRecapService(repo repository.RecapRepository, identifier identifiersvc.IdentifierService, cfg *config.Config) RecapService {
	return &recapService{
		repo:       repo,
		identifier: identifier,
		cfg:        cfg,
	}
}

func (s *recapService) HandleTicketsSold(ctx context.Context, msg kafka.Message) error {
	var event model.TicketsSoldEvent
	if err := msg.DecodeValue(&event); err != nil {
		// Malformed payloads never become valid on retry.
		s.cfg.Log.Error("Discarding undecodable sale event", "topic", msg.Topic, "offset", msg.Offset, "error", err)
		return nil
	}

	if !event.Category.Valid() || event.Quantity <= 0 {
		s.cfg.Log.Warn("Discarding sale event with invalid fields",
			"category", event.Category,
			"quantity", event.Quantity,
		)
		return nil
	}

	date := model.RecapDateFor(event.SoldAt)

	// The recap code is only consumed when the upsert inserts, so it is
	// minted lazily: skip generation when the day's document exists.
	code := ""
	if _, err := s.repo.FindByDate(ctx, date); err != nil {
		if !errors.Is(err, recaperrors.ErrRecapNotFound) {
			return err
		}
		minted, err := s.identifier.GenerateUniqueCode(ctx, s.repo, "RCP")
		if err != nil {
			return err
		}
		code = minted
	}

	if err := s.repo.IncrementSales(ctx, date, code, event.Category, event.Quantity); err != nil {
		s.cfg.Log.Error("Failed to fold sale into recap", "date", date, "error", err)
		return err
	}

	s.cfg.Log.Info("Sale folded into recap",
		"date", date,
		"category", event.Category,
		"quantity", event.Quantity,
	)
	return nil
}

func (s *recapService) GetByDate(ctx context.Context, date string) (*model.SalesRecap, error) {
	recap, err := s.repo.FindByDate(ctx, date)
	if err != nil {
		if errors.Is(err, recaperrors.ErrRecapNotFound) {
			return nil, apperrors.NotFound("No sales recap for " + date)
		}
		return nil, apperrors.Internal("Failed to load sales recap", err)
	}
	return recap, nil
}

func (s *recapService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.SalesRecap, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	recaps, err := s.repo.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.Internal("Failed to list sales recaps", err)
	}
	return recaps, nil
}
