package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	pricingerrors "museumtix/internal/pricing/errors"
	"museumtix/internal/pricing/repository"
	"museumtix/pkg/config"
	apperrors "museumtix/pkg/errors"
	"museumtix/pkg/model"
)

type PricingService interface {
	SetPrice(ctx context.Context, price *model.TicketPrice) error
	GetPrice(ctx context.Context, category model.TicketCategory) (*model.TicketPrice, error)
	ListPrices(ctx context.Context) ([]*model.TicketPrice, error)
	Prices(ctx context.Context) (model.PriceTable, error)
}

type pricingService struct {
	repo repository.PriceRepository
	cfg  *config.Config

	// Price reads sit on every reservation write, so the table is cached
	// briefly. Staff price updates invalidate it immediately.
	mu       sync.Mutex
	cached   model.PriceTable
	cachedAt time.Time
	cacheTTL time.Duration
}

func NewPricingService(repo repository.PriceRepository, cfg *config.Config) PricingService {
	return &pricingService{
		repo:     repo,
		cfg:      cfg,
		cacheTTL: 30 * time.Second,
	}
}

func (s *pricingService) SetPrice(ctx context.Context, price *model.TicketPrice) error {
	if !price.Category.Valid() {
		return apperrors.InvalidInput(fmt.Sprintf("Unknown ticket category %q", price.Category))
	}
	if price.Price < 0 {
		return apperrors.InvalidInput("Price cannot be negative")
	}

	if err := s.repo.Upsert(ctx, price); err != nil {
		s.cfg.Log.Error("Failed to set ticket price", "category", price.Category, "error", err)
		return apperrors.Internal("Failed to set ticket price", err)
	}

	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()

	s.cfg.Log.Info("Ticket price updated", "category", price.Category, "price", price.Price)
	return nil
}

func (s *pricingService) GetPrice(ctx context.Context, category model.TicketCategory) (*model.TicketPrice, error) {
	if !category.Valid() {
		return nil, apperrors.InvalidInput(fmt.Sprintf("Unknown ticket category %q", category))
	}

	price, err := s.repo.FindByCategory(ctx, category)
	if err != nil {
		if errors.Is(err, pricingerrors.ErrPriceNotFound) {
			return nil, apperrors.NotFound(fmt.Sprintf("No price set for category %q", category))
		}
		return nil, apperrors.Internal("Failed to load ticket price", err)
	}

	return price, nil
}

func (s *pricingService) ListPrices(ctx context.Context) ([]*model.TicketPrice, error) {
	prices, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to list ticket prices", err)
	}
	return prices, nil
}

func (s *pricingService) Prices(ctx context.Context) (model.PriceTable, error) {
	s.mu.Lock()
	if s.cached != nil && time.Since(s.cachedAt) < s.cacheTTL {
		table := s.cached
		s.mu.Unlock()
		return table, nil
	}
	s.mu.Unlock()

	prices, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to load ticket prices", err)
	}

	table := make(model.PriceTable, len(prices))
	for _, p := range prices {
		table[p.Category] = p.Price
	}

	s.mu.Lock()
	s.cached = table
	s.cachedAt = time.Now()
	s.mu.Unlock()

	return table, nil
}
