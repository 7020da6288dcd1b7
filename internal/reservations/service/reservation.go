package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	identifiersvc "museumtix/internal/identifier/service"
	reservationerrors "museumtix/internal/reservations/errors"
	"museumtix/internal/reservations/repository"
	"museumtix/internal/reservations/validator"
	"museumtix/pkg/config"
	apperrors "museumtix/pkg/errors"
	"museumtix/pkg/kafka"
	"museumtix/pkg/model"
	"museumtix/pkg/sanitizer"
)

// PriceSource yields the current price table. The pricing service satisfies
// it; tests supply a fixed table.
type PriceSource interface {
	Prices(ctx context.Context) (model.PriceTable, error)
}

// EventPublisher is the slice of the kafka producer this service needs.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type ReservationService interface {
	Create(ctx context.Context, reservation *model.Reservation) error
	GetByID(ctx context.Context, id string) (*model.Reservation, error)
	GetByPublicID(ctx context.Context, publicID string) (*model.Reservation, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Reservation, int64, error)
	Update(ctx context.Context, id string, updates *model.ReservationUpdate) (*model.Reservation, error)
	Delete(ctx context.Context, id string) error
	Variant() model.ReservationVariant
}

type reservationService struct {
	repo       repository.ReservationRepository
	identifier identifiersvc.IdentifierService
	prices     PriceSource
	validator  *validator.ReservationValidator
	publisher  EventPublisher
	cfg        *config.Config
}

func NewReservationService(
	repo repository.ReservationRepository,
	identifier identifiersvc.IdentifierService,
	prices PriceSource,
	validator *validator.ReservationValidator,
	publisher EventPublisher,
	cfg *config.Config,
) ReservationService {
	return &reservationService{
		repo:       repo,
		identifier: identifier,
		prices:     prices,
		validator:  validator,
		publisher:  publisher,
		cfg:        cfg,
	}
}

func (s *reservationService) Variant() model.ReservationVariant {
	return s.repo.Variant()
}

func (s *reservationService) Create(ctx context.Context, reservation *model.Reservation) error {
	variant := s.repo.Variant()

	s.sanitize(reservation)
	reservation.VisitingDate = normalizeDate(reservation.VisitingDate)

	table, err := s.priceTable(ctx)
	if err != nil {
		return err
	}
	ApplyDerivedState(reservation, table, variant)

	if err := s.validator.Validate(reservation); err != nil {
		s.cfg.Log.Warn("Reservation validation failed", "variant", variant.Name, "error", err)
		return apperrors.Validation("Reservation validation failed", map[string]any{"error": err.Error()})
	}

	// Fast-path slot check for a friendly error before minting an
	// identifier. The unique index on (visiting_date, visiting_hour)
	// stays authoritative; a racing insert still fails below.
	occupied, err := s.repo.CountBySlot(ctx, reservation.VisitingDate, reservation.VisitingHour)
	if err != nil {
		return apperrors.Internal("Failed to check slot availability", err)
	}
	if occupied > 0 {
		return s.slotConflict(reservation)
	}

	if variant.Serial {
		return s.createSerial(ctx, reservation)
	}
	return s.createRandom(ctx, reservation)
}

// createSerial mints a counter-backed identifier and inserts once. Counter
// values never repeat, so a duplicate public_id here is a real fault rather
// than bad luck.
func (s *reservationService) createSerial(ctx context.Context, reservation *model.Reservation) error {
	variant := s.repo.Variant()

	publicID, err := s.identifier.NextSerial(ctx, variant.CounterName, variant.CodePrefix)
	if err != nil {
		return err
	}
	reservation.PublicID = publicID

	if err := s.repo.Insert(ctx, reservation); err != nil {
		if errors.Is(err, reservationerrors.ErrSlotTaken) {
			return s.slotConflict(reservation)
		}
		if errors.Is(err, reservationerrors.ErrDuplicateCode) {
			return apperrors.Internal("Serial identifier collision", err)
		}
		return apperrors.Internal("Failed to create reservation", err)
	}

	s.logCreated(reservation)
	s.publishCreated(ctx, reservation)
	return nil
}

// createRandom draws collision-checked random codes and retries the insert
// when the unique index catches a race on public_id. A slot conflict is
// terminal: retrying with a fresh code cannot free the slot.
func (s *reservationService) createRandom(ctx context.Context, reservation *model.Reservation) error {
	variant := s.repo.Variant()

	for attempt := 0; attempt < s.identifier.Retries(); attempt++ {
		publicID, err := s.identifier.GenerateUniqueCode(ctx, s.repo, variant.CodePrefix)
		if err != nil {
			return err
		}
		reservation.PublicID = publicID

		err = s.repo.Insert(ctx, reservation)
		if err == nil {
			s.logCreated(reservation)
			s.publishCreated(ctx, reservation)
			return nil
		}
		if errors.Is(err, reservationerrors.ErrSlotTaken) {
			return s.slotConflict(reservation)
		}
		if errors.Is(err, reservationerrors.ErrDuplicateCode) {
			s.cfg.Log.Warn("Public ID collided on insert, retrying",
				"variant", variant.Name,
				"attempt", attempt+1,
			)
			continue
		}
		return apperrors.Internal("Failed to create reservation", err)
	}

	return apperrors.Internal("Could not assign a unique public ID", reservationerrors.ErrDuplicateCode).
		WithDetails(map[string]any{"attempts": s.identifier.Retries()})
}

func (s *reservationService) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(err, id)
	}
	return reservation, nil
}

func (s *reservationService) GetByPublicID(ctx context.Context, publicID string) (*model.Reservation, error) {
	if publicID == "" {
		return nil, apperrors.InvalidInput("Public ID cannot be empty")
	}

	reservation, err := s.repo.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, s.mapLookupError(err, publicID)
	}
	return reservation, nil
}

func (s *reservationService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Reservation, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	reservations, err := s.repo.FindAll(ctx, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list reservations", "variant", s.repo.Variant().Name, "error", err)
		return nil, 0, apperrors.Internal("Failed to list reservations", err)
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to count reservations", err)
	}

	return reservations, total, nil
}

func (s *reservationService) Update(ctx context.Context, id string, updates *model.ReservationUpdate) (*model.Reservation, error) {
	if err := s.validator.ValidateUpdate(updates); err != nil {
		return nil, apperrors.Validation("Reservation validation failed", map[string]any{"error": err.Error()})
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := *existing
	applyUpdates(&merged, updates)
	s.sanitize(&merged)
	merged.VisitingDate = normalizeDate(merged.VisitingDate)

	table, err := s.priceTable(ctx)
	if err != nil {
		return nil, err
	}
	ApplyDerivedState(&merged, table, s.repo.Variant())

	if err := s.validator.Validate(&merged); err != nil {
		return nil, apperrors.Validation("Reservation validation failed", map[string]any{"error": err.Error()})
	}

	slotMoved := !merged.VisitingDate.Equal(existing.VisitingDate) || merged.VisitingHour != existing.VisitingHour
	if slotMoved {
		occupied, err := s.repo.CountBySlot(ctx, merged.VisitingDate, merged.VisitingHour)
		if err != nil {
			return nil, apperrors.Internal("Failed to check slot availability", err)
		}
		if occupied > 0 {
			return nil, s.slotConflict(&merged)
		}
	}

	// Public ID is assigned once at creation; Replace keeps the original
	// regardless of what the caller sent.
	merged.PublicID = existing.PublicID
	merged.CreatedAt = existing.CreatedAt

	if err := s.repo.Replace(ctx, id, &merged); err != nil {
		if errors.Is(err, reservationerrors.ErrSlotTaken) {
			return nil, s.slotConflict(&merged)
		}
		if errors.Is(err, reservationerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Reservation", id)
		}
		return nil, apperrors.Internal("Failed to update reservation", err)
	}

	s.cfg.Log.Info("Reservation updated",
		"variant", s.repo.Variant().Name,
		"public_id", merged.PublicID,
	)
	return &merged, nil
}

func (s *reservationService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapLookupError(err, id)
	}

	s.cfg.Log.Info("Reservation deleted", "variant", s.repo.Variant().Name, "id", id)
	return nil
}

func (s *reservationService) mapLookupError(err error, id string) error {
	switch {
	case errors.Is(err, reservationerrors.ErrNotFound):
		return apperrors.NotFoundWithID("Reservation", id)
	case errors.Is(err, reservationerrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid reservation ID format")
	default:
		return apperrors.Internal("Failed to load reservation", err)
	}
}

func (s *reservationService) slotConflict(reservation *model.Reservation) error {
	return apperrors.Conflict(fmt.Sprintf(
		"Slot %s hour %d is already booked",
		reservation.VisitingDate.Format("2006-01-02"),
		reservation.VisitingHour,
	))
}

func (s *reservationService) priceTable(ctx context.Context) (model.PriceTable, error) {
	if s.prices == nil {
		return nil, nil
	}
	table, err := s.prices.Prices(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to load ticket prices", err)
	}
	return table, nil
}

// sanitize normalizes the free-text fields and fills the legacy "-"
// placeholder for the optional ones, matching what the back office expects
// to render.
func (s *reservationService) sanitize(reservation *model.Reservation) {
	reservation.VisitorName = sanitizer.NormalizeName(reservation.VisitorName)
	reservation.Phone = sanitizer.DefaultIfEmpty(sanitizer.NormalizePhone(reservation.Phone), "-")
	reservation.Address = sanitizer.DefaultIfEmpty(sanitizer.TrimAndNormalize(reservation.Address), "-")
	reservation.Agency = sanitizer.DefaultIfEmpty(sanitizer.TrimAndNormalize(reservation.Agency), "-")
	reservation.Notes = sanitizer.DefaultIfEmpty(sanitizer.TrimAndNormalize(reservation.Notes), "-")
}

// normalizeDate truncates to midnight UTC so slot uniqueness compares by
// calendar day, not timestamp.
func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func applyUpdates(dst *model.Reservation, updates *model.ReservationUpdate) {
	if updates.VisitorName != "" {
		dst.VisitorName = updates.VisitorName
	}
	if updates.Phone != "" {
		dst.Phone = updates.Phone
	}
	if updates.Address != "" {
		dst.Address = updates.Address
	}
	if updates.Agency != "" {
		dst.Agency = updates.Agency
	}
	if updates.Notes != "" {
		dst.Notes = updates.Notes
	}
	if updates.VisitingDate != nil {
		dst.VisitingDate = *updates.VisitingDate
	}
	if updates.VisitingHour != nil {
		dst.VisitingHour = *updates.VisitingHour
	}
	if updates.StudentCount != nil {
		dst.StudentCount = *updates.StudentCount
	}
	if updates.PublicCount != nil {
		dst.PublicCount = *updates.PublicCount
	}
	if updates.ForeignCount != nil {
		dst.ForeignCount = *updates.ForeignCount
	}
	if updates.OtherCount != nil {
		dst.OtherCount = *updates.OtherCount
	}
	if updates.TotalAmount != nil {
		dst.TotalAmount = *updates.TotalAmount
	}
	if updates.DownPayment != nil {
		dst.DownPayment = *updates.DownPayment
	}
}

func (s *reservationService) logCreated(reservation *model.Reservation) {
	s.cfg.Log.Info("Reservation created",
		"variant", s.repo.Variant().Name,
		"public_id", reservation.PublicID,
		"visiting_date", reservation.VisitingDate.Format("2006-01-02"),
		"visiting_hour", reservation.VisitingHour,
		"total_members", reservation.TotalMembers,
		"status", reservation.Status,
	)
}

func (s *reservationService) publishCreated(ctx context.Context, reservation *model.Reservation) {
	if !s.cfg.EventPublishEnabled || s.publisher == nil {
		return
	}

	event := model.ReservationCreatedEvent{
		Variant:      s.repo.Variant().Name,
		PublicID:     reservation.PublicID,
		VisitingDate: reservation.VisitingDate,
		VisitingHour: reservation.VisitingHour,
		TotalMembers: reservation.TotalMembers,
		TotalAmount:  reservation.TotalAmount,
		Status:       reservation.Status,
		CreatedAt:    reservation.CreatedAt,
	}

	msg := kafka.NewMessage().
		WithKey(reservation.PublicID).
		WithValue(event).
		WithEventType(model.EventTypeReservationCreated).
		WithSource("museumtix").
		Build()

	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.cfg.Log.Error("Failed to publish reservation created event", "error", err)
	}
}
