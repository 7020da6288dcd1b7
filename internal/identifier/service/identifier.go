package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	identifiererrors "museumtix/internal/identifier/errors"
	"museumtix/internal/identifier/repository"
	"museumtix/pkg/config"
	apperrors "museumtix/pkg/errors"
)

// codeAlphabet is the character set for random public codes. 36 symbols, so
// rejection sampling below cuts at the largest multiple of 36 under 256.
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// CodeScope is the uniqueness domain a random code is checked against,
// typically one collection filtered to its public-identifier field. The
// check is a fast path only; the store's unique index stays authoritative
// and callers retry the insert on a duplicate-key error.
type CodeScope interface {
	CodeInUse(ctx context.Context, code string) (bool, error)
}

type IdentifierService interface {
	// NextSerial mints the next zero-padded serial identifier for the
	// named counter, e.g. NextSerial(ctx, "bookingNumber", "BKG") ->
	// "BKG-000123".
	NextSerial(ctx context.Context, counterName, prefix string) (string, error)

	// RandomCandidate draws one random candidate "{prefix}-{code}".
	RandomCandidate(prefix string) (string, error)

	// GenerateUniqueCode returns the first candidate not in use within
	// scope, giving up after the configured attempt budget.
	GenerateUniqueCode(ctx context.Context, scope CodeScope, prefix string) (string, error)

	// Retries is the attempt budget callers reuse for their own
	// insert-and-retry loops.
	Retries() int
}

type identifierService struct {
	repo repository.SequenceRepository
	cfg  *config.Config
}

func NewIdentifierService(repo repository.SequenceRepository, cfg *config.Config) IdentifierService {
	return &identifierService{
		repo: repo,
		cfg:  cfg,
	}
}

func (s *identifierService) NextSerial(ctx context.Context, counterName, prefix string) (string, error) {
	seq, err := s.repo.Next(ctx, counterName)
	if err != nil {
		s.cfg.Log.Error("Sequence increment failed", "counter", counterName, "error", err)
		if errors.Is(err, identifiererrors.ErrCounterUnavailable) {
			return "", apperrors.Unavailable("sequence store", err)
		}
		return "", apperrors.Internal("Failed to mint serial identifier", err)
	}

	return FormatSerial(prefix, seq, s.cfg.SerialPadding), nil
}

func FormatSerial(prefix string, seq int64, padding int) string {
	return fmt.Sprintf("%s-%0*d", prefix, padding, seq)
}

func (s *identifierService) RandomCandidate(prefix string) (string, error) {
	code, err := randomCode(s.cfg.RandomCodeLength)
	if err != nil {
		return "", apperrors.Internal("Failed to draw random code", err)
	}
	return prefix + "-" + code, nil
}

func (s *identifierService) GenerateUniqueCode(ctx context.Context, scope CodeScope, prefix string) (string, error) {
	for attempt := 0; attempt < s.cfg.RandomCodeRetries; attempt++ {
		candidate, err := s.RandomCandidate(prefix)
		if err != nil {
			return "", err
		}

		inUse, err := scope.CodeInUse(ctx, candidate)
		if err != nil {
			return "", apperrors.Internal("Failed to check code uniqueness", err)
		}
		if !inUse {
			return candidate, nil
		}
	}

	s.cfg.Log.Error("Random code space exhausted",
		"prefix", prefix,
		"attempts", s.cfg.RandomCodeRetries,
	)
	return "", apperrors.Internal("Could not generate a unique code", identifiererrors.ErrCodeExhausted).
		WithDetails(map[string]any{"attempts": s.cfg.RandomCodeRetries})
}

func (s *identifierService) Retries() int {
	return s.cfg.RandomCodeRetries
}

// randomCode draws length characters uniformly from codeAlphabet using
// rejection sampling, so no symbol is favored by the modulo.
func randomCode(length int) (string, error) {
	const cutoff = 252 // largest multiple of len(codeAlphabet) below 256

	out := make([]byte, 0, length)
	buf := make([]byte, length*2)

	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if b >= cutoff {
				continue
			}
			out = append(out, codeAlphabet[int(b)%len(codeAlphabet)])
			if len(out) == length {
				break
			}
		}
	}

	return string(out), nil
}
