package service

import (
	"context"
	"strings"
	"sync"
	"testing"

	identifiererrors "museumtix/internal/identifier/errors"
	"museumtix/pkg/config"
	apperrors "museumtix/pkg/errors"
	"museumtix/pkg/logger"
)

// Mock sequence repository for testing
type mockSequenceRepository struct {
	mu       sync.Mutex
	seq      int64
	nextFunc func(ctx context.Context, name string) (int64, error)
}

func (m *mockSequenceRepository) Next(ctx context.Context, name string) (int64, error) {
	if m.nextFunc != nil {
		return m.nextFunc(ctx, name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	return m.seq, nil
}

type mockCodeScope struct {
	codeInUseFunc func(ctx context.Context, code string) (bool, error)
}

func (m *mockCodeScope) CodeInUse(ctx context.Context, code string) (bool, error) {
	if m.codeInUseFunc != nil {
		return m.codeInUseFunc(ctx, code)
	}
	return false, nil
}

func testConfig() *config.Config {
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

func TestNextSerial_SequentialValues(t *testing.T) {
	repo := &mockSequenceRepository{}
	svc := NewIdentifierService(repo, testConfig())

	expected := []string{"RSV-000001", "RSV-000002", "RSV-000003", "RSV-000004", "RSV-000005"}
	for i, want := range expected {
		got, err := svc.NextSerial(context.Background(), "reservationNumber", "RSV")
		if err != nil {
			t.Fatalf("call %d: unexpected error: %v", i+1, err)
		}
		if got != want {
			t.Errorf("call %d: expected %q, got %q", i+1, want, got)
		}
	}
}

func TestNextSerial_ConcurrentCallsStayUnique(t *testing.T) {
	repo := &mockSequenceRepository{}
	svc := NewIdentifierService(repo, testConfig())

	const workers = 50
	results := make(chan string, workers)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			serial, err := svc.NextSerial(context.Background(), "bookingNumber", "BKG")
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			results <- serial
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]bool)
	for serial := range results {
		if seen[serial] {
			t.Fatalf("duplicate serial minted: %s", serial)
		}
		seen[serial] = true
	}
	if len(seen) != workers {
		t.Errorf("expected %d unique serials, got %d", workers, len(seen))
	}
}

func TestNextSerial_CounterUnavailable(t *testing.T) {
	repo := &mockSequenceRepository{
		nextFunc: func(ctx context.Context, name string) (int64, error) {
			return 0, identifiererrors.ErrCounterUnavailable
		},
	}
	svc := NewIdentifierService(repo, testConfig())

	_, err := svc.NextSerial(context.Background(), "reservationNumber", "RSV")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	if !apperrors.IsAppError(err) {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeUnavailable {
		t.Errorf("expected code %s, got %s", apperrors.CodeUnavailable, appErr.Code)
	}
}

func TestFormatSerial_Padding(t *testing.T) {
	tests := []struct {
		prefix  string
		seq     int64
		padding int
		want    string
	}{
		{"RSV", 1, 6, "RSV-000001"},
		{"BKG", 42, 6, "BKG-000042"},
		{"RSV", 123456, 6, "RSV-123456"},
		{"RSV", 1234567, 6, "RSV-1234567"},
		{"X", 7, 3, "X-007"},
	}

	for _, tt := range tests {
		if got := FormatSerial(tt.prefix, tt.seq, tt.padding); got != tt.want {
			t.Errorf("FormatSerial(%q, %d, %d) = %q, want %q", tt.prefix, tt.seq, tt.padding, got, tt.want)
		}
	}
}

func TestRandomCandidate_Format(t *testing.T) {
	svc := NewIdentifierService(&mockSequenceRepository{}, testConfig())

	for i := 0; i < 100; i++ {
		candidate, err := svc.RandomCandidate("CST")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.HasPrefix(candidate, "CST-") {
			t.Fatalf("expected CST- prefix, got %q", candidate)
		}

		code := strings.TrimPrefix(candidate, "CST-")
		if len(code) != 6 {
			t.Fatalf("expected 6 code characters, got %q", code)
		}
		for _, r := range code {
			if !strings.ContainsRune(codeAlphabet, r) {
				t.Fatalf("code %q contains %q outside the alphabet", code, r)
			}
		}
	}
}

func TestGenerateUniqueCode_SkipsCollisions(t *testing.T) {
	collisions := 3
	scope := &mockCodeScope{
		codeInUseFunc: func(ctx context.Context, code string) (bool, error) {
			if collisions > 0 {
				collisions--
				return true, nil
			}
			return false, nil
		},
	}
	svc := NewIdentifierService(&mockSequenceRepository{}, testConfig())

	code, err := svc.GenerateUniqueCode(context.Background(), scope, "RCP")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(code, "RCP-") {
		t.Errorf("expected RCP- prefix, got %q", code)
	}
	if collisions != 0 {
		t.Errorf("expected all collisions consumed, %d left", collisions)
	}
}

func TestGenerateUniqueCode_Exhausted(t *testing.T) {
	scope := &mockCodeScope{
		codeInUseFunc: func(ctx context.Context, code string) (bool, error) {
			return true, nil
		},
	}
	svc := NewIdentifierService(&mockSequenceRepository{}, testConfig())

	_, err := svc.GenerateUniqueCode(context.Background(), scope, "CST")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	if !apperrors.IsAppError(err) {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeInternal {
		t.Errorf("expected code %s, got %s", apperrors.CodeInternal, appErr.Code)
	}
}
