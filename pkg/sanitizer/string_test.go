package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trims edges", "  Budi Santoso  ", "Budi Santoso"},
		{"collapses interior runs", "Budi   \t Santoso", "Budi Santoso"},
		{"newlines become spaces", "Budi\nSantoso", "Budi Santoso"},
		{"empty stays empty", "", ""},
		{"whitespace only", "   \t\n ", ""},
		{"already clean", "Budi Santoso", "Budi Santoso"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"keeps digits and plus", "+62 812-3456-7890", "+6281234567890"},
		{"strips letters", "call 0812abc345", "0812345"},
		{"empty stays empty", "", ""},
		{"spaces only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePhone(tt.input); got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDefaultIfEmpty(t *testing.T) {
	if got := DefaultIfEmpty("", "-"); got != "-" {
		t.Errorf("expected placeholder for empty, got %q", got)
	}
	if got := DefaultIfEmpty("  \t ", "-"); got != "-" {
		t.Errorf("expected placeholder for blank, got %q", got)
	}
	if got := DefaultIfEmpty("Jl. Merdeka 12", "-"); got != "Jl. Merdeka 12" {
		t.Errorf("expected value preserved, got %q", got)
	}
}
