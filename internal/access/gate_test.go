package access

import (
	"errors"
	"testing"
)

func TestGateCheck(t *testing.T) {
	gate := NewGate("s3cret", []string{"https://serge.dev", "", "  ", "http://localhost:5173"})

	tests := []struct {
		name    string
		key     string
		origin  string
		allowed bool
	}{
		{"valid key no origin", "s3cret", "", true},
		{"valid key allowed origin", "s3cret", "https://serge.dev", true},
		{"valid key referer with path", "s3cret", "https://serge.dev/contact?x=1", true},
		{"valid key second entry", "s3cret", "http://localhost:5173", true},
		{"wrong key no origin", "nope", "", false},
		{"missing key", "", "https://serge.dev", false},
		{"key prefix", "s3cre", "", false},
		{"key suffix", "s3cret!", "", false},
		{"valid key foreign origin", "s3cret", "https://evil.example", false},
		{"valid key scheme mismatch", "s3cret", "http://serge.dev", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := gate.Check(tt.key, tt.origin)
			if tt.allowed && err != nil {
				t.Errorf("Check() = %v, want nil", err)
			}
			if !tt.allowed && !errors.Is(err, ErrAccessDenied) {
				t.Errorf("Check() = %v, want ErrAccessDenied", err)
			}
		})
	}
}

func TestGateWithoutKeyDeniesEverything(t *testing.T) {
	gate := NewGate("", []string{"https://serge.dev"})

	for _, key := range []string{"", "anything"} {
		if err := gate.Check(key, ""); !errors.Is(err, ErrAccessDenied) {
			t.Errorf("Check(%q) = %v, want ErrAccessDenied", key, err)
		}
	}
}

func TestGateWithoutOriginsDeniesDeclaredOrigins(t *testing.T) {
	gate := NewGate("k", nil)

	if err := gate.Check("k", ""); err != nil {
		t.Errorf("Check() without origin = %v, want nil", err)
	}
	if err := gate.Check("k", "https://serge.dev"); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("Check() with origin = %v, want ErrAccessDenied", err)
	}
}

func TestOriginsDropsBlankEntries(t *testing.T) {
	gate := NewGate("k", []string{"", " https://a.example ", "\t"})
	got := gate.Origins()
	if len(got) != 1 || got[0] != "https://a.example" {
		t.Errorf("Origins() = %v", got)
	}
}

func TestRequestOrigin(t *testing.T) {
	tests := []struct {
		origin, referer, want string
	}{
		{"https://a.example", "https://b.example/page", "https://a.example"},
		{"", "https://b.example/page", "https://b.example/page"},
		{"", "", ""},
	}
	for _, tt := range tests {
		if got := RequestOrigin(tt.origin, tt.referer); got != tt.want {
			t.Errorf("RequestOrigin(%q, %q) = %q, want %q", tt.origin, tt.referer, got, tt.want)
		}
	}
}
