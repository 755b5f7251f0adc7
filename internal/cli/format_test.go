package cli

import (
	"testing"
	"time"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount float64
		code   string
		want   string
	}{
		{1234567.4, "USD", "$1,234,567"},
		{-120000, "USD", "-$120,000"},
		{0, "USD", "$0"},
		{999.5, "USD", "$1,000"},
		{250000, "INR", "₹250,000"},
		{42, "EUR", "€42"},
		{500, "???", "₹500"},
	}
	for _, tt := range tests {
		if got := FormatMoney(tt.amount, tt.code); got != tt.want {
			t.Fatalf("FormatMoney(%v, %q) = %q, want %q", tt.amount, tt.code, got, tt.want)
		}
	}
}

func TestFormatCompactMoney(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{950, "$950"},
		{1500, "$1.5K"},
		{2_340_000, "$2.3M"},
		{-4_000_000_000, "-$4.0B"},
	}
	for _, tt := range tests {
		if got := FormatCompactMoney(tt.amount, "USD"); got != tt.want {
			t.Fatalf("FormatCompactMoney(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestFormatSignedMoney(t *testing.T) {
	if got := FormatSignedMoney(1500, "USD"); got != "+$1,500" {
		t.Fatalf("FormatSignedMoney(1500) = %q", got)
	}
	if got := FormatSignedMoney(-1500, "USD"); got != "-$1,500" {
		t.Fatalf("FormatSignedMoney(-1500) = %q", got)
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-45000, "-45,000"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.n); got != tt.want {
			t.Fatalf("FormatNumber(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(0.125); got != "12.5%" {
		t.Fatalf("FormatPercent(0.125) = %q", got)
	}
	if got := FormatPointsDelta(0.05); got != "+5.0 pp" {
		t.Fatalf("FormatPointsDelta(0.05) = %q", got)
	}
	if got := FormatPointsDelta(-0.25); got != "-25.0 pp" {
		t.Fatalf("FormatPointsDelta(-0.25) = %q", got)
	}
}

func TestFormatElapsed(t *testing.T) {
	if got := FormatElapsed(250 * time.Millisecond); got != "250ms" {
		t.Fatalf("FormatElapsed(250ms) = %q", got)
	}
	if got := FormatElapsed(1500 * time.Millisecond); got != "1.50s" {
		t.Fatalf("FormatElapsed(1.5s) = %q", got)
	}
}

func TestFormatAge(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{50 * time.Hour, "2d ago"},
	}
	for _, tt := range tests {
		if got := FormatAge(now.Add(-tt.ago), now); got != tt.want {
			t.Fatalf("FormatAge(-%v) = %q, want %q", tt.ago, got, tt.want)
		}
	}
}
