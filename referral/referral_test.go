package referral

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestRecent(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		ts := now.Add(d)
		return &ts
	}

	if Recent(0, at(-time.Hour), now) {
		t.Fatal("zero count should never be recent")
	}
	if Recent(3, nil, now) {
		t.Fatal("missing timestamp should never be recent")
	}
	if !Recent(3, at(-47*time.Hour), now) {
		t.Fatal("47h old referral should be recent")
	}
	if Recent(3, at(-49*time.Hour), now) {
		t.Fatal("49h old referral should not be recent")
	}
}

func TestPayout(t *testing.T) {
	rate := decimal.NewFromInt(10)

	got := Payout(decimal.NewFromInt(200), 3, rate)
	if !got.Equal(decimal.NewFromInt(230)) {
		t.Fatalf("expected 230, got %s", got)
	}

	got = Payout(decimal.Decimal{}, 0, rate)
	if !got.IsZero() {
		t.Fatalf("expected 0 for empty inputs, got %s", got)
	}

	got = Payout(decimal.NewFromInt(200), -1, rate)
	if !got.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("negative count should contribute nothing, got %s", got)
	}
}
