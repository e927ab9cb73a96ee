package referral

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecencyWindow is how long after the last credited referral a partner still
// counts as actively referring.
const RecencyWindow = 48 * time.Hour

// Recent reports whether a partner has referred within the recency window.
// A missing timestamp or zero count is simply not recent, never an error.
func Recent(referralCount int, lastReferralAt *time.Time, now time.Time) bool {
	if referralCount <= 0 || lastReferralAt == nil {
		return false
	}
	return now.Sub(*lastReferralAt) < RecencyWindow
}

// Payout totals a record's earnings: the base earned amount plus one referral
// rate unit per credited referral. The rate is plan-specific and supplied by
// the caller, not stored on the record.
func Payout(earned decimal.Decimal, referralCount int, ratePerUnit decimal.Decimal) decimal.Decimal {
	if referralCount < 0 {
		referralCount = 0
	}
	return earned.Add(decimal.NewFromInt(int64(referralCount)).Mul(ratePerUnit))
}
