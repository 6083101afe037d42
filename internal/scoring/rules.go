// Package scoring maps one wallet feature row to a bounded credit score and
// a risk label. The scorer is a fold over an explicit rule table so each
// adjustment can be audited and tested in isolation.
package scoring

import (
	"math"

	"wallet-credit-lab/internal/domain"
)

// Score bounds and base.
const (
	BaseScore = 300
	MinScore  = 0
	MaxScore  = 1000
)

// cappedTerm is one independent additive adjustment: value * weight,
// clamped to cap before combination. Sign decides bonus vs penalty.
type cappedTerm struct {
	name   string
	weight float64
	cap    float64
	sign   float64
	value  func(f domain.WalletFeatures) float64
}

// flatPenalty is a fixed deduction applied when its guard holds.
type flatPenalty struct {
	name    string
	penalty float64
	guard   func(f domain.WalletFeatures) bool
}

// cappedTerms is evaluated in order. Order is part of the contract even
// though addition commutes: the audit trail lists terms this way.
var cappedTerms = []cappedTerm{
	{
		name:   "deposit activity",
		weight: 8,
		cap:    150,
		sign:   +1,
		value:  func(f domain.WalletFeatures) float64 { return float64(f.NumDeposits) },
	},
	{
		name:   "repayment discipline",
		weight: 120,
		cap:    250,
		sign:   +1,
		value:  func(f domain.WalletFeatures) float64 { return f.RepayBorrowRatio },
	},
	{
		name:   "sustained engagement",
		weight: 2,
		cap:    100,
		sign:   +1,
		value:  func(f domain.WalletFeatures) float64 { return float64(f.ActiveDays) },
	},
	{
		name:   "volume",
		weight: 1.0 / 1000,
		cap:    100,
		sign:   +1,
		value:  func(f domain.WalletFeatures) float64 { return f.TotalVolume },
	},
	{
		name:   "liquidation exposure",
		weight: 400,
		cap:    200,
		sign:   -1,
		value:  func(f domain.WalletFeatures) float64 { return f.LiquidationRate },
	},
}

var flatPenalties = []flatPenalty{
	{
		name:    "borrowed, never repaid",
		penalty: 100,
		guard:   func(f domain.WalletFeatures) bool { return f.NumBorrows > 0 && f.NumRepays == 0 },
	},
	{
		name:    "suspiciously small volume",
		penalty: 50,
		guard:   func(f domain.WalletFeatures) bool { return f.TotalVolume < 10 },
	},
	{
		name:    "suspected bot activity",
		penalty: 100,
		guard:   func(f domain.WalletFeatures) bool { return f.TotalActions > 1000 },
	},
}

// sanitize treats undefined ratios as 0 before applying the formula.
func sanitize(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
