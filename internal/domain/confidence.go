package domain

import (
	"github.com/shopspring/decimal"
)

// ConfidenceTier is the coarse bucket derived from the numeric confidence
// score
type ConfidenceTier string

const (
	ConfidenceTierLow    ConfidenceTier = "LOW"
	ConfidenceTierMedium ConfidenceTier = "MEDIUM"
	ConfidenceTierHigh   ConfidenceTier = "HIGH"
)

// Tier score thresholds, inclusive on the lower bound of each band.
const (
	scoreHighThreshold   = 80
	scoreMediumThreshold = 60
)

// TierForScore maps a numeric confidence score to its tier.
// The mapping is monotonic: a higher score never yields a lower tier.
func TierForScore(score int) ConfidenceTier {
	switch {
	case score >= scoreHighThreshold:
		return ConfidenceTierHigh
	case score >= scoreMediumThreshold:
		return ConfidenceTierMedium
	default:
		return ConfidenceTierLow
	}
}

// ConfidenceResult is the outcome of evaluating one planned expense.
// It is a pure computation result owned transiently by the caller; only the
// tier (and update timestamp) are ever persisted.
type ConfidenceResult struct {
	Tier              ConfidenceTier
	Score             int
	CurrentBalance    decimal.Decimal
	ProjectedBalance  decimal.Decimal
	ProjectedIncome   decimal.Decimal
	ProjectedExpenses decimal.Decimal // Historical extrapolation + competing claims
	RiskFactors       []string
	CanAfford         bool
}
