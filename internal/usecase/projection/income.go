package projection

import (
	"time"

	"github.com/ruimartins/fundsight-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// ProjectIncome estimates the income a source accrues over [start, end].
// Logic:
//  1. Count whole days in the window, rounding a partial day up
//  2. Only whole completed periods pay out: amount * floor(days / period).
//     A partial trailing period contributes nothing (conservative estimate,
//     not a payout schedule simulation)
//  3. IRREGULAR income is dampened: assumed roughly every 60 days at half
//     strength
//  4. An unrecognized cadence contributes zero rather than failing
//
// Pure function of its inputs; an inverted or empty window yields zero.
func ProjectIncome(source *domain.IncomeSource, start, end time.Time) decimal.Decimal {
	days := daysBetween(start, end)
	if days <= 0 {
		return decimal.Zero
	}

	if source.Cadence == domain.CadenceIrregular {
		occurrences := days / irregularPeriodDays
		return source.Amount.
			Mul(decimal.NewFromInt(occurrences)).
			Mul(irregularDampening)
	}

	period := source.Cadence.PeriodDays()
	if period <= 0 {
		// Unknown cadence: fail-soft, contributes nothing
		return decimal.Zero
	}

	periods := days / period
	return source.Amount.Mul(decimal.NewFromInt(periods))
}

const irregularPeriodDays = 60

// irregularDampening halves irregular income as a hedge against its
// unpredictability.
var irregularDampening = decimal.NewFromFloat(0.5)

// daysBetween returns the whole-day span of [start, end], rounding a
// partial trailing day up to a full day.
func daysBetween(start, end time.Time) int64 {
	span := end.Sub(start)
	if span <= 0 {
		return 0
	}
	days := int64(span / (24 * time.Hour))
	if span%(24*time.Hour) != 0 {
		days++
	}
	return days
}
