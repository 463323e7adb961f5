package projection

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ruimartins/fundsight-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// HistoryWindowDays is the fixed trailing lookback used to estimate the
// ongoing spend rate. It is anchored to "now", independent of the
// projection window.
const HistoryWindowDays = 90

// ExpenseProjection is the outcome of extrapolating historical spend over
// a future window.
type ExpenseProjection struct {
	Amount      decimal.Decimal
	SampleCount int // Historical EXPENSE transactions found in the lookback
}

// Extrapolator projects future expenses from historical spending.
type Extrapolator struct {
	TransactionRepo domain.TransactionRepository
	Now             func() time.Time
}

// NewExtrapolator creates a new Extrapolator instance.
// now may be nil, in which case time.Now is used; tests inject a fixed
// clock for deterministic lookback windows.
func NewExtrapolator(transactionRepo domain.TransactionRepository, now func() time.Time) *Extrapolator {
	if now == nil {
		now = time.Now
	}
	return &Extrapolator{
		TransactionRepo: transactionRepo,
		Now:             now,
	}
}

// Project estimates expenses over [start, end] from the trailing 90-day
// spend rate.
// Logic:
//  1. Load EXPENSE transactions for the user (optionally one wallet) dated
//     within the trailing 90 days from now
//  2. No history means no evidence of spending: project zero, not an error
//  3. Otherwise dailyAverage = sum / 90, projected = dailyAverage * days
func (e *Extrapolator) Project(ctx context.Context, userID uuid.UUID, start, end time.Time, walletID *uuid.UUID) (*ExpenseProjection, error) {
	now := e.Now()
	from := now.AddDate(0, 0, -HistoryWindowDays)

	transactions, err := e.TransactionRepo.ListExpenses(ctx, userID, from, now, walletID)
	if err != nil {
		return nil, err
	}

	if len(transactions) == 0 {
		return &ExpenseProjection{Amount: decimal.Zero, SampleCount: 0}, nil
	}

	total := decimal.Zero
	for _, tx := range transactions {
		total = total.Add(tx.Amount)
	}

	days := daysBetween(start, end)
	dailyAverage := total.Div(decimal.NewFromInt(HistoryWindowDays))

	return &ExpenseProjection{
		Amount:      dailyAverage.Mul(decimal.NewFromInt(days)),
		SampleCount: len(transactions),
	}, nil
}
