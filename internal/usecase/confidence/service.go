package confidence

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/ruimartins/fundsight-backend/internal/domain"
	"github.com/ruimartins/fundsight-backend/internal/usecase/projection"
	"github.com/shopspring/decimal"
)

// Score deductions. Each one is independent and stackable except the
// shortfall/tight-cushion pair, which is an if/else branch: the cushion is
// only examined when the expense is affordable.
const (
	startingScore         = 100
	deductShortfall       = 40
	deductTightCushion    = 20
	deductLongHorizon     = 15
	deductManyCompetitors = 10
	deductIrregularIncome = 15
	deductNoHistory       = 10
	longHorizonDays       = 90
	manyCompetitorsAbove  = 5
)

// minCushionRatio is the fractional surplus below which an affordable
// expense is still flagged as tight.
var minCushionRatio = decimal.NewFromFloat(0.10)

// Service evaluates affordability confidence for planned expenses and is
// the sole writer of the persisted confidence tier.
type Service struct {
	WalletRepo         domain.WalletRepository
	IncomeSourceRepo   domain.IncomeSourceRepository
	PlannedExpenseRepo domain.PlannedExpenseRepository
	Extrapolator       *projection.Extrapolator
	Now                func() time.Time
	Logger             *slog.Logger
}

// NewService creates a new confidence Service instance.
// now may be nil, in which case time.Now is used; logger may be nil, in
// which case slog.Default() is used.
func NewService(
	walletRepo domain.WalletRepository,
	incomeSourceRepo domain.IncomeSourceRepository,
	plannedExpenseRepo domain.PlannedExpenseRepository,
	extrapolator *projection.Extrapolator,
	now func() time.Time,
	logger *slog.Logger,
) *Service {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		WalletRepo:         walletRepo,
		IncomeSourceRepo:   incomeSourceRepo,
		PlannedExpenseRepo: plannedExpenseRepo,
		Extrapolator:       extrapolator,
		Now:                now,
		Logger:             logger,
	}
}

// UpdateOne evaluates a single planned expense, persists the resulting
// tier and a fresh update timestamp, and returns the full result.
// Returns domain.ErrPlannedExpenseNotFound if the id does not resolve.
func (s *Service) UpdateOne(ctx context.Context, id uuid.UUID) (*domain.ConfidenceResult, error) {
	expense, err := s.PlannedExpenseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	result := s.score(ctx, expense)

	if err := s.PlannedExpenseRepo.UpdateConfidence(ctx, expense.ID, result.Tier, s.Now()); err != nil {
		return nil, fmt.Errorf("failed to persist confidence tier: %w", err)
	}

	return result, nil
}

// UpdateAllForUser evaluates every eligible (PLANNED/SAVED) expense for a
// user. Individual failures are logged and skipped; one bad expense never
// aborts the batch. Returns the successful results in listing order.
func (s *Service) UpdateAllForUser(ctx context.Context, userID uuid.UUID) ([]*domain.ConfidenceResult, error) {
	expenses, err := s.PlannedExpenseRepo.ListEligibleByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list eligible planned expenses: %w", err)
	}

	results := make([]*domain.ConfidenceResult, 0, len(expenses))
	for _, expense := range expenses {
		result, err := s.UpdateOne(ctx, expense.ID)
		if err != nil {
			s.Logger.Error("skipping planned expense in batch update",
				"planned_expense_id", expense.ID,
				"user_id", userID,
				"error", err)
			continue
		}
		results = append(results, result)
	}

	s.Logger.Info("batch confidence update finished",
		"user_id", userID,
		"eligible", len(expenses),
		"updated", len(results))

	return results, nil
}

// score runs the full evaluation for one planned expense.
// Algorithm, in order: resolve current balance, project income and expenses
// over [now, targetDate], sum competing claims, derive the projected
// balance, then apply the weighted deductions and map the score to a tier.
// Data-fetch failures are recovered locally (treated as zero/absent) so a
// scoring pass always completes with a possibly pessimistic result.
func (s *Service) score(ctx context.Context, expense *domain.PlannedExpense) *domain.ConfidenceResult {
	now := s.Now()

	currentBalance := s.currentBalance(ctx, expense)
	projectedIncome, hasIrregular := s.projectedIncome(ctx, expense, now)
	projectedExpenses, historySamples := s.projectedExpenses(ctx, expense, now)
	competingClaims, competitorCount := s.competingClaims(ctx, expense)

	projectedBalance := currentBalance.
		Add(projectedIncome).
		Sub(projectedExpenses).
		Sub(competingClaims)

	canAfford := projectedBalance.GreaterThanOrEqual(expense.Amount)

	score := startingScore
	factors := make([]string, 0, 4)

	if !canAfford {
		score -= deductShortfall
		shortfall := expense.Amount.Sub(projectedBalance)
		factors = append(factors, fmt.Sprintf("Projected shortfall of %s", shortfall.StringFixed(2)))
	} else if expense.Amount.IsPositive() {
		cushion := projectedBalance.Sub(expense.Amount).Div(expense.Amount)
		if cushion.LessThan(minCushionRatio) {
			score -= deductTightCushion
			factors = append(factors, "Very tight budget with minimal cushion.")
		}
	}

	if daysUntil(now, expense.TargetDate) > longHorizonDays {
		score -= deductLongHorizon
		factors = append(factors, "Long time horizon increases uncertainty.")
	}

	if competitorCount > manyCompetitorsAbove {
		score -= deductManyCompetitors
		factors = append(factors, "Many competing planned expenses.")
	}

	if hasIrregular {
		score -= deductIrregularIncome
		factors = append(factors, "Irregular income makes predictions less reliable.")
	}

	if historySamples == 0 {
		score -= deductNoHistory
		factors = append(factors, "Limited transaction history for accurate prediction.")
	}

	// The score is deliberately not floor-clamped: deductions are additive
	// and every score below 60 maps to LOW regardless.
	return &domain.ConfidenceResult{
		Tier:              domain.TierForScore(score),
		Score:             score,
		CurrentBalance:    currentBalance,
		ProjectedBalance:  projectedBalance,
		ProjectedIncome:   projectedIncome,
		ProjectedExpenses: projectedExpenses.Add(competingClaims),
		RiskFactors:       factors,
		CanAfford:         canAfford,
	}
}

// currentBalance resolves the balance the expense draws from: the
// designated wallet's balance, or the sum across all of the user's active
// wallets. A missing or inactive wallet counts as zero.
func (s *Service) currentBalance(ctx context.Context, expense *domain.PlannedExpense) decimal.Decimal {
	if expense.WalletID != nil {
		wallet, err := s.WalletRepo.GetActive(ctx, expense.UserID, *expense.WalletID)
		if err != nil {
			s.Logger.Warn("wallet unavailable, treating balance as zero",
				"planned_expense_id", expense.ID,
				"wallet_id", *expense.WalletID,
				"error", err)
			return decimal.Zero
		}
		return wallet.Balance
	}

	wallets, err := s.WalletRepo.ListActiveByUser(ctx, expense.UserID)
	if err != nil {
		s.Logger.Warn("wallet listing unavailable, treating balance as zero",
			"planned_expense_id", expense.ID,
			"user_id", expense.UserID,
			"error", err)
		return decimal.Zero
	}

	total := decimal.Zero
	for _, wallet := range wallets {
		total = total.Add(wallet.Balance)
	}
	return total
}

// projectedIncome sums the projections of every active income source over
// [now, targetDate] and reports whether any source is IRREGULAR.
func (s *Service) projectedIncome(ctx context.Context, expense *domain.PlannedExpense, now time.Time) (decimal.Decimal, bool) {
	sources, err := s.IncomeSourceRepo.ListActiveByUser(ctx, expense.UserID, expense.WalletID)
	if err != nil {
		s.Logger.Warn("income sources unavailable, projecting zero income",
			"planned_expense_id", expense.ID,
			"user_id", expense.UserID,
			"error", err)
		return decimal.Zero, false
	}

	total := decimal.Zero
	hasIrregular := false
	for _, source := range sources {
		total = total.Add(projection.ProjectIncome(source, now, expense.TargetDate))
		if source.Cadence == domain.CadenceIrregular {
			hasIrregular = true
		}
	}
	return total, hasIrregular
}

// projectedExpenses extrapolates historical spend over [now, targetDate]
// and reports how many historical samples backed the estimate.
func (s *Service) projectedExpenses(ctx context.Context, expense *domain.PlannedExpense, now time.Time) (decimal.Decimal, int) {
	proj, err := s.Extrapolator.Project(ctx, expense.UserID, now, expense.TargetDate, expense.WalletID)
	if err != nil {
		s.Logger.Warn("transaction history unavailable, projecting zero expenses",
			"planned_expense_id", expense.ID,
			"user_id", expense.UserID,
			"error", err)
		return decimal.Zero, 0
	}
	return proj.Amount, proj.SampleCount
}

// competingClaims sums the amounts of other eligible planned expenses due
// on or before this one's target date. Expenses due strictly later have
// more time to be funded and are not counted.
func (s *Service) competingClaims(ctx context.Context, expense *domain.PlannedExpense) (decimal.Decimal, int) {
	competitors, err := s.PlannedExpenseRepo.ListCompeting(ctx, expense.UserID, expense.ID, expense.TargetDate, expense.WalletID)
	if err != nil {
		s.Logger.Warn("competing expenses unavailable, assuming none",
			"planned_expense_id", expense.ID,
			"user_id", expense.UserID,
			"error", err)
		return decimal.Zero, 0
	}

	total := decimal.Zero
	for _, competitor := range competitors {
		total = total.Add(competitor.Amount)
	}
	return total, len(competitors)
}

// daysUntil returns the whole-day span from now to target, rounding a
// partial day up. Past targets yield zero.
func daysUntil(now, target time.Time) int64 {
	span := target.Sub(now)
	if span <= 0 {
		return 0
	}
	days := int64(span / (24 * time.Hour))
	if span%(24*time.Hour) != 0 {
		days++
	}
	return days
}
