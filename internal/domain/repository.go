package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// WalletRepository defines the read interface for wallet lookups
type WalletRepository interface {
	// GetActive retrieves an active wallet by id, scoped to its owning user.
	// Returns ErrWalletNotFound if the wallet is missing or inactive.
	GetActive(ctx context.Context, userID, walletID uuid.UUID) (*Wallet, error)

	// ListActiveByUser retrieves all active wallets belonging to a user
	ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]*Wallet, error)
}

// IncomeSourceRepository defines the read interface for income sources
type IncomeSourceRepository interface {
	// ListActiveByUser retrieves all active income sources for a user.
	// If walletID is non-nil, only sources tied to that wallet are returned.
	ListActiveByUser(ctx context.Context, userID uuid.UUID, walletID *uuid.UUID) ([]*IncomeSource, error)
}

// TransactionRepository defines the read interface for historical
// transactions
type TransactionRepository interface {
	// ListExpenses retrieves EXPENSE transactions for a user dated within
	// [from, to]. If walletID is non-nil, only that wallet's transactions
	// are returned.
	ListExpenses(ctx context.Context, userID uuid.UUID, from, to time.Time, walletID *uuid.UUID) ([]*Transaction, error)
}

// PlannedExpenseRepository defines the persistence interface for planned
// expenses. Reads serve the confidence engine; the single write persists
// the evaluated tier.
type PlannedExpenseRepository interface {
	// GetByID retrieves a planned expense by its ID.
	// Returns ErrPlannedExpenseNotFound if no row matches.
	GetByID(ctx context.Context, id uuid.UUID) (*PlannedExpense, error)

	// ListEligibleByUser retrieves all PLANNED/SAVED expenses for a user
	ListEligibleByUser(ctx context.Context, userID uuid.UUID) ([]*PlannedExpense, error)

	// ListCompeting retrieves PLANNED/SAVED expenses for the user with
	// id != excludeID and target date on or before byDate, optionally
	// filtered to one wallet
	ListCompeting(ctx context.Context, userID, excludeID uuid.UUID, byDate time.Time, walletID *uuid.UUID) ([]*PlannedExpense, error)

	// ListUserIDsWithEligible retrieves the distinct user ids that have at
	// least one PLANNED/SAVED expense. Used by the nightly recompute.
	ListUserIDsWithEligible(ctx context.Context) ([]uuid.UUID, error)

	// UpdateConfidence persists the evaluated tier and update timestamp
	// onto a planned expense. Returns ErrPlannedExpenseNotFound if no row
	// matches.
	UpdateConfidence(ctx context.Context, id uuid.UUID, tier ConfidenceTier, updatedAt time.Time) error
}
