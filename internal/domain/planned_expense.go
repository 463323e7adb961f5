package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlannedExpenseStatus represents the lifecycle status of a planned expense
type PlannedExpenseStatus string

const (
	PlannedExpenseStatusPlanned   PlannedExpenseStatus = "PLANNED"
	PlannedExpenseStatusSaved     PlannedExpenseStatus = "SAVED"
	PlannedExpenseStatusCompleted PlannedExpenseStatus = "COMPLETED"
	PlannedExpenseStatusCancelled PlannedExpenseStatus = "CANCELLED"
)

// EligibleStatuses are the statuses still competing for future funds.
// Only these are evaluated for affordability confidence.
var EligibleStatuses = []PlannedExpenseStatus{
	PlannedExpenseStatusPlanned,
	PlannedExpenseStatusSaved,
}

// PlannedExpense represents a future expense the user intends to make.
// The confidence engine is the SOLE writer of ConfidenceTier and
// ConfidenceUpdatedAt; all other fields are owned by the planning CRUD
// collaborator.
type PlannedExpense struct {
	ID                  uuid.UUID
	UserID              uuid.UUID
	WalletID            *uuid.UUID // Optional: scope evaluation to one wallet
	Name                string
	Amount              decimal.Decimal
	TargetDate          time.Time
	Status              PlannedExpenseStatus
	ConfidenceTier      ConfidenceTier
	ConfidenceUpdatedAt *time.Time // NULL until first evaluated
}

// IsEligible reports whether the expense is still competing for future
// funds and should be evaluated.
func (p *PlannedExpense) IsEligible() bool {
	return p.Status == PlannedExpenseStatusPlanned || p.Status == PlannedExpenseStatusSaved
}

// Validate ensures the planned expense adheres to domain rules
// Returns an error if validation fails
func (p *PlannedExpense) Validate() error {
	if p.Name == "" {
		return errors.New("planned expense name cannot be empty")
	}
	if p.UserID == uuid.Nil {
		return errors.New("planned expense must belong to a user")
	}
	if p.Amount.LessThanOrEqual(decimal.Zero) {
		return errors.New("planned expense amount must be positive")
	}
	switch p.Status {
	case PlannedExpenseStatusPlanned, PlannedExpenseStatusSaved,
		PlannedExpenseStatusCompleted, PlannedExpenseStatusCancelled:
		return nil
	default:
		return errors.New("planned expense status is not a recognized value")
	}
}
