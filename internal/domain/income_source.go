package domain

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cadence represents how often an income source pays out
type Cadence string

const (
	CadenceWeekly    Cadence = "WEEKLY"
	CadenceBiweekly  Cadence = "BIWEEKLY"
	CadenceMonthly   Cadence = "MONTHLY"
	CadenceBimonthly Cadence = "BIMONTHLY"
	CadenceQuarterly Cadence = "QUARTERLY"
	CadenceAnnually  Cadence = "ANNUALLY"
	CadenceIrregular Cadence = "IRREGULAR"
)

// PeriodDays returns the projection period for a cadence in whole days.
// IRREGULAR and unknown cadences have no fixed period and return 0.
func (c Cadence) PeriodDays() int64 {
	switch c {
	case CadenceWeekly:
		return 7
	case CadenceBiweekly:
		return 14
	case CadenceMonthly:
		return 30
	case CadenceBimonthly:
		return 60
	case CadenceQuarterly:
		return 90
	case CadenceAnnually:
		return 365
	default:
		return 0
	}
}

// IncomeSource represents a recurring income stream for a user.
// Read-only to the confidence engine; lifecycle is owned by the income CRUD
// collaborator.
type IncomeSource struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	WalletID *uuid.UUID // Optional: income may be tied to one wallet
	Name     string
	Amount   decimal.Decimal // Amount paid per period
	Cadence  Cadence
	IsActive bool
}

// Validate ensures the income source adheres to domain rules
// Returns an error if validation fails
func (s *IncomeSource) Validate() error {
	if s.Name == "" {
		return errors.New("income source name cannot be empty")
	}
	if s.UserID == uuid.Nil {
		return errors.New("income source must belong to a user")
	}
	if s.Amount.IsNegative() {
		return errors.New("income source amount cannot be negative")
	}
	switch s.Cadence {
	case CadenceWeekly, CadenceBiweekly, CadenceMonthly, CadenceBimonthly,
		CadenceQuarterly, CadenceAnnually, CadenceIrregular:
		return nil
	default:
		return errors.New("income source cadence is not a recognized value")
	}
}
