package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the type of a transaction
type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "INCOME"
	TransactionTypeExpense  TransactionType = "EXPENSE"
	TransactionTypeTransfer TransactionType = "TRANSFER"
)

// Transaction represents a transaction entity in the domain layer.
// Amount is an ABSOLUTE VALUE (always positive); the type tag carries the
// direction. The confidence engine only reads EXPENSE transactions inside
// the trailing history window and never mutates them.
type Transaction struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	WalletID uuid.UUID
	Amount   decimal.Decimal
	Type     TransactionType
	Date     time.Time
}

// Validate ensures the transaction adheres to domain rules
// Returns an error if validation fails
func (t *Transaction) Validate() error {
	if t.UserID == uuid.Nil {
		return errors.New("transaction must belong to a user")
	}
	if t.WalletID == uuid.Nil {
		return errors.New("transaction must reference a wallet")
	}
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return errors.New("transaction amount must be positive (absolute value)")
	}
	if t.Type != TransactionTypeIncome && t.Type != TransactionTypeExpense && t.Type != TransactionTypeTransfer {
		return errors.New("transaction type must be INCOME, EXPENSE, or TRANSFER")
	}
	return nil
}
