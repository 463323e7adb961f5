package domain

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet represents a wallet entity in the domain layer.
// Balance is mutated only by the transaction CRUD collaborator; the
// confidence engine treats wallets as read-only inputs.
type Wallet struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Name     string
	Balance  decimal.Decimal
	IsActive bool
}

// Validate ensures the wallet adheres to domain rules
// Returns an error if validation fails
func (w *Wallet) Validate() error {
	if w.Name == "" {
		return errors.New("wallet name cannot be empty")
	}
	if w.UserID == uuid.Nil {
		return errors.New("wallet must belong to a user")
	}
	return nil
}
