package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ruimartins/fundsight-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// transactionRepository implements domain.TransactionRepository
type transactionRepository struct {
	db *DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *DB) domain.TransactionRepository {
	return &transactionRepository{db: db}
}

// ListExpenses retrieves EXPENSE transactions for a user dated within
// [from, to], optionally filtered to one wallet
func (r *transactionRepository) ListExpenses(ctx context.Context, userID uuid.UUID, from, to time.Time, walletID *uuid.UUID) ([]*domain.Transaction, error) {
	query := `
		SELECT id, user_id, wallet_id, amount, type, date
		FROM transactions
		WHERE user_id = $1 AND type = $2 AND date >= $3 AND date <= $4
	`
	args := []interface{}{userID, string(domain.TransactionTypeExpense), from, to}

	if walletID != nil {
		query += ` AND wallet_id = $5`
		args = append(args, *walletID)
	}
	query += ` ORDER BY date`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expense transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]*domain.Transaction, 0)
	for rows.Next() {
		var tx domain.Transaction
		var amountStr string

		err := rows.Scan(
			&tx.ID,
			&tx.UserID,
			&tx.WalletID,
			&amountStr,
			&tx.Type,
			&tx.Date,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		// Parse amount (DECIMAL)
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse amount: %w", err)
		}
		tx.Amount = amount

		transactions = append(transactions, &tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return transactions, nil
}
