package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/ruimartins/fundsight-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// incomeSourceRepository implements domain.IncomeSourceRepository
type incomeSourceRepository struct {
	db *DB
}

// NewIncomeSourceRepository creates a new income source repository
func NewIncomeSourceRepository(db *DB) domain.IncomeSourceRepository {
	return &incomeSourceRepository{db: db}
}

// ListActiveByUser retrieves all active income sources for a user,
// optionally filtered to one wallet
func (r *incomeSourceRepository) ListActiveByUser(ctx context.Context, userID uuid.UUID, walletID *uuid.UUID) ([]*domain.IncomeSource, error) {
	query := `
		SELECT id, user_id, wallet_id, name, amount, cadence, is_active
		FROM income_sources
		WHERE user_id = $1 AND is_active = TRUE
	`
	args := []interface{}{userID}

	if walletID != nil {
		query += ` AND wallet_id = $2`
		args = append(args, *walletID)
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list income sources: %w", err)
	}
	defer rows.Close()

	sources := make([]*domain.IncomeSource, 0)
	for rows.Next() {
		var source domain.IncomeSource
		var srcWalletID sql.NullString
		var amountStr string

		err := rows.Scan(
			&source.ID,
			&source.UserID,
			&srcWalletID,
			&source.Name,
			&amountStr,
			&source.Cadence,
			&source.IsActive,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan income source: %w", err)
		}

		// Parse wallet_id (nullable)
		if srcWalletID.Valid {
			parsed, err := uuid.Parse(srcWalletID.String)
			if err != nil {
				return nil, fmt.Errorf("failed to parse wallet_id: %w", err)
			}
			source.WalletID = &parsed
		}

		// Parse amount (DECIMAL)
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse amount: %w", err)
		}
		source.Amount = amount

		sources = append(sources, &source)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate income sources: %w", err)
	}

	return sources, nil
}
