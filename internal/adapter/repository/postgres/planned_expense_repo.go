package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ruimartins/fundsight-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// plannedExpenseRepository implements domain.PlannedExpenseRepository
type plannedExpenseRepository struct {
	db *DB
}

// NewPlannedExpenseRepository creates a new planned expense repository
func NewPlannedExpenseRepository(db *DB) domain.PlannedExpenseRepository {
	return &plannedExpenseRepository{db: db}
}

const plannedExpenseColumns = `id, user_id, wallet_id, name, amount, target_date, status, confidence_tier, confidence_updated_at`

// GetByID retrieves a planned expense by its ID
func (r *plannedExpenseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.PlannedExpense, error) {
	query := `
		SELECT ` + plannedExpenseColumns + `
		FROM planned_expenses
		WHERE id = $1
	`

	expense, err := scanPlannedExpense(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrPlannedExpenseNotFound, id)
		}
		return nil, fmt.Errorf("failed to get planned expense by ID: %w", err)
	}

	return expense, nil
}

// ListEligibleByUser retrieves all PLANNED/SAVED expenses for a user
func (r *plannedExpenseRepository) ListEligibleByUser(ctx context.Context, userID uuid.UUID) ([]*domain.PlannedExpense, error) {
	query := `
		SELECT ` + plannedExpenseColumns + `
		FROM planned_expenses
		WHERE user_id = $1 AND status IN ('PLANNED', 'SAVED')
		ORDER BY target_date
	`

	return r.list(ctx, query, userID)
}

// ListCompeting retrieves PLANNED/SAVED expenses for the user with
// id != excludeID and target date on or before byDate, optionally filtered
// to one wallet
func (r *plannedExpenseRepository) ListCompeting(ctx context.Context, userID, excludeID uuid.UUID, byDate time.Time, walletID *uuid.UUID) ([]*domain.PlannedExpense, error) {
	query := `
		SELECT ` + plannedExpenseColumns + `
		FROM planned_expenses
		WHERE user_id = $1 AND id <> $2 AND status IN ('PLANNED', 'SAVED') AND target_date <= $3
	`
	args := []interface{}{userID, excludeID, byDate}

	if walletID != nil {
		query += ` AND wallet_id = $4`
		args = append(args, *walletID)
	}
	query += ` ORDER BY target_date`

	return r.list(ctx, query, args...)
}

// ListUserIDsWithEligible retrieves the distinct user ids that have at
// least one PLANNED/SAVED expense
func (r *plannedExpenseRepository) ListUserIDsWithEligible(ctx context.Context) ([]uuid.UUID, error) {
	query := `
		SELECT DISTINCT user_id
		FROM planned_expenses
		WHERE status IN ('PLANNED', 'SAVED')
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list user ids: %w", err)
	}
	defer rows.Close()

	userIDs := make([]uuid.UUID, 0)
	for rows.Next() {
		var userID uuid.UUID
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		userIDs = append(userIDs, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user ids: %w", err)
	}

	return userIDs, nil
}

// UpdateConfidence persists the evaluated tier and update timestamp
func (r *plannedExpenseRepository) UpdateConfidence(ctx context.Context, id uuid.UUID, tier domain.ConfidenceTier, updatedAt time.Time) error {
	query := `
		UPDATE planned_expenses
		SET confidence_tier = $1, confidence_updated_at = $2
		WHERE id = $3
	`

	result, err := r.db.ExecContext(ctx, query, string(tier), updatedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update confidence tier: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", domain.ErrPlannedExpenseNotFound, id)
	}

	return nil
}

func (r *plannedExpenseRepository) list(ctx context.Context, query string, args ...interface{}) ([]*domain.PlannedExpense, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list planned expenses: %w", err)
	}
	defer rows.Close()

	expenses := make([]*domain.PlannedExpense, 0)
	for rows.Next() {
		expense, err := scanPlannedExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan planned expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate planned expenses: %w", err)
	}

	return expenses, nil
}

func scanPlannedExpense(row rowScanner) (*domain.PlannedExpense, error) {
	var expense domain.PlannedExpense
	var walletID sql.NullString
	var amountStr string
	var tier sql.NullString
	var updatedAt sql.NullTime

	err := row.Scan(
		&expense.ID,
		&expense.UserID,
		&walletID,
		&expense.Name,
		&amountStr,
		&expense.TargetDate,
		&expense.Status,
		&tier,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	// Parse wallet_id (nullable)
	if walletID.Valid {
		parsed, err := uuid.Parse(walletID.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse wallet_id: %w", err)
		}
		expense.WalletID = &parsed
	}

	// Parse amount (DECIMAL)
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse amount: %w", err)
	}
	expense.Amount = amount

	if tier.Valid {
		expense.ConfidenceTier = domain.ConfidenceTier(tier.String)
	}
	if updatedAt.Valid {
		expense.ConfidenceUpdatedAt = &updatedAt.Time
	}

	return &expense, nil
}
