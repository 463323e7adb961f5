package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/ruimartins/fundsight-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// walletRepository implements domain.WalletRepository
type walletRepository struct {
	db *DB
}

// NewWalletRepository creates a new wallet repository
func NewWalletRepository(db *DB) domain.WalletRepository {
	return &walletRepository{db: db}
}

// GetActive retrieves an active wallet by id, scoped to its owning user
func (r *walletRepository) GetActive(ctx context.Context, userID, walletID uuid.UUID) (*domain.Wallet, error) {
	query := `
		SELECT id, user_id, name, balance, is_active
		FROM wallets
		WHERE id = $1 AND user_id = $2 AND is_active = TRUE
	`

	wallet, err := scanWallet(r.db.QueryRowContext(ctx, query, walletID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrWalletNotFound, walletID)
		}
		return nil, fmt.Errorf("failed to get wallet by ID: %w", err)
	}

	return wallet, nil
}

// ListActiveByUser retrieves all active wallets belonging to a user
func (r *walletRepository) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Wallet, error) {
	query := `
		SELECT id, user_id, name, balance, is_active
		FROM wallets
		WHERE user_id = $1 AND is_active = TRUE
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}
	defer rows.Close()

	wallets := make([]*domain.Wallet, 0)
	for rows.Next() {
		wallet, err := scanWallet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wallet: %w", err)
		}
		wallets = append(wallets, wallet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate wallets: %w", err)
	}

	return wallets, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows so scan helpers serve both
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanWallet(row rowScanner) (*domain.Wallet, error) {
	var wallet domain.Wallet
	var balanceStr string

	err := row.Scan(
		&wallet.ID,
		&wallet.UserID,
		&wallet.Name,
		&balanceStr,
		&wallet.IsActive,
	)
	if err != nil {
		return nil, err
	}

	// Parse balance (DECIMAL)
	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse balance: %w", err)
	}
	wallet.Balance = balance

	return &wallet, nil
}
