package projection

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ruimartins/fundsight-backend/internal/domain"
)

// MockTransactionRepository is a mock implementation of TransactionRepository for testing
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) ListExpenses(ctx context.Context, userID uuid.UUID, from, to time.Time, walletID *uuid.UUID) ([]*domain.Transaction, error) {
	args := m.Called(ctx, userID, from, to, walletID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Transaction), args.Error(1)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestProject_NoHistoryProjectsZero(t *testing.T) {
	ctx := context.Background()
	mockTxRepo := new(MockTransactionRepository)

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	extrapolator := NewExtrapolator(mockTxRepo, fixedClock(now))

	userID := uuid.New()
	mockTxRepo.On("ListExpenses", ctx, userID, mock.Anything, mock.Anything, (*uuid.UUID)(nil)).
		Return([]*domain.Transaction{}, nil)

	// No evidence of spending means no assumed ongoing spend, regardless
	// of window size
	proj, err := extrapolator.Project(ctx, userID, now, now.AddDate(1, 0, 0), nil)

	require.NoError(t, err)
	assert.True(t, proj.Amount.IsZero())
	assert.Equal(t, 0, proj.SampleCount)

	mockTxRepo.AssertExpectations(t)
}

func TestProject_DailyAverageOverWindow(t *testing.T) {
	ctx := context.Background()
	mockTxRepo := new(MockTransactionRepository)

	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	extrapolator := NewExtrapolator(mockTxRepo, fixedClock(now))

	userID := uuid.New()
	walletID := uuid.New()

	// 9000 spent over the trailing 90 days -> 100/day
	history := []*domain.Transaction{
		{ID: uuid.New(), UserID: userID, WalletID: walletID, Amount: decimal.NewFromInt(4000), Type: domain.TransactionTypeExpense, Date: now.AddDate(0, 0, -10)},
		{ID: uuid.New(), UserID: userID, WalletID: walletID, Amount: decimal.NewFromInt(3000), Type: domain.TransactionTypeExpense, Date: now.AddDate(0, 0, -40)},
		{ID: uuid.New(), UserID: userID, WalletID: walletID, Amount: decimal.NewFromInt(2000), Type: domain.TransactionTypeExpense, Date: now.AddDate(0, 0, -80)},
	}
	mockTxRepo.On("ListExpenses", ctx, userID, mock.Anything, mock.Anything, (*uuid.UUID)(nil)).
		Return(history, nil)

	proj, err := extrapolator.Project(ctx, userID, now, now.AddDate(0, 0, 30), nil)

	require.NoError(t, err)
	assert.True(t, proj.Amount.Equal(decimal.NewFromInt(3000)), "9000/90 * 30 should be 3000, got %s", proj.Amount)
	assert.Equal(t, 3, proj.SampleCount)
}

func TestProject_LookbackAnchoredToNow(t *testing.T) {
	ctx := context.Background()
	mockTxRepo := new(MockTransactionRepository)

	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	extrapolator := NewExtrapolator(mockTxRepo, fixedClock(now))

	userID := uuid.New()
	expectedFrom := now.AddDate(0, 0, -HistoryWindowDays)

	// The lookback is fixed to [now-90d, now] independent of the
	// projection window
	mockTxRepo.On("ListExpenses", ctx, userID, expectedFrom, now, (*uuid.UUID)(nil)).
		Return([]*domain.Transaction{}, nil)

	_, err := extrapolator.Project(ctx, userID, now.AddDate(0, 1, 0), now.AddDate(0, 2, 0), nil)

	require.NoError(t, err)
	mockTxRepo.AssertExpectations(t)
}

func TestProject_WalletFilterPassedThrough(t *testing.T) {
	ctx := context.Background()
	mockTxRepo := new(MockTransactionRepository)

	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	extrapolator := NewExtrapolator(mockTxRepo, fixedClock(now))

	userID := uuid.New()
	walletID := uuid.New()

	mockTxRepo.On("ListExpenses", ctx, userID, mock.Anything, mock.Anything, &walletID).
		Return([]*domain.Transaction{}, nil)

	_, err := extrapolator.Project(ctx, userID, now, now.AddDate(0, 0, 7), &walletID)

	require.NoError(t, err)
	mockTxRepo.AssertExpectations(t)
}

func TestProject_RepositoryErrorPropagates(t *testing.T) {
	ctx := context.Background()
	mockTxRepo := new(MockTransactionRepository)

	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	extrapolator := NewExtrapolator(mockTxRepo, fixedClock(now))

	userID := uuid.New()
	mockTxRepo.On("ListExpenses", ctx, userID, mock.Anything, mock.Anything, (*uuid.UUID)(nil)).
		Return(nil, errors.New("connection refused"))

	proj, err := extrapolator.Project(ctx, userID, now, now.AddDate(0, 0, 30), nil)

	assert.Error(t, err)
	assert.Nil(t, proj)
}
