// Package scheduler runs the nightly full recompute of confidence tiers.
// Tiers depend on wall-clock time (the history lookback and days-until-
// target shrink as days pass), so stored tiers go stale even without data
// mutations.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/ruimartins/fundsight-backend/internal/domain"
)

// Refresher recomputes confidence tiers for one user.
type Refresher interface {
	UpdateAllForUser(ctx context.Context, userID uuid.UUID) ([]*domain.ConfidenceResult, error)
}

// Scheduler manages the cron task.
type Scheduler struct {
	Cron               *cron.Cron
	Refresher          Refresher
	PlannedExpenseRepo domain.PlannedExpenseRepository
	Logger             *slog.Logger
}

// NewScheduler creates a new Scheduler.
// logger may be nil, in which case slog.Default() is used.
func NewScheduler(refresher Refresher, plannedExpenseRepo domain.PlannedExpenseRepository, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		Cron:               cron.New(cron.WithSeconds()),
		Refresher:          refresher,
		PlannedExpenseRepo: plannedExpenseRepo,
		Logger:             logger,
	}
}

// Register registers the nightly recompute task.
func (s *Scheduler) Register(nightlyCron string) error {
	if _, err := s.Cron.AddFunc(nightlyCron, s.nightlyTask); err != nil {
		return fmt.Errorf("register nightly task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Logger.Info("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	s.Logger.Info("scheduler stopped")
}

func (s *Scheduler) nightlyTask() {
	ctx := context.Background()
	s.Logger.Info("running nightly confidence recompute")

	userIDs, err := s.PlannedExpenseRepo.ListUserIDsWithEligible(ctx)
	if err != nil {
		s.Logger.Error("nightly recompute: list users", "error", err)
		return
	}

	updated := 0
	for _, userID := range userIDs {
		results, err := s.Refresher.UpdateAllForUser(ctx, userID)
		if err != nil {
			s.Logger.Error("nightly recompute: refresh user", "user_id", userID, "error", err)
			continue
		}
		updated += len(results)
	}

	s.Logger.Info("nightly confidence recompute finished",
		"users", len(userIDs),
		"updated", updated)
}
