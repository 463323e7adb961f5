package confidence

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ruimartins/fundsight-backend/internal/domain"
)

// Refresher recomputes the confidence tiers of every eligible planned
// expense for one user.
type Refresher interface {
	UpdateAllForUser(ctx context.Context, userID uuid.UUID) ([]*domain.ConfidenceResult, error)
}

// RefreshQueue coalesces bursts of per-user refresh triggers. Upstream
// data mutations (new transactions, wallet edits) enqueue the affected
// user; the worker waits out a debounce window so a burst of writes costs
// one recompute instead of many. Debouncing only delays the recompute, it
// never changes its outcome.
//
// The queue owns all of its state and is injected where needed; there is
// no process-wide singleton.
type RefreshQueue struct {
	refresher Refresher
	debounce  time.Duration
	logger    *slog.Logger

	requests chan uuid.UUID
	quit     chan struct{}
	wg       sync.WaitGroup
}

// NewRefreshQueue creates a new RefreshQueue instance.
// debounce is the window during which triggers for any user are absorbed
// into a single batch; logger may be nil, in which case slog.Default() is
// used.
func NewRefreshQueue(refresher Refresher, debounce time.Duration, logger *slog.Logger) *RefreshQueue {
	if logger == nil {
		logger = slog.Default()
	}
	return &RefreshQueue{
		refresher: refresher,
		debounce:  debounce,
		logger:    logger,
		requests:  make(chan uuid.UUID, 256),
		quit:      make(chan struct{}),
	}
}

// Start launches the worker goroutine.
func (q *RefreshQueue) Start() {
	q.wg.Add(1)
	go q.run()
	q.logger.Info("confidence refresh queue started", "debounce", q.debounce)
}

// Stop signals the worker to flush any pending users and exit, then waits
// for it to finish.
func (q *RefreshQueue) Stop() {
	close(q.quit)
	q.wg.Wait()
	q.logger.Info("confidence refresh queue stopped")
}

// Enqueue schedules a confidence refresh for all of a user's eligible
// planned expenses. Safe to call from any goroutine.
func (q *RefreshQueue) Enqueue(userID uuid.UUID) {
	select {
	case q.requests <- userID:
	case <-q.quit:
	}
}

func (q *RefreshQueue) run() {
	defer q.wg.Done()

	pending := make(map[uuid.UUID]struct{})
	timer := time.NewTimer(q.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case userID := <-q.requests:
			// The window opens on the first trigger of a batch; later
			// triggers join it rather than extending it, so a steady
			// stream of writes cannot starve the flush.
			if len(pending) == 0 {
				timer.Reset(q.debounce)
			}
			pending[userID] = struct{}{}

		case <-timer.C:
			q.flush(pending)
			pending = make(map[uuid.UUID]struct{})

		case <-q.quit:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			q.drain(pending)
			q.flush(pending)
			return
		}
	}
}

// drain moves any requests still buffered in the channel into pending so a
// shutdown does not lose triggers.
func (q *RefreshQueue) drain(pending map[uuid.UUID]struct{}) {
	for {
		select {
		case userID := <-q.requests:
			pending[userID] = struct{}{}
		default:
			return
		}
	}
}

func (q *RefreshQueue) flush(pending map[uuid.UUID]struct{}) {
	for userID := range pending {
		results, err := q.refresher.UpdateAllForUser(context.Background(), userID)
		if err != nil {
			q.logger.Error("debounced confidence refresh failed",
				"user_id", userID,
				"error", err)
			continue
		}
		q.logger.Info("debounced confidence refresh complete",
			"user_id", userID,
			"updated", len(results))
	}
}
