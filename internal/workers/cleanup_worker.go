package workers

import (
	"context"
	"time"

	"github.com/alimgiray/commentbox/internal/repositories"
	"github.com/alimgiray/commentbox/pkg/logger"
)

// CleanupWorker periodically purges expired sessions and login states.
// Validation already rejects expired rows, so this is housekeeping,
// not a correctness requirement.
type CleanupWorker struct {
	*BaseWorker
	sessionRepo *repositories.SessionRepository
	stateRepo   *repositories.LoginStateRepository
	interval    time.Duration
}

func NewCleanupWorker(workerID string, sessionRepo *repositories.SessionRepository, stateRepo *repositories.LoginStateRepository, interval time.Duration) *CleanupWorker {
	return &CleanupWorker{
		BaseWorker:  NewBaseWorker(workerID),
		sessionRepo: sessionRepo,
		stateRepo:   stateRepo,
		interval:    interval,
	}
}

// Start begins the cleanup loop
func (w *CleanupWorker) Start(ctx context.Context) error {
	w.Running = true

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.StopChan:
			return nil
		case <-ticker.C:
			w.purge()
		}
	}
}

func (w *CleanupWorker) purge() {
	now := time.Now()

	sessions, err := w.sessionRepo.DeleteExpired(now)
	if err != nil {
		logger.WithError(err).Warnf("Worker %s: failed to purge sessions", w.WorkerID)
	}

	states, err := w.stateRepo.DeleteExpired(now)
	if err != nil {
		logger.WithError(err).Warnf("Worker %s: failed to purge login states", w.WorkerID)
	}

	if sessions > 0 || states > 0 {
		logger.Debugf("Worker %s: purged %d sessions, %d login states", w.WorkerID, sessions, states)
	}
}
