package workers

import (
	"context"
	"sync"
	"time"

	"github.com/alimgiray/commentbox/internal/repositories"
	"github.com/alimgiray/commentbox/pkg/logger"
)

// WorkerManager manages the background workers and the comment event
// queue feeding the hook worker.
type WorkerManager struct {
	workers []Worker
	events  chan CommentEvent
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewWorkerManager creates a manager with a cleanup worker and, when
// hook commands are configured, a hook worker.
func NewWorkerManager(sessionRepo *repositories.SessionRepository, stateRepo *repositories.LoginStateRepository, cleanupInterval time.Duration, hookCmds []string) *WorkerManager {
	ctx, cancel := context.WithCancel(context.Background())
	wm := &WorkerManager{
		workers: make([]Worker, 0),
		events:  make(chan CommentEvent, 64),
		ctx:     ctx,
		cancel:  cancel,
	}

	wm.workers = append(wm.workers, NewCleanupWorker("cleanup-1", sessionRepo, stateRepo, cleanupInterval))
	if len(hookCmds) > 0 {
		wm.workers = append(wm.workers, NewHookWorker("hook-1", hookCmds, wm.events))
	}

	return wm
}

// Publish queues a comment event for the hook worker. Never blocks the
// calling request; events are dropped when the queue is full.
func (wm *WorkerManager) Publish(event CommentEvent) {
	select {
	case wm.events <- event:
	default:
		logger.Warnf("Comment event queue full, dropping event for comment %s", event.CommentID)
	}
}

// StartAll starts all workers
func (wm *WorkerManager) StartAll() error {
	for _, worker := range wm.workers {
		wm.startWorker(worker)
	}

	logger.Infof("Started %d workers", len(wm.workers))
	return nil
}

// StopAll gracefully stops all workers
func (wm *WorkerManager) StopAll() error {
	logger.Info("Stopping all workers...")

	// Cancel the context to signal all workers to stop
	wm.cancel()

	for _, worker := range wm.workers {
		if err := worker.Stop(); err != nil {
			logger.WithError(err).Errorf("Error stopping worker %s", worker.GetWorkerID())
		}
	}

	// Wait for all workers to finish
	wm.wg.Wait()

	logger.Info("All workers stopped")
	return nil
}

// startWorker starts a single worker in a goroutine
func (wm *WorkerManager) startWorker(worker Worker) {
	wm.wg.Add(1)
	go func() {
		defer wm.wg.Done()
		if err := worker.Start(wm.ctx); err != nil {
			logger.WithError(err).Errorf("Worker %s stopped with error", worker.GetWorkerID())
		}
	}()
}
