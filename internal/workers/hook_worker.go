package workers

import (
	"context"
	"os"
	"os/exec"
	"time"

	"github.com/alimgiray/commentbox/pkg/logger"
)

// hookTimeout bounds each configured command so a stuck hook cannot
// wedge the worker.
const hookTimeout = 30 * time.Second

// CommentEvent describes a newly created comment for the hook commands.
type CommentEvent struct {
	CommentID string
	BlogID    string
	Author    string
}

// HookWorker runs the configured on-comment shell commands for each new
// comment. Hooks are best-effort: failures are logged and never affect
// the request that created the comment.
type HookWorker struct {
	*BaseWorker
	cmds   []string
	events <-chan CommentEvent
}

func NewHookWorker(workerID string, cmds []string, events <-chan CommentEvent) *HookWorker {
	return &HookWorker{
		BaseWorker: NewBaseWorker(workerID),
		cmds:       cmds,
		events:     events,
	}
}

// Start begins consuming comment events
func (w *HookWorker) Start(ctx context.Context) error {
	w.Running = true

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.StopChan:
			return nil
		case event := <-w.events:
			w.runHooks(ctx, event)
		}
	}
}

func (w *HookWorker) runHooks(ctx context.Context, event CommentEvent) {
	for _, command := range w.cmds {
		cmdCtx, cancel := context.WithTimeout(ctx, hookTimeout)

		cmd := exec.CommandContext(cmdCtx, "/bin/sh", "-c", command)
		cmd.Env = append(os.Environ(),
			"COMMENT_ID="+event.CommentID,
			"COMMENT_BLOG_ID="+event.BlogID,
			"COMMENT_AUTHOR="+event.Author,
		)

		if output, err := cmd.CombinedOutput(); err != nil {
			logger.WithError(err).Warnf("Worker %s: hook %q failed: %s", w.WorkerID, command, output)
		}

		cancel()
	}
}
