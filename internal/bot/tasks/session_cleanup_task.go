package tasks

import (
	"context"
)

// newSessionCleanupTask creates the scheduled task function that drops chat
// sessions idle for longer than the configured window.
func newSessionCleanupTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "session_cleanup")
	maxIdle := deps.Config.Limits.SessionMaxIdle

	return func(ctx context.Context) error {
		removed := deps.Sessions.Sweep(maxIdle)
		if removed > 0 {
			log.InfoContext(ctx, "Swept idle chat sessions", "removed", removed, "max_idle", maxIdle)
		} else {
			log.DebugContext(ctx, "No idle chat sessions to sweep", "max_idle", maxIdle)
		}
		return nil
	}
}
