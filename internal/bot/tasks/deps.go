// Package tasks implements scheduled tasks for the Listify Telegram bot.
// It includes task definitions, dependencies, and registration mechanisms.
package tasks

import (
	"log/slog"

	"github.com/edgard/listify/internal/config"
	"github.com/edgard/listify/internal/database"
	"github.com/edgard/listify/internal/session"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger   *slog.Logger
	Store    database.Store
	Sessions *session.Store
	Config   *config.Config
}
