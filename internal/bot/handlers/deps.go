package handlers

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/listify/internal/config"
	"github.com/edgard/listify/internal/database"
	"github.com/edgard/listify/internal/quota"
	"github.com/edgard/listify/internal/session"
)

// HandlerDeps provides dependencies for Telegram handlers.
type HandlerDeps struct {
	Logger   *slog.Logger
	Config   *config.Config
	Store    database.Store
	Quota    *quota.Checker
	Sessions *session.Store
}

// sender is the subset of the Telegram client used by the conversation flows.
// *bot.Bot satisfies it; tests substitute a recording fake.
type sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	DeleteMessage(ctx context.Context, params *bot.DeleteMessageParams) (bool, error)
	AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error)
}

var _ sender = (*bot.Bot)(nil)
