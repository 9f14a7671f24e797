// Package handlers contains the Telegram handlers and the conversation flows
// they drive: menu navigation, multi-step content/tag creation, and the
// tag-filtered content listing.
package handlers

import (
	"context"
	"errors"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/listify/internal/database"
	"github.com/edgard/listify/internal/session"
)

// flow bundles the dependencies and the outbound client for one update's
// worth of conversation handling.
type flow struct {
	deps HandlerDeps
	s    sender
	log  *slog.Logger
}

func newFlow(deps HandlerDeps, s sender) *flow {
	return &flow{
		deps: deps,
		s:    s,
		log:  deps.Logger.With("component", "flow"),
	}
}

func (f *flow) send(ctx context.Context, chatID int64, text string, keyboard *models.InlineKeyboardMarkup) {
	params := &bot.SendMessageParams{ChatID: chatID, Text: text}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}
	if _, err := f.s.SendMessage(ctx, params); err != nil {
		f.log.ErrorContext(ctx, "Failed to send message", "chat_id", chatID, "error", err)
	}
}

// fail reports a downstream failure to the user: a "not found" for missing or
// foreign resources, the generic error message for everything else.
func (f *flow) fail(ctx context.Context, chatID int64, err error) {
	if errors.Is(err, database.ErrNotFound) {
		f.send(ctx, chatID, f.deps.Config.Messages.NotFound, nil)
		return
	}
	f.log.ErrorContext(ctx, "Downstream call failed", "chat_id", chatID, "error", err)
	f.send(ctx, chatID, f.deps.Config.Messages.GeneralError, nil)
}

// resolveUser looks up the registered user behind a Telegram ID and reports
// the failure to the chat when there is none.
func (f *flow) resolveUser(ctx context.Context, chatID, telegramUserID int64) (*database.User, bool) {
	user, err := f.deps.Store.GetUserByTelegramID(ctx, telegramUserID)
	if err != nil {
		f.fail(ctx, chatID, err)
		return nil, false
	}
	return user, true
}

// clearDeletingState drops the deletion-menu marker when the user navigates
// away from the deletion list. Awaiting-input states are left alone.
func (f *flow) clearDeletingState(chatID int64) {
	if f.deps.Sessions.State(chatID) == session.StateDeletingMenu {
		f.deps.Sessions.ClearState(chatID)
	}
}

// handleStart registers the user on first contact (idempotent) and shows the
// main menu.
func (f *flow) handleStart(ctx context.Context, chatID, telegramUserID int64) {
	user, created, err := f.deps.Store.GetOrCreateUser(ctx, telegramUserID)
	if err != nil {
		f.fail(ctx, chatID, err)
		return
	}

	msgs := f.deps.Config.Messages
	if created {
		f.log.InfoContext(ctx, "Registered new user", "user_id", user.ID, "chat_id", chatID)
		f.send(ctx, chatID, msgs.Welcome, nil)
	} else {
		f.send(ctx, chatID, msgs.AlreadyRegistered, nil)
	}
	f.showMainMenu(ctx, chatID)
}

// handleDeleteUser removes the user and everything it owns, then drops the
// chat session.
func (f *flow) handleDeleteUser(ctx context.Context, chatID, telegramUserID int64) {
	user, ok := f.resolveUser(ctx, chatID, telegramUserID)
	if !ok {
		return
	}

	if err := f.deps.Store.DeleteUser(ctx, user.ID); err != nil {
		f.fail(ctx, chatID, err)
		return
	}

	f.deps.Sessions.Forget(chatID)
	f.send(ctx, chatID, f.deps.Config.Messages.UserDeleted, nil)
}

func (f *flow) showMainMenu(ctx context.Context, chatID int64) {
	f.clearDeletingState(chatID)
	f.send(ctx, chatID, f.deps.Config.Messages.MainMenu, mainMenuKeyboard())
}
