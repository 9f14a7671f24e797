package handlers

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/listify/internal/session"
)

func (f *flow) showContentMenu(ctx context.Context, chatID int64) {
	f.clearDeletingState(chatID)
	f.send(ctx, chatID, f.deps.Config.Messages.ContentMenu, contentMenuKeyboard())
}

func (f *flow) showContents(ctx context.Context, chatID, telegramUserID int64) {
	f.clearDeletingState(chatID)

	user, ok := f.resolveUser(ctx, chatID, telegramUserID)
	if !ok {
		return
	}

	contents, err := f.deps.Store.GetContentsByUser(ctx, user.ID)
	if err != nil {
		f.fail(ctx, chatID, err)
		return
	}

	msgs := f.deps.Config.Messages
	if len(contents) == 0 {
		f.send(ctx, chatID, msgs.NoContents, contentMenuKeyboard())
		return
	}

	f.send(ctx, chatID, msgs.SelectContent, contentListKeyboard(contents))
}

func (f *flow) showContentOptions(ctx context.Context, chatID, contentID int64) {
	f.clearDeletingState(chatID)
	f.send(ctx, chatID, f.deps.Config.Messages.ContentOptions, contentOptionsKeyboard(contentID))
}

// promptAddContent asks for a content name and arms the awaiting state so the
// next text message in this chat is consumed as the name.
func (f *flow) promptAddContent(ctx context.Context, chatID int64) {
	f.send(ctx, chatID, f.deps.Config.Messages.PromptContentName, nil)
	f.deps.Sessions.SetState(chatID, session.StateAwaitingContentName)
}

// handleContentNameInput consumes a text message while awaiting a content
// name. Validation failures keep the awaiting state so the user can retry;
// every other branch clears it.
func (f *flow) handleContentNameInput(ctx context.Context, msg *models.Message) {
	chatID := msg.Chat.ID
	msgs := f.deps.Config.Messages

	name := strings.TrimSpace(msg.Text)
	if name == "" {
		f.send(ctx, chatID, msgs.NameEmpty, nil)
		return
	}
	if maxLen := f.deps.Config.Limits.ContentNameMaxLen; utf8.RuneCountInString(name) > maxLen {
		f.send(ctx, chatID, fmt.Sprintf(msgs.NameTooLong, maxLen), nil)
		return
	}

	// Input accepted: the awaiting state is one-shot from here on.
	f.deps.Sessions.ClearState(chatID)
	f.deleteInputMessage(ctx, msg)

	user, ok := f.resolveUser(ctx, chatID, msg.From.ID)
	if !ok {
		return
	}

	allowed, err := f.deps.Quota.CanAddContent(ctx, user.ID)
	if err != nil {
		f.fail(ctx, chatID, err)
		return
	}
	if !allowed {
		f.send(ctx, chatID, msgs.ContentQuotaReached, nil)
		f.showContentMenu(ctx, chatID)
		return
	}

	if _, err := f.deps.Store.CreateContent(ctx, user.ID, name); err != nil {
		f.fail(ctx, chatID, err)
		return
	}

	f.send(ctx, chatID, fmt.Sprintf(msgs.ContentAdded, name), nil)
	f.showContentMenu(ctx, chatID)
}

// showContentsForDeletion renders the deletion list and marks the chat so a
// delete loops back here instead of the detail view.
func (f *flow) showContentsForDeletion(ctx context.Context, chatID, telegramUserID int64) {
	user, ok := f.resolveUser(ctx, chatID, telegramUserID)
	if !ok {
		return
	}

	contents, err := f.deps.Store.GetContentsByUser(ctx, user.ID)
	if err != nil {
		f.fail(ctx, chatID, err)
		return
	}

	msgs := f.deps.Config.Messages
	if len(contents) == 0 {
		f.clearDeletingState(chatID)
		f.send(ctx, chatID, msgs.NoContents, contentMenuKeyboard())
		return
	}

	f.deps.Sessions.SetState(chatID, session.StateDeletingMenu)
	f.send(ctx, chatID, msgs.SelectForDeletion, deletionKeyboard(contents))
}

func (f *flow) handleDeleteContent(ctx context.Context, chatID, telegramUserID, contentID int64) {
	user, ok := f.resolveUser(ctx, chatID, telegramUserID)
	if !ok {
		return
	}

	if err := f.deps.Store.DeleteContent(ctx, user.ID, contentID); err != nil {
		f.fail(ctx, chatID, err)
	} else {
		f.send(ctx, chatID, f.deps.Config.Messages.ContentDeleted, nil)
	}

	// Inside the deletion menu the list loops; from anywhere else the user
	// lands back on the content overview.
	if f.deps.Sessions.State(chatID) == session.StateDeletingMenu {
		f.showContentsForDeletion(ctx, chatID, telegramUserID)
		return
	}
	f.showContents(ctx, chatID, telegramUserID)
}

func (f *flow) deleteInputMessage(ctx context.Context, msg *models.Message) {
	_, err := f.s.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
	})
	if err != nil {
		f.log.DebugContext(ctx, "Failed to delete input message",
			"chat_id", msg.Chat.ID, "message_id", msg.ID, "error", err)
	}
}
