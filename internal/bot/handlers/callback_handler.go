package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewCallbackHandler returns the handler for inline keyboard button presses.
// Payloads are parsed once into a typed Callback; malformed or unknown
// payloads are acknowledged as unknown commands and otherwise ignored.
func NewCallbackHandler(deps HandlerDeps) bot.HandlerFunc {
	return callbackHandler{deps}.Handle
}

type callbackHandler struct {
	deps HandlerDeps
}

func (h callbackHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	q := update.CallbackQuery
	if q == nil {
		return
	}
	log := h.deps.Logger.With("handler", "callback")
	f := newFlow(h.deps, b)

	var chatID int64
	var messageID int
	switch {
	case q.Message.Message != nil:
		chatID = q.Message.Message.Chat.ID
		messageID = q.Message.Message.ID
	case q.Message.InaccessibleMessage != nil:
		chatID = q.Message.InaccessibleMessage.Chat.ID
	default:
		log.WarnContext(ctx, "Callback query without message, ignoring", "callback_query_id", q.ID)
		return
	}

	cmd, err := ParseCallback(q.Data)
	if err != nil {
		log.WarnContext(ctx, "Unparseable callback payload",
			"chat_id", chatID, "data", q.Data, "error", err)
		h.answer(ctx, b, q.ID, h.deps.Config.Messages.UnknownCommand)
		return
	}

	h.answer(ctx, b, q.ID, "")

	// The tapped menu is removed before the next one is sent, so the chat
	// doesn't accumulate stale keyboards.
	if messageID != 0 {
		if _, err := b.DeleteMessage(ctx, &bot.DeleteMessageParams{ChatID: chatID, MessageID: messageID}); err != nil {
			log.DebugContext(ctx, "Failed to delete menu message",
				"chat_id", chatID, "message_id", messageID, "error", err)
		}
	}

	userID := q.From.ID
	switch cmd.Action {
	case ActionMainMenu:
		f.showMainMenu(ctx, chatID)
	case ActionContentMenu:
		f.showContentMenu(ctx, chatID)
	case ActionTagMenu:
		f.showTagMenu(ctx, chatID, userID)

	case ActionShowContents:
		f.showContents(ctx, chatID, userID)
	case ActionContentOptions:
		f.showContentOptions(ctx, chatID, cmd.ContentID)
	case ActionAddContent:
		f.promptAddContent(ctx, chatID)
	case ActionShowDeleteContent:
		f.showContentsForDeletion(ctx, chatID, userID)
	case ActionDeleteContent:
		f.handleDeleteContent(ctx, chatID, userID, cmd.ContentID)

	case ActionCreateTag:
		f.promptCreateTag(ctx, chatID)
	case ActionDeleteTag:
		f.handleDeleteTag(ctx, chatID, userID, cmd.TagID)

	case ActionShowContentTags:
		f.showContentTags(ctx, chatID, userID, cmd.ContentID)
	case ActionAddTagToContent:
		f.handleAddTagToContent(ctx, chatID, userID, cmd.ContentID, cmd.TagID)
	case ActionRemoveTagFromContent:
		f.handleRemoveTagFromContent(ctx, chatID, userID, cmd.ContentID, cmd.TagID)

	case ActionShowFilter:
		f.showFilterMenu(ctx, chatID, userID)
	case ActionCountTag, ActionUncountTag:
		f.handleToggleFilterTag(ctx, chatID, userID, cmd.TagID)

	default:
		// ParseCallback only emits known actions; this is unreachable.
		log.WarnContext(ctx, "Unhandled callback action", "action", cmd.Action)
	}
}

func (h callbackHandler) answer(ctx context.Context, b *bot.Bot, queryID, text string) {
	_, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: queryID,
		Text:            text,
	})
	if err != nil {
		h.deps.Logger.DebugContext(ctx, "Failed to answer callback query",
			"callback_query_id", queryID, "error", err)
	}
}
