package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/listify/internal/session"
)

// NewMessageHandler returns the handler for plain text messages. It is
// registered as the bot's default handler: pending awaiting-input states
// consume the text, otherwise the text is routed as a command.
func NewMessageHandler(deps HandlerDeps) bot.HandlerFunc {
	return messageHandler{deps}.Handle
}

type messageHandler struct {
	deps HandlerDeps
}

func (h messageHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	msg := update.Message
	log := h.deps.Logger.With("handler", "message")
	f := newFlow(h.deps, b)

	state := h.deps.Sessions.State(msg.Chat.ID)
	log.DebugContext(ctx, "Handling message",
		"chat_id", msg.Chat.ID, "user_id", msg.From.ID, "state", state.String())

	switch state {
	case session.StateAwaitingContentName:
		f.handleContentNameInput(ctx, msg)
	case session.StateAwaitingTagName:
		f.handleTagNameInput(ctx, msg)
	default:
		switch msg.Text {
		case "/start":
			f.handleStart(ctx, msg.Chat.ID, msg.From.ID)
		case "/delete":
			f.handleDeleteUser(ctx, msg.Chat.ID, msg.From.ID)
		default:
			f.send(ctx, msg.Chat.ID, h.deps.Config.Messages.UnknownCommand, nil)
		}
	}
}
