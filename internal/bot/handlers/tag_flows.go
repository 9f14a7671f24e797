package handlers

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-telegram/bot/models"

	"github.com/edgard/listify/internal/session"
)

func (f *flow) showTagMenu(ctx context.Context, chatID, telegramUserID int64) {
	f.clearDeletingState(chatID)

	user, ok := f.resolveUser(ctx, chatID, telegramUserID)
	if !ok {
		return
	}

	tags, err := f.deps.Store.GetTagsByUser(ctx, user.ID)
	if err != nil {
		f.fail(ctx, chatID, err)
		return
	}

	f.send(ctx, chatID, f.deps.Config.Messages.TagMenu, tagMenuKeyboard(tags))
}

// promptCreateTag asks for a tag name and arms the awaiting state.
func (f *flow) promptCreateTag(ctx context.Context, chatID int64) {
	f.send(ctx, chatID, f.deps.Config.Messages.PromptTagName, nil)
	f.deps.Sessions.SetState(chatID, session.StateAwaitingTagName)
}

// handleTagNameInput consumes a text message while awaiting a tag name, with
// the same validation and state rules as content names.
func (f *flow) handleTagNameInput(ctx context.Context, msg *models.Message) {
	chatID := msg.Chat.ID
	msgs := f.deps.Config.Messages

	name := strings.TrimSpace(msg.Text)
	if name == "" {
		f.send(ctx, chatID, msgs.NameEmpty, nil)
		return
	}
	if maxLen := f.deps.Config.Limits.TagNameMaxLen; utf8.RuneCountInString(name) > maxLen {
		f.send(ctx, chatID, fmt.Sprintf(msgs.NameTooLong, maxLen), nil)
		return
	}

	f.deps.Sessions.ClearState(chatID)
	f.deleteInputMessage(ctx, msg)

	user, ok := f.resolveUser(ctx, chatID, msg.From.ID)
	if !ok {
		return
	}

	allowed, err := f.deps.Quota.CanAddTag(ctx, user.ID)
	if err != nil {
		f.fail(ctx, chatID, err)
		return
	}
	if !allowed {
		f.send(ctx, chatID, msgs.TagQuotaReached, nil)
		f.showTagMenu(ctx, chatID, msg.From.ID)
		return
	}

	if _, err := f.deps.Store.CreateTag(ctx, user.ID, name); err != nil {
		f.fail(ctx, chatID, err)
		return
	}

	f.send(ctx, chatID, fmt.Sprintf(msgs.TagAdded, name), nil)
	f.showTagMenu(ctx, chatID, msg.From.ID)
}

func (f *flow) handleDeleteTag(ctx context.Context, chatID, telegramUserID, tagID int64) {
	user, ok := f.resolveUser(ctx, chatID, telegramUserID)
	if !ok {
		return
	}

	if err := f.deps.Store.DeleteTag(ctx, user.ID, tagID); err != nil {
		f.fail(ctx, chatID, err)
	} else {
		// A deleted tag has no filter button left, so a stale selection
		// would keep the filtered list empty with no way to untoggle it.
		f.deps.Sessions.Deselect(chatID, tagID)
		f.send(ctx, chatID, f.deps.Config.Messages.TagDeleted, nil)
	}

	f.showTagMenu(ctx, chatID, telegramUserID)
}

// showContentTags renders the attach/detach toggle menu for one content:
// every tag of the user, attached ones checked.
func (f *flow) showContentTags(ctx context.Context, chatID, telegramUserID, contentID int64) {
	user, ok := f.resolveUser(ctx, chatID, telegramUserID)
	if !ok {
		return
	}

	tags, err := f.deps.Store.GetTagsByUser(ctx, user.ID)
	if err != nil {
		f.fail(ctx, chatID, err)
		return
	}

	msgs := f.deps.Config.Messages
	if len(tags) == 0 {
		f.send(ctx, chatID, msgs.NoTags, nil)
		f.showContentOptions(ctx, chatID, contentID)
		return
	}

	contentTags, err := f.deps.Store.GetTagsForContent(ctx, user.ID, contentID)
	if err != nil {
		f.fail(ctx, chatID, err)
		return
	}

	attached := make(map[int64]bool, len(contentTags))
	for _, t := range contentTags {
		attached[t.ID] = true
	}

	f.send(ctx, chatID, msgs.SelectTagToggle, tagToggleKeyboard(contentID, tags, attached))
}

func (f *flow) handleAddTagToContent(ctx context.Context, chatID, telegramUserID, contentID, tagID int64) {
	user, ok := f.resolveUser(ctx, chatID, telegramUserID)
	if !ok {
		return
	}

	if err := f.deps.Store.AddTagToContent(ctx, user.ID, contentID, tagID); err != nil {
		f.fail(ctx, chatID, err)
	} else {
		f.send(ctx, chatID, f.deps.Config.Messages.TagAttached, nil)
	}

	f.showContentTags(ctx, chatID, telegramUserID, contentID)
}

func (f *flow) handleRemoveTagFromContent(ctx context.Context, chatID, telegramUserID, contentID, tagID int64) {
	user, ok := f.resolveUser(ctx, chatID, telegramUserID)
	if !ok {
		return
	}

	if err := f.deps.Store.RemoveTagFromContent(ctx, user.ID, contentID, tagID); err != nil {
		f.fail(ctx, chatID, err)
	} else {
		f.send(ctx, chatID, f.deps.Config.Messages.TagDetached, nil)
	}

	f.showContentTags(ctx, chatID, telegramUserID, contentID)
}
