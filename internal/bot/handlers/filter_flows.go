package handlers

import (
	"context"
	"strings"
)

// showFilterMenu renders the filter view: the user's tags as toggle buttons
// and, in the message body, the contents carrying every selected tag. With
// nothing selected the full content list is shown.
func (f *flow) showFilterMenu(ctx context.Context, chatID, telegramUserID int64) {
	f.clearDeletingState(chatID)

	user, ok := f.resolveUser(ctx, chatID, telegramUserID)
	if !ok {
		return
	}

	msgs := f.deps.Config.Messages

	tags, err := f.deps.Store.GetTagsByUser(ctx, user.ID)
	if err != nil {
		f.fail(ctx, chatID, err)
		return
	}
	if len(tags) == 0 {
		f.send(ctx, chatID, msgs.NoTags, contentMenuKeyboard())
		return
	}

	selectedIDs := f.deps.Sessions.SelectedTags(chatID)
	selected := make(map[int64]bool, len(selectedIDs))
	for _, id := range selectedIDs {
		selected[id] = true
	}

	contents, err := f.deps.Store.GetContentsMatchingAllTags(ctx, user.ID, selectedIDs)
	if err != nil {
		f.fail(ctx, chatID, err)
		return
	}

	var b strings.Builder
	b.WriteString(msgs.FilterHeader)
	b.WriteString("\n\n")
	if len(contents) == 0 {
		b.WriteString(msgs.NoContents)
	} else {
		for _, c := range contents {
			b.WriteString("• ")
			b.WriteString(c.Name)
			b.WriteString("\n")
		}
	}

	f.send(ctx, chatID, b.String(), filterKeyboard(tags, selected))
}

// handleToggleFilterTag flips the tag in the chat's selection and re-renders
// the filtered list. The pending-input state is untouched.
func (f *flow) handleToggleFilterTag(ctx context.Context, chatID, telegramUserID, tagID int64) {
	nowSelected := f.deps.Sessions.ToggleTag(chatID, tagID)
	f.log.DebugContext(ctx, "Toggled filter tag",
		"chat_id", chatID, "tag_id", tagID, "selected", nowSelected)
	f.showFilterMenu(ctx, chatID, telegramUserID)
}
