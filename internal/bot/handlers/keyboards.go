package handlers

import (
	"github.com/go-telegram/bot/models"

	"github.com/edgard/listify/internal/database"
)

func button(text string, cb Callback) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{Text: text, CallbackData: cb.Encode()}
}

func mainMenuKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				button("Content Menu", Callback{Action: ActionContentMenu}),
				button("Tag Menu", Callback{Action: ActionTagMenu}),
			},
		},
	}
}

func contentMenuKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				button("Show Contents", Callback{Action: ActionShowContents}),
				button("Show with filter", Callback{Action: ActionShowFilter}),
			},
			{
				button("Add Content", Callback{Action: ActionAddContent}),
				button("Delete Content", Callback{Action: ActionShowDeleteContent}),
			},
			{
				button("Back to Main Menu", Callback{Action: ActionMainMenu}),
			},
		},
	}
}

func contentListKeyboard(contents []database.Content) *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, len(contents)+1)
	for _, c := range contents {
		rows = append(rows, []models.InlineKeyboardButton{
			button(c.Name, Callback{Action: ActionContentOptions, ContentID: c.ID}),
		})
	}
	rows = append(rows, []models.InlineKeyboardButton{
		button("Back to Content Menu", Callback{Action: ActionContentMenu}),
	})
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func deletionKeyboard(contents []database.Content) *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, len(contents)+1)
	for _, c := range contents {
		rows = append(rows, []models.InlineKeyboardButton{
			button("Delete "+c.Name, Callback{Action: ActionDeleteContent, ContentID: c.ID}),
		})
	}
	rows = append(rows, []models.InlineKeyboardButton{
		button("Back to Content Menu", Callback{Action: ActionContentMenu}),
	})
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func contentOptionsKeyboard(contentID int64) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				button("Manage Tags", Callback{Action: ActionShowContentTags, ContentID: contentID}),
			},
			{
				button("Delete Content", Callback{Action: ActionDeleteContent, ContentID: contentID}),
				button("Back to Contents", Callback{Action: ActionShowContents}),
			},
		},
	}
}

func tagMenuKeyboard(tags []database.Tag) *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, len(tags)+1)
	for _, t := range tags {
		rows = append(rows, []models.InlineKeyboardButton{
			button(t.Name, Callback{Action: ActionDeleteTag, TagID: t.ID}),
		})
	}
	rows = append(rows, []models.InlineKeyboardButton{
		button("Create Tag", Callback{Action: ActionCreateTag}),
		button("Back to Main Menu", Callback{Action: ActionMainMenu}),
	})
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// tagToggleKeyboard lists every tag of the user; attached ones carry a check
// mark and tapping them detaches, the rest attach.
func tagToggleKeyboard(contentID int64, tags []database.Tag, attached map[int64]bool) *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, len(tags)+1)
	for _, t := range tags {
		text := t.Name
		action := ActionAddTagToContent
		if attached[t.ID] {
			text += " ✅"
			action = ActionRemoveTagFromContent
		}
		rows = append(rows, []models.InlineKeyboardButton{
			button(text, Callback{Action: action, ContentID: contentID, TagID: t.ID}),
		})
	}
	rows = append(rows, []models.InlineKeyboardButton{
		button("Back to Content Options", Callback{Action: ActionContentOptions, ContentID: contentID}),
	})
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// filterKeyboard lists every tag of the user; selected ones carry a check
// mark and tapping them deselects, the rest select.
func filterKeyboard(tags []database.Tag, selected map[int64]bool) *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, len(tags)+1)
	for _, t := range tags {
		text := t.Name
		action := ActionCountTag
		if selected[t.ID] {
			text += " ✅"
			action = ActionUncountTag
		}
		rows = append(rows, []models.InlineKeyboardButton{
			button(text, Callback{Action: action, TagID: t.ID}),
		})
	}
	rows = append(rows, []models.InlineKeyboardButton{
		button("Back to Content Menu", Callback{Action: ActionContentMenu}),
	})
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}
