package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrBadCallback is returned for callback payloads that don't parse into a
// known command. The controller answers these as unknown commands instead of
// failing the update.
var ErrBadCallback = errors.New("bad callback payload")

// Action identifies a button command. The wire form is the action token,
// optionally followed by colon-separated numeric arguments.
type Action string

const (
	ActionMainMenu    Action = "mainMenu"
	ActionContentMenu Action = "contentMenu"
	ActionTagMenu     Action = "tagMenu"

	ActionShowContents      Action = "showContents"
	ActionContentOptions    Action = "content"
	ActionAddContent        Action = "addContent"
	ActionShowDeleteContent Action = "showDeleteContent"
	ActionDeleteContent     Action = "deleteContent"

	ActionCreateTag Action = "createTag"
	ActionDeleteTag Action = "deleteTag"

	ActionShowContentTags      Action = "showContentTags"
	ActionAddTagToContent      Action = "addTagToContent"
	ActionRemoveTagFromContent Action = "removeTagFromContent"

	ActionShowFilter Action = "showFilter"
	ActionCountTag   Action = "countTag"
	ActionUncountTag Action = "uncountTag"
)

// Callback is a button command parsed once at the boundary, so the dispatch
// below works on typed fields instead of re-splitting strings.
type Callback struct {
	Action    Action
	ContentID int64
	TagID     int64
}

// Encode renders the callback into its wire form.
func (c Callback) Encode() string {
	switch c.Action {
	case ActionContentOptions, ActionDeleteContent, ActionShowContentTags:
		return fmt.Sprintf("%s:%d", c.Action, c.ContentID)
	case ActionDeleteTag, ActionCountTag, ActionUncountTag:
		return fmt.Sprintf("%s:%d", c.Action, c.TagID)
	case ActionAddTagToContent, ActionRemoveTagFromContent:
		return fmt.Sprintf("%s:%d:%d", c.Action, c.ContentID, c.TagID)
	default:
		return string(c.Action)
	}
}

// ParseCallback parses a callback payload. Extra trailing tokens are ignored;
// missing or non-numeric required arguments and unknown actions yield
// ErrBadCallback.
func ParseCallback(data string) (Callback, error) {
	tokens := strings.Split(data, ":")
	action := Action(tokens[0])
	args := tokens[1:]

	switch action {
	case ActionMainMenu, ActionContentMenu, ActionTagMenu,
		ActionShowContents, ActionAddContent, ActionShowDeleteContent,
		ActionCreateTag, ActionShowFilter:
		return Callback{Action: action}, nil

	case ActionContentOptions, ActionDeleteContent, ActionShowContentTags:
		contentID, err := parseIDArg(args, 0)
		if err != nil {
			return Callback{}, err
		}
		return Callback{Action: action, ContentID: contentID}, nil

	case ActionDeleteTag, ActionCountTag, ActionUncountTag:
		tagID, err := parseIDArg(args, 0)
		if err != nil {
			return Callback{}, err
		}
		return Callback{Action: action, TagID: tagID}, nil

	case ActionAddTagToContent, ActionRemoveTagFromContent:
		contentID, err := parseIDArg(args, 0)
		if err != nil {
			return Callback{}, err
		}
		tagID, err := parseIDArg(args, 1)
		if err != nil {
			return Callback{}, err
		}
		return Callback{Action: action, ContentID: contentID, TagID: tagID}, nil

	default:
		return Callback{}, fmt.Errorf("%w: unknown action %q", ErrBadCallback, tokens[0])
	}
}

func parseIDArg(args []string, idx int) (int64, error) {
	if idx >= len(args) {
		return 0, fmt.Errorf("%w: missing argument %d", ErrBadCallback, idx)
	}
	id, err := strconv.ParseInt(args[idx], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: argument %d is not an ID", ErrBadCallback, idx)
	}
	return id, nil
}
