// Package session holds per-chat conversational state: the pending input the
// bot is waiting for, and the set of tags currently selected for filtering.
package session

import (
	"io"
	"log/slog"
	"sync"
	"time"
)

// State identifies what kind of input the bot is waiting for in a chat.
type State int

const (
	// StateNone means no input is pending.
	StateNone State = iota
	// StateAwaitingContentName means the next text message names a new content.
	StateAwaitingContentName
	// StateAwaitingTagName means the next text message names a new tag.
	StateAwaitingTagName
	// StateDeletingMenu keeps the deletion list as the post-delete navigation target.
	StateDeletingMenu
)

// String returns a readable name for logging.
func (s State) String() string {
	switch s {
	case StateNone:
		return "none"
	case StateAwaitingContentName:
		return "awaiting_content_name"
	case StateAwaitingTagName:
		return "awaiting_tag_name"
	case StateDeletingMenu:
		return "deleting_menu"
	default:
		return "unknown"
	}
}

// entry is the state of a single chat. Each entry carries its own mutex so
// sessions contend only with themselves, not with every other chat.
type entry struct {
	mu       sync.Mutex
	state    State
	selected map[int64]struct{}
	touched  time.Time
}

// Store is a concurrent map of chat sessions, created lazily per chat.
// The pending-input state is one-shot and independent from the selected-tag
// set, which survives state changes until explicitly cleared or swept.
type Store struct {
	sessions sync.Map // chat id -> *entry
	logger   *slog.Logger
}

// NewStore creates an empty session store.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{
		logger: logger.With("component", "session"),
	}
}

func (s *Store) get(chatID int64) *entry {
	if e, ok := s.sessions.Load(chatID); ok {
		return e.(*entry)
	}
	e, _ := s.sessions.LoadOrStore(chatID, &entry{
		selected: make(map[int64]struct{}),
		touched:  time.Now(),
	})
	return e.(*entry)
}

// State returns the chat's pending-input state.
func (s *Store) State(chatID int64) State {
	e := s.get(chatID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.touched = time.Now()
	return e.state
}

// SetState sets the chat's pending-input state.
func (s *Store) SetState(chatID int64, state State) {
	e := s.get(chatID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = state
	e.touched = time.Now()
	s.logger.Debug("Session state set", "chat_id", chatID, "state", state.String())
}

// ClearState resets the chat's pending-input state without touching the
// selected-tag set.
func (s *Store) ClearState(chatID int64) {
	e := s.get(chatID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = StateNone
	e.touched = time.Now()
}

// ToggleTag flips the tag's membership in the chat's selection and reports
// whether the tag is selected after the call.
func (s *Store) ToggleTag(chatID, tagID int64) bool {
	e := s.get(chatID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.touched = time.Now()
	if _, ok := e.selected[tagID]; ok {
		delete(e.selected, tagID)
		return false
	}
	e.selected[tagID] = struct{}{}
	return true
}

// SelectedTags returns a copy of the chat's selected tag IDs.
func (s *Store) SelectedTags(chatID int64) []int64 {
	e := s.get(chatID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.touched = time.Now()
	ids := make([]int64, 0, len(e.selected))
	for id := range e.selected {
		ids = append(ids, id)
	}
	return ids
}

// Deselect removes the tag from the chat's selection if present. Used when a
// tag is deleted, so the filter never holds an ID with no button to untoggle.
func (s *Store) Deselect(chatID, tagID int64) {
	e := s.get(chatID)
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.selected, tagID)
	e.touched = time.Now()
}

// ClearSelection empties the chat's selected-tag set.
func (s *Store) ClearSelection(chatID int64) {
	e := s.get(chatID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selected = make(map[int64]struct{})
	e.touched = time.Now()
}

// Forget drops the chat's session entirely (used when the user deletes their account).
func (s *Store) Forget(chatID int64) {
	s.sessions.Delete(chatID)
	s.logger.Debug("Session forgotten", "chat_id", chatID)
}

// Sweep removes sessions idle for longer than maxIdle and returns how many
// were dropped. Selected tags in a swept session are lost, which is the
// intended session lifetime.
func (s *Store) Sweep(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)
	removed := 0
	s.sessions.Range(func(key, value any) bool {
		e := value.(*entry)
		e.mu.Lock()
		stale := e.touched.Before(cutoff)
		e.mu.Unlock()
		if stale {
			s.sessions.Delete(key)
			removed++
		}
		return true
	})
	if removed > 0 {
		s.logger.Debug("Swept idle sessions", "removed", removed)
	}
	return removed
}
