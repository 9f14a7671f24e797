package session_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/edgard/listify/internal/session"
)

func TestStateTransitions(t *testing.T) {
	t.Parallel()

	store := session.NewStore(nil)
	const chatID = int64(100)

	assert.Equal(t, session.StateNone, store.State(chatID), "new chat starts with no pending input")

	store.SetState(chatID, session.StateAwaitingContentName)
	assert.Equal(t, session.StateAwaitingContentName, store.State(chatID))

	store.ClearState(chatID)
	assert.Equal(t, session.StateNone, store.State(chatID))

	// Chats do not share state.
	store.SetState(chatID, session.StateAwaitingTagName)
	assert.Equal(t, session.StateNone, store.State(chatID+1))
}

func TestToggleTag(t *testing.T) {
	t.Parallel()

	store := session.NewStore(nil)
	const chatID = int64(100)

	assert.True(t, store.ToggleTag(chatID, 7), "first toggle selects")
	assert.True(t, store.ToggleTag(chatID, 8))
	assert.ElementsMatch(t, []int64{7, 8}, store.SelectedTags(chatID))

	assert.False(t, store.ToggleTag(chatID, 7), "second toggle deselects")
	assert.ElementsMatch(t, []int64{8}, store.SelectedTags(chatID))
}

func TestDeselect(t *testing.T) {
	t.Parallel()

	store := session.NewStore(nil)
	const chatID = int64(100)

	store.ToggleTag(chatID, 7)
	store.ToggleTag(chatID, 8)

	store.Deselect(chatID, 7)
	assert.ElementsMatch(t, []int64{8}, store.SelectedTags(chatID))

	// Deselecting a tag that isn't selected is a no-op.
	store.Deselect(chatID, 7)
	store.Deselect(chatID+1, 8)
	assert.ElementsMatch(t, []int64{8}, store.SelectedTags(chatID))
	assert.Empty(t, store.SelectedTags(chatID+1))
}

func TestSelectionSurvivesStateClear(t *testing.T) {
	t.Parallel()

	store := session.NewStore(nil)
	const chatID = int64(100)

	store.ToggleTag(chatID, 7)
	store.SetState(chatID, session.StateAwaitingContentName)
	store.ClearState(chatID)

	assert.ElementsMatch(t, []int64{7}, store.SelectedTags(chatID),
		"clearing the pending input must not touch the filter selection")

	store.ClearSelection(chatID)
	assert.Empty(t, store.SelectedTags(chatID))
}

func TestForget(t *testing.T) {
	t.Parallel()

	store := session.NewStore(nil)
	const chatID = int64(100)

	store.SetState(chatID, session.StateDeletingMenu)
	store.ToggleTag(chatID, 7)

	store.Forget(chatID)

	assert.Equal(t, session.StateNone, store.State(chatID))
	assert.Empty(t, store.SelectedTags(chatID))
}

func TestSweep(t *testing.T) {
	t.Parallel()

	store := session.NewStore(nil)

	store.SetState(1, session.StateAwaitingContentName)
	store.ToggleTag(2, 7)

	assert.Equal(t, 0, store.Sweep(time.Hour), "fresh sessions survive")

	time.Sleep(20 * time.Millisecond)
	removed := store.Sweep(10 * time.Millisecond)
	assert.Equal(t, 2, removed)

	assert.Equal(t, session.StateNone, store.State(1))
	assert.Empty(t, store.SelectedTags(2))
}

func TestConcurrentChats(t *testing.T) {
	t.Parallel()

	store := session.NewStore(nil)

	var wg sync.WaitGroup
	for i := range 50 {
		chatID := int64(i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.SetState(chatID, session.StateAwaitingTagName)
			store.ToggleTag(chatID, chatID*10)
			store.ClearState(chatID)
		}()
	}
	wg.Wait()

	for i := range 50 {
		chatID := int64(i)
		assert.Equal(t, session.StateNone, store.State(chatID))
		assert.ElementsMatch(t, []int64{chatID * 10}, store.SelectedTags(chatID))
	}
}
