// Package database_test tests the Store implementation against an in-memory
// SQLite database with the real schema applied.
package database_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/listify/internal/database"
)

func newTestStore(t *testing.T) database.Store {
	t.Helper()

	db, err := database.NewDB(":memory:")
	require.NoError(t, err, "in-memory database should open and migrate")
	t.Cleanup(func() { database.CloseDB(db) })

	return database.NewStore(db, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestGetOrCreateUser(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	user, created, err := store.GetOrCreateUser(ctx, 1001)
	require.NoError(t, err)
	assert.True(t, created, "first call should create the user")
	assert.Equal(t, int64(1001), user.TelegramUserID)
	assert.Equal(t, 50, user.MaxContents, "default content quota")
	assert.Equal(t, 20, user.MaxTags, "default tag quota")
	assert.False(t, user.IsUnlimited)

	again, created, err := store.GetOrCreateUser(ctx, 1001)
	require.NoError(t, err)
	assert.False(t, created, "second call should find the existing user")
	assert.Equal(t, user.ID, again.ID)

	_, _, err = store.GetOrCreateUser(ctx, 0)
	assert.Error(t, err, "zero telegram ID is rejected")
}

func TestGetUserByTelegramIDNotFound(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	_, err := store.GetUserByTelegramID(context.Background(), 9999)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestContentLifecycle(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	user, _, err := store.GetOrCreateUser(ctx, 1001)
	require.NoError(t, err)

	count, err := store.CountContents(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	first, err := store.CreateContent(ctx, user.ID, "go book")
	require.NoError(t, err)
	second, err := store.CreateContent(ctx, user.ID, "sql talk")
	require.NoError(t, err)

	contents, err := store.GetContentsByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, contents, 2)
	assert.Equal(t, "go book", contents[0].Name)
	assert.Equal(t, "sql talk", contents[1].Name)

	count, err = store.CountContents(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, store.DeleteContent(ctx, user.ID, first.ID))
	assert.ErrorIs(t, store.DeleteContent(ctx, user.ID, first.ID), database.ErrNotFound,
		"deleting twice should report not found")

	contents, err = store.GetContentsByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, contents, 1)
	assert.Equal(t, second.ID, contents[0].ID)
}

func TestTagLifecycle(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	user, _, err := store.GetOrCreateUser(ctx, 1001)
	require.NoError(t, err)

	tag, err := store.CreateTag(ctx, user.ID, "reading")
	require.NoError(t, err)

	tags, err := store.GetTagsByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "reading", tags[0].Name)

	count, err := store.CountTags(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, store.DeleteTag(ctx, user.ID, tag.ID))
	assert.ErrorIs(t, store.DeleteTag(ctx, user.ID, tag.ID), database.ErrNotFound)
}

func TestOwnershipIsolation(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	alice, _, err := store.GetOrCreateUser(ctx, 1001)
	require.NoError(t, err)
	mallory, _, err := store.GetOrCreateUser(ctx, 2002)
	require.NoError(t, err)

	content, err := store.CreateContent(ctx, alice.ID, "private")
	require.NoError(t, err)
	tag, err := store.CreateTag(ctx, alice.ID, "secret")
	require.NoError(t, err)

	assert.ErrorIs(t, store.DeleteContent(ctx, mallory.ID, content.ID), database.ErrNotFound)
	assert.ErrorIs(t, store.DeleteTag(ctx, mallory.ID, tag.ID), database.ErrNotFound)
	assert.ErrorIs(t, store.AddTagToContent(ctx, mallory.ID, content.ID, tag.ID), database.ErrNotFound)

	// A tag owned by another user must not attach to my content either.
	mine, err := store.CreateContent(ctx, mallory.ID, "mine")
	require.NoError(t, err)
	assert.ErrorIs(t, store.AddTagToContent(ctx, mallory.ID, mine.ID, tag.ID), database.ErrNotFound)

	contents, err := store.GetContentsByUser(ctx, mallory.ID)
	require.NoError(t, err)
	require.Len(t, contents, 1)
	assert.Equal(t, "mine", contents[0].Name)
}

func TestTagAssociations(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	user, _, err := store.GetOrCreateUser(ctx, 1001)
	require.NoError(t, err)

	content, err := store.CreateContent(ctx, user.ID, "article")
	require.NoError(t, err)
	tag, err := store.CreateTag(ctx, user.ID, "tech")
	require.NoError(t, err)

	require.NoError(t, store.AddTagToContent(ctx, user.ID, content.ID, tag.ID))
	require.NoError(t, store.AddTagToContent(ctx, user.ID, content.ID, tag.ID),
		"re-adding an existing association is a no-op")

	tags, err := store.GetTagsForContent(ctx, user.ID, content.ID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, tag.ID, tags[0].ID)

	require.NoError(t, store.RemoveTagFromContent(ctx, user.ID, content.ID, tag.ID))
	assert.ErrorIs(t, store.RemoveTagFromContent(ctx, user.ID, content.ID, tag.ID), database.ErrNotFound)

	tags, err = store.GetTagsForContent(ctx, user.ID, content.ID)
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestGetContentsMatchingAllTags(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	user, _, err := store.GetOrCreateUser(ctx, 1001)
	require.NoError(t, err)

	book, err := store.CreateContent(ctx, user.ID, "book")
	require.NoError(t, err)
	film, err := store.CreateContent(ctx, user.ID, "film")
	require.NoError(t, err)
	_, err = store.CreateContent(ctx, user.ID, "song")
	require.NoError(t, err)

	long, err := store.CreateTag(ctx, user.ID, "long")
	require.NoError(t, err)
	classic, err := store.CreateTag(ctx, user.ID, "classic")
	require.NoError(t, err)

	// book: long+classic, film: long, song: untagged
	require.NoError(t, store.AddTagToContent(ctx, user.ID, book.ID, long.ID))
	require.NoError(t, store.AddTagToContent(ctx, user.ID, book.ID, classic.ID))
	require.NoError(t, store.AddTagToContent(ctx, user.ID, film.ID, long.ID))

	names := func(cs []database.Content) []string {
		out := make([]string, len(cs))
		for i, c := range cs {
			out[i] = c.Name
		}
		return out
	}

	all, err := store.GetContentsMatchingAllTags(ctx, user.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"book", "film", "song"}, names(all),
		"empty filter returns everything")

	byLong, err := store.GetContentsMatchingAllTags(ctx, user.ID, []int64{long.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"book", "film"}, names(byLong))

	byBoth, err := store.GetContentsMatchingAllTags(ctx, user.ID, []int64{long.ID, classic.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"book"}, names(byBoth),
		"adding a tag to the filter can only narrow the result")

	byClassic, err := store.GetContentsMatchingAllTags(ctx, user.ID, []int64{classic.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"book"}, names(byClassic))

	// Another user with the same tag names sees only their own contents.
	other, _, err := store.GetOrCreateUser(ctx, 2002)
	require.NoError(t, err)
	otherLong, err := store.CreateTag(ctx, other.ID, "long")
	require.NoError(t, err)
	foreign, err := store.GetContentsMatchingAllTags(ctx, other.ID, []int64{otherLong.ID})
	require.NoError(t, err)
	assert.Empty(t, foreign)
}

func TestDeleteCascades(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	user, _, err := store.GetOrCreateUser(ctx, 1001)
	require.NoError(t, err)

	content, err := store.CreateContent(ctx, user.ID, "article")
	require.NoError(t, err)
	tag, err := store.CreateTag(ctx, user.ID, "tech")
	require.NoError(t, err)
	require.NoError(t, store.AddTagToContent(ctx, user.ID, content.ID, tag.ID))

	// Deleting the tag drops the association but keeps the content.
	require.NoError(t, store.DeleteTag(ctx, user.ID, tag.ID))
	tags, err := store.GetTagsForContent(ctx, user.ID, content.ID)
	require.NoError(t, err)
	assert.Empty(t, tags)

	contents, err := store.GetContentsByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, contents, 1)

	// Deleting the user takes everything with it.
	require.NoError(t, store.DeleteUser(ctx, user.ID))
	_, err = store.GetUserByID(ctx, user.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)

	contents, err = store.GetContentsByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, contents)

	assert.ErrorIs(t, store.DeleteUser(ctx, user.ID), database.ErrNotFound)
}

func TestRunSQLMaintenance(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	assert.NoError(t, store.RunSQLMaintenance(context.Background()))
}
