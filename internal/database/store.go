package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when a user, content, tag, or association does not
// exist or is not owned by the requesting user. Callers are expected to check
// for it with errors.Is and surface a "not found" message rather than a
// generic failure.
var ErrNotFound = errors.New("not found")

// Store defines the interface for database operations.
// Methods should accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// GetOrCreateUser returns the user registered for the given Telegram user ID,
	// creating it (together with its content and tag lists) if it doesn't exist.
	// The returned bool reports whether a new user was created.
	GetOrCreateUser(ctx context.Context, telegramUserID int64) (*User, bool, error)

	// GetUserByTelegramID retrieves a user by Telegram user ID.
	GetUserByTelegramID(ctx context.Context, telegramUserID int64) (*User, error)

	// GetUserByID retrieves a user by internal ID.
	GetUserByID(ctx context.Context, userID int64) (*User, error)

	// DeleteUser deletes a user; lists, contents, tags, and associations cascade.
	DeleteUser(ctx context.Context, userID int64) error

	// CreateContent creates a content item in the user's content list.
	CreateContent(ctx context.Context, userID int64, name string) (*Content, error)

	// GetContentsByUser retrieves all contents owned by the user.
	GetContentsByUser(ctx context.Context, userID int64) ([]Content, error)

	// CountContents returns the number of contents owned by the user.
	CountContents(ctx context.Context, userID int64) (int, error)

	// DeleteContent deletes a content owned by the user; its associations cascade.
	DeleteContent(ctx context.Context, userID int64, contentID int64) error

	// CreateTag creates a tag in the user's tag list.
	CreateTag(ctx context.Context, userID int64, name string) (*Tag, error)

	// GetTagsByUser retrieves all tags owned by the user.
	GetTagsByUser(ctx context.Context, userID int64) ([]Tag, error)

	// CountTags returns the number of tags owned by the user.
	CountTags(ctx context.Context, userID int64) (int, error)

	// DeleteTag deletes a tag owned by the user; its associations cascade.
	DeleteTag(ctx context.Context, userID int64, tagID int64) error

	// AddTagToContent associates a tag with a content. Both must be owned by the
	// user, otherwise ErrNotFound is returned. Adding an existing association is
	// a successful no-op.
	AddTagToContent(ctx context.Context, userID, contentID, tagID int64) error

	// RemoveTagFromContent removes a tag/content association owned by the user.
	// Returns ErrNotFound if no such association exists.
	RemoveTagFromContent(ctx context.Context, userID, contentID, tagID int64) error

	// GetTagsForContent retrieves the tags associated with a content owned by
	// the user. Returns an empty slice, not an error, when there are none.
	GetTagsForContent(ctx context.Context, userID, contentID int64) ([]Tag, error)

	// GetContentsMatchingAllTags returns the user's contents whose tag set is a
	// superset of tagIDs (AND semantics). An empty tagIDs means no filter and
	// returns everything the user owns.
	GetContentsMatchingAllTags(ctx context.Context, userID int64, tagIDs []int64) ([]Content, error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetOrCreateUser returns the user for telegramUserID, creating the user row
// and its two list rows in one transaction when seen for the first time.
func (s *sqlxStore) GetOrCreateUser(ctx context.Context, telegramUserID int64) (*User, bool, error) {
	if telegramUserID == 0 {
		return nil, false, fmt.Errorf("telegram_user_id cannot be zero")
	}

	user, err := s.GetUserByTelegramID(ctx, telegramUserID)
	switch {
	case err == nil:
		return user, false, nil
	case !errors.Is(err, ErrNotFound):
		return nil, false, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction for user creation",
			"telegram_user_id", telegramUserID, "error", err)
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				if !errors.Is(rollbackErr, sql.ErrTxDone) {
					s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
				}
			}
		}
	}()

	now := time.Now().UTC()
	result, err := tx.ExecContext(ctx,
		`INSERT INTO users (telegram_user_id, created_at) VALUES (?, ?)`,
		telegramUserID, now)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error creating user", "telegram_user_id", telegramUserID, "error", err)
		return nil, false, fmt.Errorf("failed to create user for telegram ID %d: %w", telegramUserID, err)
	}

	userID, err := result.LastInsertId()
	if err != nil {
		return nil, false, fmt.Errorf("failed to get new user ID: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO content_lists (user_id) VALUES (?)`, userID); err != nil {
		s.logger.ErrorContext(ctx, "Error creating content list", "user_id", userID, "error", err)
		return nil, false, fmt.Errorf("failed to create content list for user %d: %w", userID, err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO tag_lists (user_id) VALUES (?)`, userID); err != nil {
		s.logger.ErrorContext(ctx, "Error creating tag list", "user_id", userID, "error", err)
		return nil, false, fmt.Errorf("failed to create tag list for user %d: %w", userID, err)
	}

	var created User
	if err := tx.GetContext(ctx, &created,
		`SELECT id, telegram_user_id, max_contents, max_tags, is_unlimited, created_at
		 FROM users WHERE id = ?`, userID); err != nil {
		return nil, false, fmt.Errorf("failed to read back created user %d: %w", userID, err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit transaction",
			"telegram_user_id", telegramUserID, "error", err)
		return nil, false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil

	s.logger.InfoContext(ctx, "User created", "user_id", created.ID, "telegram_user_id", telegramUserID)
	return &created, true, nil
}

// GetUserByTelegramID retrieves a user by Telegram user ID.
func (s *sqlxStore) GetUserByTelegramID(ctx context.Context, telegramUserID int64) (*User, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var user User
	query := `SELECT id, telegram_user_id, max_contents, max_tags, is_unlimited, created_at
	          FROM users WHERE telegram_user_id = ?`

	err := s.db.GetContext(ctx, &user, query, telegramUserID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.logger.DebugContext(ctx, "No user found", "telegram_user_id", telegramUserID)
		return nil, ErrNotFound

	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting user by telegram ID", "telegram_user_id", telegramUserID, "error", err)
		return nil, fmt.Errorf("failed to get user for telegram ID %d: %w", telegramUserID, err)
	}

	return &user, nil
}

// GetUserByID retrieves a user by internal ID.
func (s *sqlxStore) GetUserByID(ctx context.Context, userID int64) (*User, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var user User
	query := `SELECT id, telegram_user_id, max_contents, max_tags, is_unlimited, created_at
	          FROM users WHERE id = ?`

	err := s.db.GetContext(ctx, &user, query, userID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.logger.DebugContext(ctx, "No user found", "user_id", userID)
		return nil, ErrNotFound

	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting user by ID", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}

	return &user, nil
}

// DeleteUser deletes a user row. Foreign keys cascade the delete through the
// lists to contents, tags, and content_tags.
func (s *sqlxStore) DeleteUser(ctx context.Context, userID int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting user", "user_id", userID, "error", err)
		return fmt.Errorf("failed to delete user %d: %w", userID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows for user delete: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	s.logger.InfoContext(ctx, "User deleted", "user_id", userID)
	return nil
}

// CreateContent creates a content item in the user's content list.
func (s *sqlxStore) CreateContent(ctx context.Context, userID int64, name string) (*Content, error) {
	listID, err := s.contentListID(ctx, userID)
	if err != nil {
		return nil, err
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO contents (name, list_id) VALUES (?, ?)`, name, listID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error creating content", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to create content for user %d: %w", userID, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get new content ID: %w", err)
	}

	s.logger.DebugContext(ctx, "Content created", "user_id", userID, "content_id", id)
	return &Content{ID: id, Name: name, ListID: listID}, nil
}

// GetContentsByUser retrieves all contents owned by the user.
func (s *sqlxStore) GetContentsByUser(ctx context.Context, userID int64) ([]Content, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	contents := []Content{}
	query := `SELECT c.id, c.name, c.list_id
	          FROM contents c
	          JOIN content_lists l ON l.id = c.list_id
	          WHERE l.user_id = ?
	          ORDER BY c.id`

	if err := s.db.SelectContext(ctx, &contents, query, userID); err != nil {
		s.logger.ErrorContext(ctx, "Error getting contents", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get contents for user %d: %w", userID, err)
	}

	return contents, nil
}

// CountContents returns the number of contents owned by the user.
func (s *sqlxStore) CountContents(ctx context.Context, userID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*)
	          FROM contents c
	          JOIN content_lists l ON l.id = c.list_id
	          WHERE l.user_id = ?`

	if err := s.db.GetContext(ctx, &count, query, userID); err != nil {
		s.logger.ErrorContext(ctx, "Error counting contents", "user_id", userID, "error", err)
		return 0, fmt.Errorf("failed to count contents for user %d: %w", userID, err)
	}

	return count, nil
}

// DeleteContent deletes a content owned by the user.
func (s *sqlxStore) DeleteContent(ctx context.Context, userID int64, contentID int64) error {
	query := `DELETE FROM contents
	          WHERE id = ?
	          AND list_id IN (SELECT id FROM content_lists WHERE user_id = ?)`

	result, err := s.db.ExecContext(ctx, query, contentID, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting content", "user_id", userID, "content_id", contentID, "error", err)
		return fmt.Errorf("failed to delete content %d for user %d: %w", contentID, userID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows for content delete: %w", err)
	}
	if affected == 0 {
		s.logger.DebugContext(ctx, "Content not found for delete", "user_id", userID, "content_id", contentID)
		return ErrNotFound
	}

	s.logger.DebugContext(ctx, "Content deleted", "user_id", userID, "content_id", contentID)
	return nil
}

// CreateTag creates a tag in the user's tag list.
func (s *sqlxStore) CreateTag(ctx context.Context, userID int64, name string) (*Tag, error) {
	listID, err := s.tagListID(ctx, userID)
	if err != nil {
		return nil, err
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO tags (name, list_id) VALUES (?, ?)`, name, listID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error creating tag", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to create tag for user %d: %w", userID, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get new tag ID: %w", err)
	}

	s.logger.DebugContext(ctx, "Tag created", "user_id", userID, "tag_id", id)
	return &Tag{ID: id, Name: name, ListID: listID}, nil
}

// GetTagsByUser retrieves all tags owned by the user.
func (s *sqlxStore) GetTagsByUser(ctx context.Context, userID int64) ([]Tag, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	tags := []Tag{}
	query := `SELECT t.id, t.name, t.list_id
	          FROM tags t
	          JOIN tag_lists l ON l.id = t.list_id
	          WHERE l.user_id = ?
	          ORDER BY t.id`

	if err := s.db.SelectContext(ctx, &tags, query, userID); err != nil {
		s.logger.ErrorContext(ctx, "Error getting tags", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get tags for user %d: %w", userID, err)
	}

	return tags, nil
}

// CountTags returns the number of tags owned by the user.
func (s *sqlxStore) CountTags(ctx context.Context, userID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*)
	          FROM tags t
	          JOIN tag_lists l ON l.id = t.list_id
	          WHERE l.user_id = ?`

	if err := s.db.GetContext(ctx, &count, query, userID); err != nil {
		s.logger.ErrorContext(ctx, "Error counting tags", "user_id", userID, "error", err)
		return 0, fmt.Errorf("failed to count tags for user %d: %w", userID, err)
	}

	return count, nil
}

// DeleteTag deletes a tag owned by the user.
func (s *sqlxStore) DeleteTag(ctx context.Context, userID int64, tagID int64) error {
	query := `DELETE FROM tags
	          WHERE id = ?
	          AND list_id IN (SELECT id FROM tag_lists WHERE user_id = ?)`

	result, err := s.db.ExecContext(ctx, query, tagID, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting tag", "user_id", userID, "tag_id", tagID, "error", err)
		return fmt.Errorf("failed to delete tag %d for user %d: %w", tagID, userID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows for tag delete: %w", err)
	}
	if affected == 0 {
		s.logger.DebugContext(ctx, "Tag not found for delete", "user_id", userID, "tag_id", tagID)
		return ErrNotFound
	}

	s.logger.DebugContext(ctx, "Tag deleted", "user_id", userID, "tag_id", tagID)
	return nil
}

// AddTagToContent creates the content/tag association after verifying both
// endpoints belong to the user. INSERT OR IGNORE makes a duplicate add a
// successful no-op.
func (s *sqlxStore) AddTagToContent(ctx context.Context, userID, contentID, tagID int64) error {
	owned, err := s.ownsContentAndTag(ctx, userID, contentID, tagID)
	if err != nil {
		return err
	}
	if !owned {
		s.logger.DebugContext(ctx, "Content or tag not owned by user",
			"user_id", userID, "content_id", contentID, "tag_id", tagID)
		return ErrNotFound
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO content_tags (content_id, tag_id) VALUES (?, ?)`,
		contentID, tagID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error adding tag to content",
			"user_id", userID, "content_id", contentID, "tag_id", tagID, "error", err)
		return fmt.Errorf("failed to add tag %d to content %d: %w", tagID, contentID, err)
	}

	s.logger.DebugContext(ctx, "Tag added to content",
		"user_id", userID, "content_id", contentID, "tag_id", tagID)
	return nil
}

// RemoveTagFromContent removes the association if it exists and is owned by the user.
func (s *sqlxStore) RemoveTagFromContent(ctx context.Context, userID, contentID, tagID int64) error {
	query := `DELETE FROM content_tags
	          WHERE content_id = ? AND tag_id = ?
	          AND content_id IN (
	              SELECT c.id FROM contents c
	              JOIN content_lists l ON l.id = c.list_id
	              WHERE l.user_id = ?
	          )`

	result, err := s.db.ExecContext(ctx, query, contentID, tagID, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error removing tag from content",
			"user_id", userID, "content_id", contentID, "tag_id", tagID, "error", err)
		return fmt.Errorf("failed to remove tag %d from content %d: %w", tagID, contentID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows for association delete: %w", err)
	}
	if affected == 0 {
		s.logger.DebugContext(ctx, "Association not found for delete",
			"user_id", userID, "content_id", contentID, "tag_id", tagID)
		return ErrNotFound
	}

	s.logger.DebugContext(ctx, "Tag removed from content",
		"user_id", userID, "content_id", contentID, "tag_id", tagID)
	return nil
}

// GetTagsForContent retrieves the tags associated with a content owned by the user.
func (s *sqlxStore) GetTagsForContent(ctx context.Context, userID, contentID int64) ([]Tag, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	tags := []Tag{}
	query := `SELECT t.id, t.name, t.list_id
	          FROM tags t
	          JOIN content_tags ct ON ct.tag_id = t.id
	          JOIN contents c ON c.id = ct.content_id
	          JOIN content_lists l ON l.id = c.list_id
	          WHERE l.user_id = ? AND ct.content_id = ?
	          ORDER BY t.id`

	if err := s.db.SelectContext(ctx, &tags, query, userID, contentID); err != nil {
		s.logger.ErrorContext(ctx, "Error getting tags for content",
			"user_id", userID, "content_id", contentID, "error", err)
		return nil, fmt.Errorf("failed to get tags for content %d: %w", contentID, err)
	}

	return tags, nil
}

// GetContentsMatchingAllTags returns the user's contents associated with every
// tag in tagIDs. Edges are grouped by content and a content qualifies when its
// count of distinct matching tags equals len(tagIDs). An empty filter returns
// the unfiltered content list.
func (s *sqlxStore) GetContentsMatchingAllTags(ctx context.Context, userID int64, tagIDs []int64) ([]Content, error) {
	if len(tagIDs) == 0 {
		return s.GetContentsByUser(ctx, userID)
	}

	query, args, err := sqlx.In(`
		SELECT c.id, c.name, c.list_id
		FROM contents c
		JOIN content_lists l ON l.id = c.list_id
		JOIN content_tags ct ON ct.content_id = c.id
		WHERE l.user_id = ? AND ct.tag_id IN (?)
		GROUP BY c.id, c.name, c.list_id
		HAVING COUNT(DISTINCT ct.tag_id) = ?
		ORDER BY c.id`,
		userID, tagIDs, len(tagIDs))
	if err != nil {
		s.logger.ErrorContext(ctx, "Error building tag filter query", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to build tag filter query: %w", err)
	}

	contents := []Content{}
	query = s.db.Rebind(query)
	if err := s.db.SelectContext(ctx, &contents, query, args...); err != nil {
		s.logger.ErrorContext(ctx, "Error getting contents by tag filter",
			"user_id", userID, "tag_count", len(tagIDs), "error", err)
		return nil, fmt.Errorf("failed to get contents matching tags for user %d: %w", userID, err)
	}

	s.logger.DebugContext(ctx, "Filtered contents by tags",
		"user_id", userID, "tag_count", len(tagIDs), "match_count", len(contents))
	return contents, nil
}

// RunSQLMaintenance executes a VACUUM command on the SQLite database.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled or timed out before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")

	_, err := s.db.ExecContext(ctx, "VACUUM;")
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM operation timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)

	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed successfully")
	return nil
}

// contentListID resolves the user's content list, or ErrNotFound for an unknown user.
func (s *sqlxStore) contentListID(ctx context.Context, userID int64) (int64, error) {
	var listID int64
	err := s.db.GetContext(ctx, &listID,
		`SELECT id FROM content_lists WHERE user_id = ?`, userID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return 0, ErrNotFound
	case err != nil:
		return 0, fmt.Errorf("failed to get content list for user %d: %w", userID, err)
	}
	return listID, nil
}

// tagListID resolves the user's tag list, or ErrNotFound for an unknown user.
func (s *sqlxStore) tagListID(ctx context.Context, userID int64) (int64, error) {
	var listID int64
	err := s.db.GetContext(ctx, &listID,
		`SELECT id FROM tag_lists WHERE user_id = ?`, userID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return 0, ErrNotFound
	case err != nil:
		return 0, fmt.Errorf("failed to get tag list for user %d: %w", userID, err)
	}
	return listID, nil
}

// ownsContentAndTag reports whether both the content and the tag belong to the user.
func (s *sqlxStore) ownsContentAndTag(ctx context.Context, userID, contentID, tagID int64) (bool, error) {
	var count int
	query := `SELECT
	          (SELECT COUNT(*) FROM contents c
	           JOIN content_lists cl ON cl.id = c.list_id
	           WHERE c.id = ? AND cl.user_id = ?)
	          +
	          (SELECT COUNT(*) FROM tags t
	           JOIN tag_lists tl ON tl.id = t.list_id
	           WHERE t.id = ? AND tl.user_id = ?)`

	if err := s.db.GetContext(ctx, &count, query, contentID, userID, tagID, userID); err != nil {
		return false, fmt.Errorf("failed to check ownership of content %d and tag %d: %w", contentID, tagID, err)
	}

	return count == 2, nil
}
