package database

import "time"

// User represents a registered bot user together with its per-user limits.
// Every user owns exactly one content list and one tag list, created in the
// same transaction as the user row.
type User struct {
	ID             int64     `db:"id"`
	TelegramUserID int64     `db:"telegram_user_id"`
	MaxContents    int       `db:"max_contents"`
	MaxTags        int       `db:"max_tags"`
	IsUnlimited    bool      `db:"is_unlimited"`
	CreatedAt      time.Time `db:"created_at"`
}

// Content is a named bookmark owned (through its list) by a single user.
type Content struct {
	ID     int64  `db:"id"`
	Name   string `db:"name"`
	ListID int64  `db:"list_id"`
}

// Tag is a user-owned label that can be attached to any of the user's contents.
type Tag struct {
	ID     int64  `db:"id"`
	Name   string `db:"name"`
	ListID int64  `db:"list_id"`
}

// ContentTag is one edge of the many-to-many content/tag association.
// The (ContentID, TagID) pair is the primary key; both sides cascade on delete.
type ContentTag struct {
	ContentID int64 `db:"content_id"`
	TagID     int64 `db:"tag_id"`
}
