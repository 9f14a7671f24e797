// Package quota implements the per-user resource limit checks for contents
// and tags.
package quota

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/edgard/listify/internal/database"
)

// Checker answers whether a user may create another content or tag. It is
// read-only and does not reserve a slot: the check and the subsequent insert
// are separate operations, so concurrent creations can overshoot the limit by
// the number of requests in flight. That window is accepted for a
// single-owner resource.
type Checker struct {
	store  database.Store
	logger *slog.Logger
}

// NewChecker creates a Checker backed by the given store.
func NewChecker(store database.Store, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Checker{
		store:  store,
		logger: logger.With("component", "quota"),
	}
}

// CanAddContent reports whether the user may create another content.
// An unknown user is allowed through, matching the upstream behavior this
// service replaces; creation itself still fails for a user that doesn't
// exist, so nothing is actually created.
func (c *Checker) CanAddContent(ctx context.Context, userID int64) (bool, error) {
	user, err := c.store.GetUserByID(ctx, userID)
	if errors.Is(err, database.ErrNotFound) {
		c.logger.WarnContext(ctx, "Quota check for unknown user, allowing", "user_id", userID)
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load user for content quota check: %w", err)
	}
	if user.IsUnlimited {
		return true, nil
	}

	count, err := c.store.CountContents(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to count contents for quota check: %w", err)
	}

	allowed := count < user.MaxContents
	c.logger.DebugContext(ctx, "Content quota check",
		"user_id", userID, "count", count, "max", user.MaxContents, "allowed", allowed)
	return allowed, nil
}

// CanAddTag reports whether the user may create another tag. The unknown-user
// behavior matches CanAddContent.
func (c *Checker) CanAddTag(ctx context.Context, userID int64) (bool, error) {
	user, err := c.store.GetUserByID(ctx, userID)
	if errors.Is(err, database.ErrNotFound) {
		c.logger.WarnContext(ctx, "Quota check for unknown user, allowing", "user_id", userID)
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load user for tag quota check: %w", err)
	}
	if user.IsUnlimited {
		return true, nil
	}

	count, err := c.store.CountTags(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to count tags for quota check: %w", err)
	}

	allowed := count < user.MaxTags
	c.logger.DebugContext(ctx, "Tag quota check",
		"user_id", userID, "count", count, "max", user.MaxTags, "allowed", allowed)
	return allowed, nil
}
