package bot

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/edgard/listify/internal/database"
)

type unreachableStore struct {
	database.Store
}

func (unreachableStore) Ping(context.Context) error {
	return errors.New("connection refused")
}

func TestRunFailsFastWhenDatabaseUnreachable(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	b := NewBot(log, unreachableStore{}, nil, nil)

	err := b.Run(context.Background())
	assert.ErrorContains(t, err, "database ping failed",
		"components must not start when the database is down")
}
