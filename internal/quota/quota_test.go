package quota_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/listify/internal/database"
	"github.com/edgard/listify/internal/quota"
)

// fakeStore stubs only the Store methods the quota checker touches; the
// embedded interface panics on anything else.
type fakeStore struct {
	database.Store

	user     *database.User
	userErr  error
	contents int
	tags     int
	countErr error
}

func (f *fakeStore) GetUserByID(_ context.Context, _ int64) (*database.User, error) {
	return f.user, f.userErr
}

func (f *fakeStore) CountContents(_ context.Context, _ int64) (int, error) {
	return f.contents, f.countErr
}

func (f *fakeStore) CountTags(_ context.Context, _ int64) (int, error) {
	return f.tags, f.countErr
}

func TestCanAddContent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		store   *fakeStore
		want    bool
		wantErr bool
	}{
		{
			name:  "unknown user is allowed through",
			store: &fakeStore{userErr: database.ErrNotFound},
			want:  true,
		},
		{
			name:  "unlimited user ignores the count",
			store: &fakeStore{user: &database.User{ID: 1, MaxContents: 1, IsUnlimited: true}, contents: 100},
			want:  true,
		},
		{
			name:  "below the limit",
			store: &fakeStore{user: &database.User{ID: 1, MaxContents: 50}, contents: 49},
			want:  true,
		},
		{
			name:  "at the limit",
			store: &fakeStore{user: &database.User{ID: 1, MaxContents: 50}, contents: 50},
			want:  false,
		},
		{
			name:    "lookup failure propagates",
			store:   &fakeStore{userErr: errors.New("boom")},
			wantErr: true,
		},
		{
			name:    "count failure propagates",
			store:   &fakeStore{user: &database.User{ID: 1, MaxContents: 50}, countErr: errors.New("boom")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			checker := quota.NewChecker(tt.store, nil)
			got, err := checker.CanAddContent(context.Background(), 1)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanAddTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		store *fakeStore
		want  bool
	}{
		{
			name:  "unknown user is allowed through",
			store: &fakeStore{userErr: database.ErrNotFound},
			want:  true,
		},
		{
			name:  "unlimited user ignores the count",
			store: &fakeStore{user: &database.User{ID: 1, MaxTags: 1, IsUnlimited: true}, tags: 5},
			want:  true,
		},
		{
			name:  "below the limit",
			store: &fakeStore{user: &database.User{ID: 1, MaxTags: 20}, tags: 19},
			want:  true,
		},
		{
			name:  "at the limit",
			store: &fakeStore{user: &database.User{ID: 1, MaxTags: 20}, tags: 20},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			checker := quota.NewChecker(tt.store, nil)
			got, err := checker.CanAddTag(context.Background(), 1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
