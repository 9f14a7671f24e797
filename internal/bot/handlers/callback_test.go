package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
		want Callback
	}{
		{
			name: "bare action",
			data: "mainMenu",
			want: Callback{Action: ActionMainMenu},
		},
		{
			name: "content argument",
			data: "content:42",
			want: Callback{Action: ActionContentOptions, ContentID: 42},
		},
		{
			name: "delete content",
			data: "deleteContent:7",
			want: Callback{Action: ActionDeleteContent, ContentID: 7},
		},
		{
			name: "tag argument",
			data: "countTag:3",
			want: Callback{Action: ActionCountTag, TagID: 3},
		},
		{
			name: "two arguments",
			data: "addTagToContent:42:3",
			want: Callback{Action: ActionAddTagToContent, ContentID: 42, TagID: 3},
		},
		{
			name: "extra tokens are ignored",
			data: "removeTagFromContent:42:3:junk",
			want: Callback{Action: ActionRemoveTagFromContent, ContentID: 42, TagID: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseCallback(tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCallbackErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{name: "empty payload", data: ""},
		{name: "unknown action", data: "selfDestruct"},
		{name: "missing argument", data: "deleteContent"},
		{name: "non-numeric argument", data: "deleteContent:abc"},
		{name: "missing second argument", data: "addTagToContent:42"},
		{name: "non-numeric second argument", data: "addTagToContent:42:xyz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseCallback(tt.data)
			assert.ErrorIs(t, err, ErrBadCallback)
		})
	}
}

func TestCallbackEncodeRoundTrip(t *testing.T) {
	t.Parallel()

	callbacks := []Callback{
		{Action: ActionMainMenu},
		{Action: ActionShowFilter},
		{Action: ActionContentOptions, ContentID: 42},
		{Action: ActionShowContentTags, ContentID: 9},
		{Action: ActionDeleteTag, TagID: 3},
		{Action: ActionUncountTag, TagID: 8},
		{Action: ActionAddTagToContent, ContentID: 42, TagID: 3},
		{Action: ActionRemoveTagFromContent, ContentID: 1, TagID: 2},
	}

	for _, cb := range callbacks {
		got, err := ParseCallback(cb.Encode())
		require.NoError(t, err, "payload %q", cb.Encode())
		assert.Equal(t, cb, got)
	}
}
