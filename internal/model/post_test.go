package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostJSONShape(t *testing.T) {
	p := Post{
		ID:        7,
		Username:  "alice",
		Content:   "hello world",
		CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Likes:     []Like{{ID: 3, PostID: 7, Username: "bob"}},
	}
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7,"username":"alice","content":"hello world","createdAt":"2024-05-01T12:00:00Z","likes":[{"id":3,"username":"bob"}]}`, string(raw))
}

func TestPostLikedBy(t *testing.T) {
	p := Post{Likes: []Like{{Username: "bob"}, {Username: "carol"}}}
	assert.True(t, p.LikedBy("bob"))
	assert.False(t, p.LikedBy("alice"))
	assert.Equal(t, 2, p.LikeCount())
}
