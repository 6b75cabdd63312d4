package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/tweetfeed/internal/model"
	"github.com/d60-Lab/tweetfeed/internal/testutil"
)

func TestPostRepository_CreateAndGet(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	p := &model.Post{Username: "alice", Content: "hello world", CreatedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, p))
	assert.NotZero(t, p.ID)
	assert.NotNil(t, p.Likes)
	assert.Empty(t, p.Likes)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "hello world", got.Content)
	assert.NotNil(t, got.Likes)

	_, err = repo.GetByID(ctx, p.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)

	ok, err := repo.Exists(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPostRepository_ListNewestOrder(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	base := time.Now()
	for i, offset := range []time.Duration{0, 2 * time.Second, time.Second, 2 * time.Second} {
		p := &model.Post{Username: "u", Content: string(rune('a' + i)), CreatedAt: base.Add(offset)}
		require.NoError(t, repo.Create(ctx, p))
	}

	list, err := repo.ListNewest(ctx)
	require.NoError(t, err)
	require.Len(t, list, 4)
	for i := 1; i < len(list); i++ {
		assert.False(t, list[i].CreatedAt.After(list[i-1].CreatedAt), "list must be newest first")
	}
	// 同一时间戳按 id 倒序
	assert.Equal(t, "d", list[0].Content)
	assert.Equal(t, "b", list[1].Content)
}

func TestPostRepository_ListEmpty(t *testing.T) {
	repo := NewPostRepository(testutil.NewDB(t))
	list, err := repo.ListNewest(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestLikeRepository_UniquePair(t *testing.T) {
	db := testutil.NewDB(t)
	posts := NewPostRepository(db)
	likes := NewLikeRepository(db)
	ctx := context.Background()

	p := &model.Post{Username: "alice", Content: "x", CreatedAt: time.Now()}
	require.NoError(t, posts.Create(ctx, p))

	created, err := likes.Create(ctx, p.ID, "bob")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = likes.Create(ctx, p.ID, "bob")
	require.NoError(t, err)
	assert.False(t, created, "duplicate like must be absorbed")

	cnt, err := likes.CountByPost(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, cnt)

	l, err := likes.Find(ctx, p.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, "bob", l.Username)

	deleted, err := likes.Delete(ctx, p.ID, "bob")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = likes.Delete(ctx, p.ID, "bob")
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = likes.Find(ctx, p.ID, "bob")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLikeRepository_PreloadedOnPost(t *testing.T) {
	db := testutil.NewDB(t)
	posts := NewPostRepository(db)
	likes := NewLikeRepository(db)
	ctx := context.Background()

	p := &model.Post{Username: "alice", Content: "x", CreatedAt: time.Now()}
	require.NoError(t, posts.Create(ctx, p))
	for _, u := range []string{"bob", "carol", "dave"} {
		_, err := likes.Create(ctx, p.ID, u)
		require.NoError(t, err)
	}

	got, err := posts.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got.Likes, 3)
	assert.Equal(t, "bob", got.Likes[0].Username)
	assert.True(t, got.LikedBy("carol"))
}
