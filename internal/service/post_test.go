package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/sns-backend/internal/model"
	"github.com/d60-Lab/sns-backend/internal/repository"
)

func newPostFixture(t *testing.T) (*PostService, *gorm.DB) {
	db := setupDB(t)
	posts := repository.NewPostRepository(db)
	reactions := repository.NewReactionRepository(db)
	svc := NewPostService(posts, reactions, NewPostViewAssembler(reactions))
	seedUser(t, db, "alice", "p")
	seedUser(t, db, "bob", "p")
	return svc, db
}

func TestPostCRUD(t *testing.T) {
	svc, _ := newPostFixture(t)

	p, err := svc.Create(ctxb(), "alice", "hello")
	require.NoError(t, err)

	view, err := svc.Get(ctxb(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", view.Content)
	assert.Empty(t, view.LikedBy)
	assert.Empty(t, view.DislikedBy)

	upd, err := svc.Update(ctxb(), "alice", p.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", upd.Content)

	require.NoError(t, svc.Delete(ctxb(), "alice", p.ID))
	_, err = svc.Get(ctxb(), p.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

// 非作者改/删：403；不存在的帖子先于鉴权返回 404。
func TestPostOwnership(t *testing.T) {
	svc, _ := newPostFixture(t)

	p, err := svc.Create(ctxb(), "alice", "hello")
	require.NoError(t, err)

	_, err = svc.Update(ctxb(), "bob", p.ID, "hijack")
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctxb(), "bob", p.ID), ErrForbidden)

	_, err = svc.Update(ctxb(), "bob", "missing", "x")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

// like 与 dislike 互斥：点踩直接翻转已有的点赞，始终只有一行。
func TestReactionExclusive(t *testing.T) {
	svc, db := newPostFixture(t)

	p, err := svc.Create(ctxb(), "alice", "hello")
	require.NoError(t, err)

	require.NoError(t, svc.Like(ctxb(), "bob", p.ID))
	require.NoError(t, svc.Dislike(ctxb(), "bob", p.ID))

	var rows []model.Reaction
	require.NoError(t, db.Where("post_id = ?", p.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, model.ReactionDislike, rows[0].Kind)

	view, err := svc.Get(ctxb(), p.ID)
	require.NoError(t, err)
	assert.Empty(t, view.LikedBy)
	require.Len(t, view.DislikedBy, 1)
	assert.Equal(t, "bob", view.DislikedBy[0].ID)
}

// unlike 只清点赞，不碰点踩；重复点赞幂等。
func TestReactionRemoval(t *testing.T) {
	svc, db := newPostFixture(t)

	p, err := svc.Create(ctxb(), "alice", "hello")
	require.NoError(t, err)

	require.NoError(t, svc.Dislike(ctxb(), "bob", p.ID))
	// 方向不符的移除是 no-op
	require.NoError(t, svc.Unlike(ctxb(), "bob", p.ID))

	var cnt int64
	require.NoError(t, db.Model(&model.Reaction{}).Where("post_id = ?", p.ID).Count(&cnt).Error)
	assert.EqualValues(t, 1, cnt)

	require.NoError(t, svc.Undislike(ctxb(), "bob", p.ID))
	require.NoError(t, db.Model(&model.Reaction{}).Where("post_id = ?", p.ID).Count(&cnt).Error)
	assert.EqualValues(t, 0, cnt)

	// 对无表态的帖子移除同样成功
	require.NoError(t, svc.Undislike(ctxb(), "bob", p.ID))
}

func TestReactionOnMissingPost(t *testing.T) {
	svc, _ := newPostFixture(t)

	assert.ErrorIs(t, svc.Like(ctxb(), "bob", "missing"), ErrPostNotFound)
	assert.ErrorIs(t, svc.Unlike(ctxb(), "bob", "missing"), ErrPostNotFound)
}

// feed 新帖在前，批量挂载作者与表态。
func TestFeed(t *testing.T) {
	svc, _ := newPostFixture(t)

	first, err := svc.Create(ctxb(), "alice", "first")
	require.NoError(t, err)
	second, err := svc.Create(ctxb(), "bob", "second")
	require.NoError(t, err)
	require.NoError(t, svc.Like(ctxb(), "alice", second.ID))

	views, err := svc.Feed(ctxb(), 1, 10)
	require.NoError(t, err)
	require.Len(t, views, 2)
	ids := []string{views[0].ID, views[1].ID}
	assert.ElementsMatch(t, []string{first.ID, second.ID}, ids)
	for _, v := range views {
		if v.ID == second.ID {
			require.Len(t, v.LikedBy, 1)
			assert.Equal(t, "alice", v.LikedBy[0].ID)
		}
	}
}
