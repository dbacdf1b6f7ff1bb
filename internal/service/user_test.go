package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/d60-Lab/sns-backend/internal/model"
	"github.com/d60-Lab/sns-backend/internal/repository"
)

func newUserFixture(t *testing.T) (*UserService, *gorm.DB) {
	db := setupDB(t)
	users := repository.NewUserRepository(db)
	posts := repository.NewPostRepository(db)
	reactions := repository.NewReactionRepository(db)
	return NewUserService(users, posts, NewPostViewAssembler(reactions)), db
}

func TestRegister(t *testing.T) {
	svc, _ := newUserFixture(t)

	u, err := svc.Register(ctxb(), "alice", " ALICE@Example.COM ", "password1")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("password1")))
	assert.NotEqual(t, "password1", u.Password)
}

func TestRegisterDuplicate(t *testing.T) {
	svc, _ := newUserFixture(t)

	_, err := svc.Register(ctxb(), "alice", "alice@example.com", "password1")
	require.NoError(t, err)

	_, err = svc.Register(ctxb(), "alice", "other@example.com", "password1")
	assert.ErrorIs(t, err, ErrUserExists)

	_, err = svc.Register(ctxb(), "other", "alice@example.com", "password1")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestUserUpdateSelfOnly(t *testing.T) {
	svc, db := newUserFixture(t)
	seedUser(t, db, "alice", "p")
	seedUser(t, db, "bob", "p")

	_, err := svc.Update(ctxb(), "bob", "alice", UserUpdate{Username: "hacked"})
	assert.ErrorIs(t, err, ErrForbidden)

	u, err := svc.Update(ctxb(), "alice", "alice", UserUpdate{Email: "NEW@Example.com", Password: "newpass1"})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", u.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("newpass1")))
}

// 删号级联：帖子、评论、表态与双向社交边一并清理。
func TestUserDeleteCascades(t *testing.T) {
	svc, db := newUserFixture(t)
	seedUser(t, db, "alice", "p")
	seedUser(t, db, "bob", "p")

	require.NoError(t, db.Create(&model.Post{ID: "p1", AuthorID: "alice", Content: "x"}).Error)
	require.NoError(t, db.Create(&model.Comment{ID: "c1", PostID: "p1", AuthorID: "bob", Content: "y"}).Error)
	require.NoError(t, db.Create(&model.Reaction{ID: "r1", UserID: "bob", PostID: "p1", Kind: model.ReactionLike}).Error)
	require.NoError(t, db.Create(&model.Follow{ID: "f1", FollowerID: "bob", FolloweeID: "alice"}).Error)
	require.NoError(t, db.Create(&model.Fan{ID: "fan1", UserID: "alice", FanID: "bob"}).Error)

	assert.ErrorIs(t, svc.Delete(ctxb(), "bob", "alice"), ErrForbidden)
	require.NoError(t, svc.Delete(ctxb(), "alice", "alice"))

	for _, probe := range []struct {
		name  string
		model any
	}{
		{"posts", &model.Post{}},
		{"comments", &model.Comment{}},
		{"reactions", &model.Reaction{}},
		{"follows", &model.Follow{}},
		{"fans", &model.Fan{}},
	} {
		var cnt int64
		require.NoError(t, db.Model(probe.model).Count(&cnt).Error)
		assert.EqualValues(t, 0, cnt, probe.name)
	}

	_, err := svc.Get(ctxb(), "alice")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestWall(t *testing.T) {
	svc, db := newUserFixture(t)
	seedUser(t, db, "alice", "p")
	seedUser(t, db, "bob", "p")
	require.NoError(t, db.Create(&model.Post{ID: "p1", AuthorID: "alice", Content: "mine"}).Error)
	require.NoError(t, db.Create(&model.Post{ID: "p2", AuthorID: "bob", Content: "theirs"}).Error)

	views, err := svc.Wall(ctxb(), "alice", 1, 10)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "p1", views[0].ID)

	_, err = svc.Wall(ctxb(), "ghost", 1, 10)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
