package service

import (
	"github.com/d60-Lab/sns-backend/internal/model"
	"github.com/d60-Lab/sns-backend/pkg/apperr"
)

// ErrForbidden 身份有效但权限不足。
var ErrForbidden = apperr.Forbidden("Forbidden")

// 所有权判定：纯谓词，不做 IO。资源是否存在由调用方先行检查。

// CanMutatePost 仅作者可改/删帖子。
func CanMutatePost(actorID string, p *model.Post) bool {
	return actorID == p.AuthorID
}

// CanUpdateComment 仅评论作者可改。
func CanUpdateComment(actorID string, c *model.Comment) bool {
	return actorID == c.AuthorID
}

// CanDeleteComment 评论作者或帖子作者均可删（双主体规则，与更新不对称）。
// post 为 nil 时仅按评论作者判定。
func CanDeleteComment(actorID string, c *model.Comment, post *model.Post) bool {
	if actorID == c.AuthorID {
		return true
	}
	return post != nil && actorID == post.AuthorID
}

// CanMutateUser 仅本人可改/删账号。
func CanMutateUser(actorID, userID string) bool {
	return actorID == userID
}
