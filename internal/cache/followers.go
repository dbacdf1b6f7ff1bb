// Package cache provides the redis-backed read path for follower lists.
// Adapted strategy: cache the full ordered fan-ID list per user as a redis
// list, page with LRANGE, hydrate user rows from the DB in one IN query.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/sns-backend/internal/model"
	"github.com/d60-Lab/sns-backend/internal/repository"
	"github.com/d60-Lab/sns-backend/pkg/logger"
)

const indexKeyFmt = "followers:index:%s"

// Followers serves follower pages. With a nil redis client every read goes
// straight to the fans table.
type Followers struct {
	db   *gorm.DB
	rdb  *redis.Client
	fans repository.FanRepository
	ttl  time.Duration
}

func NewFollowers(db *gorm.DB, rdb *redis.Client, fans repository.FanRepository, ttl time.Duration) *Followers {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Followers{db: db, rdb: rdb, fans: fans, ttl: ttl}
}

// ListFollowers returns one page of follower snapshots, newest first.
func (f *Followers) ListFollowers(ctx context.Context, userID string, page, size int) ([]model.UserRef, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}
	start := (page - 1) * size

	if f.rdb == nil {
		return f.queryPage(ctx, userID, start, size)
	}

	key := fmt.Sprintf(indexKeyFmt, userID)
	ids, err := f.rdb.LRange(ctx, key, int64(start), int64(start+size-1)).Result()
	if err != nil || len(ids) == 0 {
		// miss: rebuild the index list from the fans table
		all, lErr := f.fans.ListFanIDs(ctx, userID)
		if lErr != nil {
			return nil, lErr
		}
		f.storeIndex(ctx, key, all)
		if start >= len(all) {
			return []model.UserRef{}, nil
		}
		end := start + size
		if end > len(all) {
			end = len(all)
		}
		ids = all[start:end]
	}
	return f.hydrate(ctx, ids)
}

// Invalidate drops the cached index for a user; the next read rebuilds it.
func (f *Followers) Invalidate(ctx context.Context, userID string) {
	if f.rdb == nil {
		return
	}
	if err := f.rdb.Del(ctx, fmt.Sprintf(indexKeyFmt, userID)).Err(); err != nil {
		logger.Warn("follower cache invalidation failed", zap.String("user", userID), zap.Error(err))
	}
}

func (f *Followers) storeIndex(ctx context.Context, key string, ids []string) {
	if len(ids) == 0 {
		return
	}
	vals := make([]any, len(ids))
	for i, id := range ids {
		vals[i] = id
	}
	pipe := f.rdb.Pipeline()
	pipe.Del(ctx, key)
	pipe.RPush(ctx, key, vals...)
	pipe.Expire(ctx, key, f.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Warn("follower cache store failed", zap.String("key", key), zap.Error(err))
	}
}

// hydrate loads user snapshots preserving the input order.
func (f *Followers) hydrate(ctx context.Context, ids []string) ([]model.UserRef, error) {
	if len(ids) == 0 {
		return []model.UserRef{}, nil
	}
	var users []model.User
	if err := f.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]model.UserRef, len(users))
	for _, u := range users {
		byID[u.ID] = u.Ref()
	}
	out := make([]model.UserRef, 0, len(ids))
	for _, id := range ids {
		if ref, ok := byID[id]; ok {
			out = append(out, ref)
		}
	}
	return out, nil
}

func (f *Followers) queryPage(ctx context.Context, userID string, offset, limit int) ([]model.UserRef, error) {
	var rows []model.UserRef
	err := f.db.WithContext(ctx).
		Table("fans").
		Select("users.id", "users.username", "users.email").
		Joins("JOIN users ON fans.fan_id = users.id").
		Where("fans.user_id = ?", userID).
		Order("fans.created_at DESC").
		Offset(offset).Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []model.UserRef{}
	}
	return rows, nil
}
