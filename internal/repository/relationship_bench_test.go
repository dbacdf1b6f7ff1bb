package repository

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/sns-backend/internal/model"
)

func setupRelBenchDB(b *testing.B) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		b.Fatalf("open db: %v", err)
	}
	if err := model.AutoMigrate(db); err != nil {
		b.Fatalf("migrate: %v", err)
	}
	return db
}

func seedBenchUsers(b *testing.B, db *gorm.DB, n int) []model.User {
	users := make([]model.User, n)
	for i := range users {
		users[i] = model.User{
			ID:       fmt.Sprintf("u%04d", i),
			Username: fmt.Sprintf("u%04d", i),
			Email:    fmt.Sprintf("u%04d@example.com", i),
			Password: "p",
		}
	}
	if err := db.Create(&users).Error; err != nil {
		b.Fatalf("seed users: %v", err)
	}
	return users
}

func BenchmarkFollowWrite_And_FanRedundancy(b *testing.B) {
	db := setupRelBenchDB(b)
	followRepo := NewFollowRepository(db)
	fanRepo := NewFanRepository(db)
	ctx := context.Background()

	users := seedBenchUsers(b, db, 1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		from := users[rand.Intn(len(users))].ID
		to := users[rand.Intn(len(users))].ID
		if from == to {
			continue
		}
		_ = followRepo.Create(ctx, from, to)
		_ = fanRepo.Create(ctx, to, from)
	}
}

func BenchmarkReactionUpsert(b *testing.B) {
	db := setupRelBenchDB(b)
	reactions := NewReactionRepository(db)
	ctx := context.Background()

	users := seedBenchUsers(b, db, 1000)
	post := model.Post{ID: "p0", AuthorID: users[0].ID, Content: "bench"}
	if err := db.Create(&post).Error; err != nil {
		b.Fatalf("seed post: %v", err)
	}

	kinds := []string{model.ReactionLike, model.ReactionDislike}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		u := users[rand.Intn(len(users))].ID
		_ = reactions.Upsert(ctx, u, post.ID, kinds[i%2])
	}
}

func BenchmarkQueryFansAndFollowing(b *testing.B) {
	db := setupRelBenchDB(b)
	followRepo := NewFollowRepository(db)
	fanRepo := NewFanRepository(db)
	ctx := context.Background()

	// 构造：一个用户 u0 有 N 个粉丝，同时 u0 也关注 N 个用户
	const N = 5000
	u0 := model.User{ID: "u0", Username: "u0", Email: "u0@example.com", Password: "p"}
	_ = db.Create(&u0).Error
	for i := 1; i <= N; i++ {
		uid := fmt.Sprintf("u%v", i)
		_ = db.Create(&model.User{ID: uid, Username: uid, Email: uid + "@example.com", Password: "p"}).Error
		_ = followRepo.Create(ctx, uid, u0.ID)
		_ = fanRepo.Create(ctx, u0.ID, uid)
		_ = followRepo.Create(ctx, u0.ID, uid)
		_ = fanRepo.Create(ctx, uid, u0.ID)
	}

	b.ResetTimer()
	b.Run("ListFans", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = fanRepo.ListFans(ctx, u0.ID, 0, 50)
		}
	})

	b.Run("ListFollowings", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = followRepo.ListFollowings(ctx, u0.ID, 0, 50)
		}
	})
}
