package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/sns-backend/config"
	"github.com/d60-Lab/sns-backend/internal/cache"
	"github.com/d60-Lab/sns-backend/internal/model"
	"github.com/d60-Lab/sns-backend/internal/repository"
	"github.com/d60-Lab/sns-backend/internal/service"
	"github.com/d60-Lab/sns-backend/pkg/database"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func envInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

// 压测关注/表态写路径与粉丝读路径（读冗余 fans 表）。
func main() {
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))
	if err := model.AutoMigrate(db); err != nil {
		panic(err)
	}

	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	fanRepo := repository.NewFanRepository(db)
	reactionRepo := repository.NewReactionRepository(db)

	followers := cache.NewFollowers(db, nil, fanRepo, 0)
	replicator := service.NewFanReplicator(fanRepo, 100000)
	stop := replicator.Start(8)
	relSvc := service.NewRelationshipService(userRepo, followRepo, followers, replicator)

	ctx := context.Background()
	N := envInt("N", 5000)
	CONC := envInt("CONC", 8)
	PAGE := envInt("PAGE", 50)

	// seed: celeb 为大 V，其余用户关注它
	hash := must(bcrypt.GenerateFromPassword([]byte("password1"), bcrypt.MinCost))
	celeb := model.User{ID: "u0", Username: "u0", Email: "u0@example.com", Password: string(hash)}
	_ = db.Where("id = ?", celeb.ID).FirstOrCreate(&celeb).Error
	users := make([]model.User, N)
	for i := 0; i < N; i++ {
		id := uuid.New().String()
		users[i] = model.User{ID: id, Username: "u" + id[:8], Email: id[:8] + "@example.com", Password: string(hash)}
	}
	batch := 1000
	for i := 0; i < N; i += batch {
		end := i + batch
		if end > N {
			end = N
		}
		sub := users[i:end]
		_ = db.Create(&sub).Error
	}

	// follow path with CONC workers
	feed := make(chan int, N)
	for i := 0; i < N; i++ {
		feed <- i
	}
	close(feed)
	latCh := make(chan time.Duration, N)
	done := make(chan struct{}, CONC)
	t0 := time.Now()
	for w := 0; w < CONC; w++ {
		go func() {
			for i := range feed {
				st := time.Now()
				_ = relSvc.Follow(ctx, users[i].ID, celeb.ID)
				latCh <- time.Since(st)
			}
			done <- struct{}{}
		}()
	}
	for w := 0; w < CONC; w++ {
		<-done
	}
	close(latCh)
	var lats []time.Duration
	for d := range latCh {
		lats = append(lats, d)
	}
	followDur := time.Since(t0)

	// reaction path: upsert like 再翻转一半为 dislike
	post := model.Post{ID: uuid.New().String(), AuthorID: celeb.ID, Content: "bench"}
	_ = db.Create(&post).Error
	t1 := time.Now()
	for i := 0; i < N; i++ {
		_ = reactionRepo.Upsert(ctx, users[i].ID, post.ID, model.ReactionLike)
	}
	for i := 0; i < N/2; i++ {
		_ = reactionRepo.Upsert(ctx, users[i].ID, post.ID, model.ReactionDislike)
	}
	reactDur := time.Since(t1)

	// 等复制落地后读一页粉丝
	_ = stop(context.Background())
	q0 := time.Now()
	page := must(followers.ListFollowers(ctx, celeb.ID, 1, PAGE))
	fansDur := time.Since(q0)

	pct := func(vs []time.Duration, p float64) time.Duration {
		if len(vs) == 0 {
			return 0
		}
		xs := append([]time.Duration(nil), vs...)
		sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
		k := int(math.Ceil(p*float64(len(xs)))) - 1
		if k < 0 {
			k = 0
		}
		return xs[k]
	}

	fmt.Printf("N=%d, CONC=%d, PAGE=%d\n", N, CONC, PAGE)
	fmt.Printf("Follow total: %v, per op: %v, p50: %v, p95: %v, p99: %v\n",
		followDur, followDur/time.Duration(N), pct(lats, 0.50), pct(lats, 0.95), pct(lats, 0.99))
	fmt.Printf("Reaction upserts (%d ops): %v\n", N+N/2, reactDur)
	fmt.Printf("Follower page(%d): %v, rows=%d\n", PAGE, fansDur, len(page))
}
