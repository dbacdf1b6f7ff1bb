package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/sns-backend/internal/repository"
	"github.com/d60-Lab/sns-backend/pkg/logger"
)

type replicateAction int

const (
	actionAdd replicateAction = iota + 1
	actionRemove
)

type replicateJob struct {
	action replicateAction
	userID string
	fanID  string
}

// FanReplicator 本地异步冗余执行器：把 Follow 写扩散到 fans 表，
// 并在落地后使对应用户的粉丝列表缓存失效。
type FanReplicator struct {
	fanRepo     repository.FanRepository
	ch          chan replicateJob
	invalidate  func(ctx context.Context, userID string)
	jobTimeout  time.Duration
}

func NewFanReplicator(fanRepo repository.FanRepository, queueSize int) *FanReplicator {
	if queueSize <= 0 {
		queueSize = 10000
	}
	return &FanReplicator{
		fanRepo:    fanRepo,
		ch:         make(chan replicateJob, queueSize),
		jobTimeout: 5 * time.Second,
	}
}

// OnReplicated 注册落地后的回调（粉丝缓存失效用）。
func (r *FanReplicator) OnReplicated(fn func(ctx context.Context, userID string)) {
	r.invalidate = fn
}

// Start 启动 worker，返回停止函数；停止时等待队列自然排空一小段时间。
func (r *FanReplicator) Start(workers int) func(context.Context) error {
	if workers <= 0 {
		workers = 4
	}
	stopCh := make(chan struct{})
	for i := 0; i < workers; i++ {
		go r.run(stopCh)
	}
	return func(ctx context.Context) error {
		close(stopCh)
		timeout := time.After(2 * time.Second)
		for {
			select {
			case <-timeout:
				return nil
			default:
				if len(r.ch) == 0 {
					return nil
				}
				time.Sleep(50 * time.Millisecond)
			}
		}
	}
}

func (r *FanReplicator) run(stopCh <-chan struct{}) {
	for {
		select {
		case job := <-r.ch:
			r.apply(job)
		case <-stopCh:
			return
		}
	}
}

func (r *FanReplicator) apply(job replicateJob) {
	ctx, cancel := context.WithTimeout(context.Background(), r.jobTimeout)
	defer cancel()

	var err error
	switch job.action {
	case actionAdd:
		err = r.fanRepo.Create(ctx, job.userID, job.fanID)
	case actionRemove:
		err = r.fanRepo.Delete(ctx, job.userID, job.fanID)
	}
	if err != nil {
		logger.Warn("fan replication failed",
			zap.String("user", job.userID), zap.String("fan", job.fanID), zap.Error(err))
		return
	}
	if r.invalidate != nil {
		r.invalidate(ctx, job.userID)
	}
}

func (r *FanReplicator) EnqueueAdd(userID, fanID string) {
	select {
	case r.ch <- replicateJob{action: actionAdd, userID: userID, fanID: fanID}:
	default:
		logger.Warn("replicator queue full, drop add", zap.String("user", userID), zap.String("fan", fanID))
	}
}

func (r *FanReplicator) EnqueueRemove(userID, fanID string) {
	select {
	case r.ch <- replicateJob{action: actionRemove, userID: userID, fanID: fanID}:
	default:
		logger.Warn("replicator queue full, drop remove", zap.String("user", userID), zap.String("fan", fanID))
	}
}

// QueueLen 当前队列长度（采样值）。
func (r *FanReplicator) QueueLen() int { return len(r.ch) }
