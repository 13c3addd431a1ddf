package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"github.com/gridsnake/v1/core/contract"
)

// refreshTimeout 单次快照刷新的超时
const refreshTimeout = 10 * time.Second

// Refresher 快照刷新器
//
// 按固定节奏从合约拉取比赛信息和排行榜写入快照存储。
// 刷新失败只记录日志，旧快照保留到自然过期。
type Refresher struct {
	svc    *contract.Service
	store  *Store
	sched  gocron.Scheduler
	logger *zap.Logger
}

// NewRefresher 创建快照刷新器
func NewRefresher(svc *contract.Service, store *Store, interval time.Duration, logger *zap.Logger) (*Refresher, error) {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("init scheduler: %w", err)
	}

	r := &Refresher{
		svc:    svc,
		store:  store,
		sched:  sched,
		logger: logger,
	}

	if _, err := sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(r.refresh),
	); err != nil {
		return nil, fmt.Errorf("schedule refresh job: %w", err)
	}

	return r, nil
}

// Start 启动刷新
func (r *Refresher) Start() {
	r.sched.Start()
}

// Stop 停止刷新
func (r *Refresher) Stop() error {
	return r.sched.Shutdown()
}

// RefreshNow 立即刷新一次
func (r *Refresher) RefreshNow() {
	r.refresh()
}

func (r *Refresher) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	if comp, err := r.svc.GetCompetition(ctx); err != nil {
		r.logger.Debug("刷新比赛快照失败", zap.Error(err))
	} else if comp != nil {
		if err := r.store.SetCompetition(comp); err != nil {
			r.logger.Warn("写入比赛快照失败", zap.Error(err))
		}
	}

	if board, err := r.svc.GetLeaderboard(ctx); err != nil {
		r.logger.Debug("刷新排行榜快照失败", zap.Error(err))
	} else if board != nil {
		if err := r.store.SetLeaderboard(board); err != nil {
			r.logger.Warn("写入排行榜快照失败", zap.Error(err))
		}
	}

	if fee, err := r.svc.GetEntryFee(ctx); err != nil {
		r.logger.Debug("刷新入场费快照失败", zap.Error(err))
	} else if fee != nil {
		if err := r.store.SetEntryFee(fee.StringStroops()); err != nil {
			r.logger.Warn("写入入场费快照失败", zap.Error(err))
		}
	}
}
