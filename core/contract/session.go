package contract

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/gridsnake/v1/core/intent"
)

// submitTimeout 单次成绩提交的整体超时
const submitTimeout = 60 * time.Second

// GameSession 单局游戏会话
//
// 连接游戏循环和成绩提交：开局时装载触发闩锁，游戏结束回调
// 至多触发一次提交，即使碰撞事件被重复上报。
type GameSession struct {
	svc     *Service
	account string
	latch   *intent.TriggerLatch
	logger  *zap.Logger

	// onResult 提交结束后的通知回调（可为空）
	onResult func(*intent.Result, error)
}

// NewGameSession 创建游戏会话
func NewGameSession(svc *Service, account string, onResult func(*intent.Result, error), logger *zap.Logger) *GameSession {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GameSession{
		svc:      svc,
		account:  account,
		latch:    intent.NewTriggerLatch(),
		logger:   logger,
		onResult: onResult,
	}
}

// Start 开始新的一局，装载触发闩锁
func (s *GameSession) Start() {
	s.latch.Arm()
	s.logger.Debug("开局", zap.String("account", s.account))
}

// OnGameOver 游戏结束回调
//
// 返回 true 表示本次回调触发了成绩提交；重复上报的结束事件
// 返回 false 且无副作用。
func (s *GameSession) OnGameOver(finalScore uint64) bool {
	return s.latch.Fire(func() {
		go s.submit(finalScore)
	})
}

func (s *GameSession) submit(score uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
	defer cancel()

	res, err := s.svc.SubmitScore(ctx, s.account, score)
	if err != nil {
		s.logger.Warn("成绩提交失败",
			zap.String("account", s.account),
			zap.Uint64("score", score),
			zap.Error(err))
	} else {
		s.logger.Info("成绩提交确认",
			zap.String("account", s.account),
			zap.Uint64("score", score),
			zap.String("tx_hash", res.TxHash))
	}

	if s.onResult != nil {
		s.onResult(res, err)
	}
}
