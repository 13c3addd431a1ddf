package contract

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gridsnake/v1/core/builder"
	"github.com/gridsnake/v1/core/encoding"
	"github.com/gridsnake/v1/core/intent"
	"github.com/gridsnake/v1/core/transport"
)

// 合约函数名
const (
	fnGetCompetition    = "get_competition"
	fnGetLeaderboard    = "get_leaderboard"
	fnGetPlayerStats    = "get_player_stats"
	fnGetEntryFee       = "get_entry_fee"
	fnHasPaid           = "has_paid"
	fnPayEntryFee       = "pay_entry_fee"
	fnSubmitScore       = "submit_score"
	fnCreateCompetition = "create_competition"
	fnEndCompetition    = "end_competition"
)

// Service 比赛合约服务
//
// 读操作使用合成账户做只读模拟，不签名不提交；
// 写操作生成意图交给编排器执行。
type Service struct {
	contractAddr string
	client       transport.Client
	builder      *builder.TxBuilder
	orch         *intent.Orchestrator
	logger       *zap.Logger
}

// NewService 创建合约服务
func NewService(contractAddr string, client transport.Client, txBuilder *builder.TxBuilder, orch *intent.Orchestrator, logger *zap.Logger) (*Service, error) {
	if _, err := encoding.Address("contract", contractAddr); err != nil {
		return nil, fmt.Errorf("contract address: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		contractAddr: contractAddr,
		client:       client,
		builder:      txBuilder,
		orch:         orch,
		logger:       logger,
	}, nil
}

// Orchestrator 底层意图编排器
func (s *Service) Orchestrator() *intent.Orchestrator {
	return s.orch
}

// ===== 读操作 =====

// readCall 只读模拟调用
func (s *Service) readCall(ctx context.Context, function string, args ...encoding.Value) (*encoding.Value, error) {
	inv, err := encoding.NewInvocation(s.contractAddr, function, args...)
	if err != nil {
		return nil, err
	}

	tx, err := s.builder.BuildReadOnly(inv)
	if err != nil {
		return nil, err
	}
	envelope, err := tx.Envelope()
	if err != nil {
		return nil, err
	}

	sim, err := s.client.SimulateTransaction(ctx, envelope)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", function, err)
	}
	if !sim.Success {
		return nil, &intent.SimulationError{Message: sim.Error}
	}
	return sim.ReturnValue, nil
}

// GetCompetition 查询当前比赛（无比赛时返回 nil）
func (s *Service) GetCompetition(ctx context.Context) (*Competition, error) {
	ret, err := s.readCall(ctx, fnGetCompetition)
	if err != nil {
		return nil, err
	}
	if ret == nil || ret.IsVoid() {
		return nil, nil
	}
	return CompetitionFromValue(*ret)
}

// GetLeaderboard 查询排行榜
func (s *Service) GetLeaderboard(ctx context.Context) ([]*PlayerStanding, error) {
	ret, err := s.readCall(ctx, fnGetLeaderboard)
	if err != nil {
		return nil, err
	}
	if ret == nil || ret.IsVoid() {
		return nil, nil
	}
	return StandingsFromValue(*ret)
}

// GetPlayerStats 查询玩家战绩（未参赛时返回 nil）
func (s *Service) GetPlayerStats(ctx context.Context, account string) (*PlayerStanding, error) {
	addr, err := encoding.Address("account", account)
	if err != nil {
		return nil, err
	}
	ret, err := s.readCall(ctx, fnGetPlayerStats, addr)
	if err != nil {
		return nil, err
	}
	if ret == nil || ret.IsVoid() {
		return nil, nil
	}
	return StandingFromValue(*ret)
}

// GetEntryFee 查询入场费
func (s *Service) GetEntryFee(ctx context.Context) (*builder.Amount, error) {
	ret, err := s.readCall(ctx, fnGetEntryFee)
	if err != nil {
		return nil, err
	}
	if ret == nil {
		return nil, fmt.Errorf("%s: empty return value", fnGetEntryFee)
	}
	raw, err := ret.AsI128()
	if err != nil {
		return nil, err
	}
	return builder.NewAmountFromBigInt(raw)
}

// HasPaid 查询账户是否已支付入场费（链上视角）
func (s *Service) HasPaid(ctx context.Context, account string) (bool, error) {
	addr, err := encoding.Address("account", account)
	if err != nil {
		return false, err
	}
	ret, err := s.readCall(ctx, fnHasPaid, addr)
	if err != nil {
		return false, err
	}
	if ret == nil {
		return false, fmt.Errorf("%s: empty return value", fnHasPaid)
	}
	return ret.AsBool()
}

// ===== 写操作 =====

// PayEntryFee 支付入场费
//
// 确认后打开账户的入场门禁，允许一次成绩提交。
func (s *Service) PayEntryFee(ctx context.Context, account string) (*intent.Result, error) {
	addr, err := encoding.Address("account", account)
	if err != nil {
		return nil, err
	}
	inv, err := encoding.NewInvocation(s.contractAddr, fnPayEntryFee, addr)
	if err != nil {
		return nil, err
	}

	return s.orch.Run(ctx, &intent.Request{
		Kind:           intent.KindPayEntry,
		Account:        account,
		Invocation:     inv,
		OpensEntryGate: true,
	})
}

// SubmitScore 提交成绩
//
// 仅在入场门禁已开时受理；确认后关闭门禁，一次支付对应一次提交。
func (s *Service) SubmitScore(ctx context.Context, account string, score uint64) (*intent.Result, error) {
	addr, err := encoding.Address("account", account)
	if err != nil {
		return nil, err
	}
	inv, err := encoding.NewInvocation(s.contractAddr, fnSubmitScore, addr, encoding.U64(score))
	if err != nil {
		return nil, err
	}

	return s.orch.Run(ctx, &intent.Request{
		Kind:                 intent.KindSubmitScore,
		Account:              account,
		Invocation:           inv,
		RequiresEntryPayment: true,
		ConsumesEntryGate:    true,
	})
}

// CreateCompetitionParams 创建比赛参数
type CreateCompetitionParams struct {
	Admin     string
	SessionID int64
	Deadline  int64 // unix 秒
	EntryFee  *builder.Amount
}

// CreateCompetition 创建比赛（管理员操作）
//
// 参数越界直接拒绝，不做静默截断。同一 sessionId 的重复创建
// 在客户端不去重，唯一性由合约保证。
func (s *Service) CreateCompetition(ctx context.Context, params CreateCompetitionParams) (*intent.Result, error) {
	admin, err := encoding.Address("admin", params.Admin)
	if err != nil {
		return nil, err
	}
	sessionID, err := encoding.U32FromInt("session_id", params.SessionID)
	if err != nil {
		return nil, err
	}
	if params.Deadline <= time.Now().Unix() {
		return nil, fmt.Errorf("deadline %d is in the past", params.Deadline)
	}
	deadline, err := encoding.U64FromInt("deadline", params.Deadline)
	if err != nil {
		return nil, err
	}
	if params.EntryFee == nil || params.EntryFee.IsZero() {
		return nil, fmt.Errorf("entry fee must be positive")
	}
	entryFee, err := encoding.I128("entry_fee", params.EntryFee.BigInt())
	if err != nil {
		return nil, err
	}

	inv, err := encoding.NewInvocation(s.contractAddr, fnCreateCompetition, admin, sessionID, deadline, entryFee)
	if err != nil {
		return nil, err
	}

	return s.orch.Run(ctx, &intent.Request{
		Kind:       intent.KindCreateCompetition,
		Account:    params.Admin,
		Invocation: inv,
	})
}

// EndCompetition 结束比赛（管理员操作）
func (s *Service) EndCompetition(ctx context.Context, admin string) (*intent.Result, error) {
	adminVal, err := encoding.Address("admin", admin)
	if err != nil {
		return nil, err
	}
	inv, err := encoding.NewInvocation(s.contractAddr, fnEndCompetition, adminVal)
	if err != nil {
		return nil, err
	}

	return s.orch.Run(ctx, &intent.Request{
		Kind:       intent.KindEndCompetition,
		Account:    admin,
		Invocation: inv,
	})
}
