package intent

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"go.uber.org/zap"

	"github.com/gridsnake/v1/core/builder"
	"github.com/gridsnake/v1/core/transport"
	"github.com/gridsnake/v1/core/wallet"
)

// 确认轮询默认参数
const (
	DefaultPollAttempts = 10
	DefaultPollInterval = time.Second
)

// guardKey 在途去重键：同一账户同类意图互斥
type guardKey struct {
	kind    Kind
	account string
}

// Orchestrator 意图编排器
//
// 持有交易构建器、签名器和节点客户端，串联意图的完整生命周期。
// 所有公开方法并发安全。
type Orchestrator struct {
	client  transport.Client
	builder *builder.TxBuilder
	signer  wallet.Signer
	network string

	pollAttempts int
	pollInterval time.Duration
	sleep        func(ctx context.Context, d time.Duration) error

	guards *guardSet
	gate   *PaymentGate
	events *publisher

	metrics *Metrics
	logger  *zap.Logger
}

// Options 编排器可选配置
type Options struct {
	PollAttempts int
	PollInterval time.Duration
	Bus          EventBus.Bus
	Metrics      *Metrics
	Logger       *zap.Logger
}

// NewOrchestrator 创建意图编排器
func NewOrchestrator(client transport.Client, txBuilder *builder.TxBuilder, signer wallet.Signer, network string, opts Options) *Orchestrator {
	if opts.PollAttempts <= 0 {
		opts.PollAttempts = DefaultPollAttempts
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Orchestrator{
		client:       client,
		builder:      txBuilder,
		signer:       signer,
		network:      network,
		pollAttempts: opts.PollAttempts,
		pollInterval: opts.PollInterval,
		sleep:        sleepCtx,
		guards:       newGuardSet(),
		gate:         NewPaymentGate(),
		events:       newPublisher(opts.Bus),
		metrics:      opts.Metrics,
		logger:       opts.Logger,
	}
}

// Gate 入场门禁
func (o *Orchestrator) Gate() *PaymentGate {
	return o.gate
}

// InFlight 同类意图是否在途
func (o *Orchestrator) InFlight(kind Kind, account string) bool {
	return o.guards.held(guardKey{kind: kind, account: account})
}

// Run 执行一个意图直到终态
//
// 在途去重和入场门禁在任何网络调用之前生效；被拒绝的请求
// 不产生交易，也不消耗序列号。
func (o *Orchestrator) Run(ctx context.Context, req *Request) (*Result, error) {
	key := guardKey{kind: req.Kind, account: req.Account}
	if !o.guards.acquire(key) {
		return nil, ErrInFlight
	}
	defer o.guards.release(key)

	if req.RequiresEntryPayment && !o.gate.Paid(req.Account) {
		return nil, ErrEntryNotPaid
	}

	in := newIntent(req.Kind, req.Account)
	start := time.Now()
	o.metrics.observeStart(req.Kind)
	o.events.stateChanged(in)
	o.logger.Info("意图启动",
		zap.String("intent_id", in.ID),
		zap.String("kind", string(req.Kind)),
		zap.String("account", req.Account))

	res, stage, err := o.run(ctx, in, req)
	if err != nil {
		// 用户拒签是独立终态，与失败区分开
		if errors.Is(err, wallet.ErrSigningDeclined) {
			in.transition(StateDeclined)
		} else {
			in.transition(StateFailed)
		}
		o.metrics.observeFailed(req.Kind, stage, time.Since(start).Seconds())
		o.events.failed(in, err)
		o.logger.Warn("意图失败",
			zap.String("intent_id", in.ID),
			zap.String("stage", stage),
			zap.Error(err))
		return nil, err
	}

	in.transition(StateConfirmed)
	o.metrics.observeConfirmed(req.Kind, time.Since(start).Seconds())
	o.events.confirmed(res)
	o.logger.Info("意图确认",
		zap.String("intent_id", in.ID),
		zap.String("tx_hash", res.TxHash),
		zap.Uint64("ledger", res.Ledger))
	return res, nil
}

// run 驱动单个意图走完管线，返回失败所在阶段
func (o *Orchestrator) run(ctx context.Context, in *Intent, req *Request) (*Result, string, error) {
	// 构建：绑定来源账户当前序列号
	unsigned, err := o.builder.Build(ctx, req.Account, req.Invocation)
	if err != nil {
		return nil, "build", err
	}

	// 模拟：失败关闭，未通过模拟的交易不进入签名
	in.transition(StateSimulating)
	o.events.stateChanged(in)

	envelope, err := unsigned.Envelope()
	if err != nil {
		return nil, "simulate", err
	}
	sim, err := o.client.SimulateTransaction(ctx, envelope)
	if err != nil {
		return nil, "simulate", fmt.Errorf("simulate: %w", err)
	}
	if !sim.Success {
		return nil, "simulate", &SimulationError{Message: sim.Error}
	}

	assembled, err := unsigned.WithSimulation(sim)
	if err != nil {
		return nil, "simulate", err
	}

	// 签名：身份不一致时拒绝提交
	in.transition(StateAwaitingSignature)
	o.events.stateChanged(in)

	signed, err := o.signTx(ctx, assembled, req.Account)
	if err != nil {
		return nil, "sign", err
	}

	// 提交：至多一次，不做故障转移重试
	in.transition(StateSubmitting)
	o.events.stateChanged(in)

	sent, err := o.client.SendTransaction(ctx, signed.Envelope())
	if err != nil {
		return nil, "submit", fmt.Errorf("submit: %w", err)
	}
	if sent.Status == transport.SendStatusImmediatelyFailed {
		return nil, "submit", &SubmissionError{Reason: sent.Reason}
	}
	in.TxHash = sent.Hash

	// 确认：有界轮询
	in.transition(StateConfirming)
	o.events.stateChanged(in)

	status, err := o.awaitConfirmation(ctx, sent.Hash)
	if err != nil {
		return nil, "confirm", err
	}
	if status.Status == transport.ConfirmStatusFailed {
		return nil, "confirm", &ExecutionError{TxHash: sent.Hash, Message: status.Error}
	}

	// 门禁变更仅在确认后生效
	if req.OpensEntryGate {
		o.gate.Open(req.Account)
	}
	if req.ConsumesEntryGate {
		o.gate.Close(req.Account)
	}

	return &Result{
		Intent:      in,
		TxHash:      sent.Hash,
		Ledger:      status.Ledger,
		ReturnValue: status.ReturnValue,
	}, "", nil
}

// signTx 检查签名器可用性并完成签名
func (o *Orchestrator) signTx(ctx context.Context, assembled *builder.AssembledTx, account string) (*builder.SignedTx, error) {
	if !o.signer.IsAvailable(ctx) {
		return nil, wallet.ErrSignerUnavailable
	}

	envelope, err := assembled.Envelope()
	if err != nil {
		return nil, err
	}

	res, err := o.signer.SignTransaction(ctx, envelope, o.network)
	if err != nil {
		return nil, err
	}

	if res.SignerAddress != "" && res.SignerAddress != account {
		return nil, &wallet.SignerMismatchError{Expected: account, Actual: res.SignerAddress}
	}

	return builder.NewSignedTx(res.Envelope, res.SignerAddress)
}

// awaitConfirmation 有界轮询交易状态
//
// 轮询次数耗尽时返回 ErrConfirmationTimeout，交易可能仍在
// 处理中，调用方可凭哈希继续查询。
func (o *Orchestrator) awaitConfirmation(ctx context.Context, hash string) (*transport.TxStatus, error) {
	for attempt := 0; attempt < o.pollAttempts; attempt++ {
		if attempt > 0 {
			if err := o.sleep(ctx, o.pollInterval); err != nil {
				return nil, err
			}
		}

		status, err := o.client.GetTransaction(ctx, hash)
		if err != nil {
			o.logger.Debug("确认轮询失败",
				zap.String("tx_hash", hash),
				zap.Int("attempt", attempt+1),
				zap.Error(err))
			continue
		}
		if status.Status.Terminal() {
			return status, nil
		}
	}

	return nil, fmt.Errorf("%w: tx %s", ErrConfirmationTimeout, hash)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// guardSet 在途意图集合
type guardSet struct {
	mu    sync.Mutex
	inUse map[guardKey]bool
}

func newGuardSet() *guardSet {
	return &guardSet{
		inUse: make(map[guardKey]bool),
	}
}

func (g *guardSet) acquire(key guardKey) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inUse[key] {
		return false
	}
	g.inUse[key] = true
	return true
}

func (g *guardSet) release(key guardKey) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inUse, key)
}

func (g *guardSet) held(key guardKey) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inUse[key]
}
