// Package intent 意图状态机
//
// 把一次链上写操作建模为意图，驱动其走完
// 构建 → 模拟 → 装配 → 签名 → 提交 → 确认 的完整生命周期。
// 同一账户同类意图在途时拒绝重入；入场支付门禁在任何网络调用
// 之前拦截未付费的提交。
package intent

import (
	"time"

	"github.com/google/uuid"

	"github.com/gridsnake/v1/core/encoding"
)

// Kind 意图类型
type Kind string

const (
	KindPayEntry          Kind = "pay_entry"          // 支付入场费
	KindSubmitScore       Kind = "submit_score"       // 提交成绩
	KindCreateCompetition Kind = "create_competition" // 创建比赛
	KindEndCompetition    Kind = "end_competition"    // 结束比赛
)

// State 意图状态
//
// 状态只能单向推进，终态为 Confirmed 或 Failed。
type State string

const (
	StateBuilding          State = "building"
	StateSimulating        State = "simulating"
	StateAwaitingSignature State = "awaiting_signature"
	StateSubmitting        State = "submitting"
	StateConfirming        State = "confirming"
	StateConfirmed         State = "confirmed"
	StateFailed            State = "failed"
	StateDeclined          State = "declined"
)

// Terminal 是否已到达终态
func (s State) Terminal() bool {
	return s == StateConfirmed || s == StateFailed || s == StateDeclined
}

// Intent 一次链上写操作的意图
type Intent struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Account   string    `json:"account"`
	State     State     `json:"state"`
	TxHash    string    `json:"tx_hash,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newIntent(kind Kind, account string) *Intent {
	now := time.Now()
	return &Intent{
		ID:        uuid.New().String(),
		Kind:      kind,
		Account:   account,
		State:     StateBuilding,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (i *Intent) transition(state State) {
	i.State = state
	i.UpdatedAt = time.Now()
}

// Request 意图请求
type Request struct {
	Kind       Kind
	Account    string
	Invocation *encoding.InvocationSpec

	// RequiresEntryPayment 执行前要求入场门禁已开
	RequiresEntryPayment bool
	// OpensEntryGate 确认后打开入场门禁
	OpensEntryGate bool
	// ConsumesEntryGate 确认后关闭入场门禁
	ConsumesEntryGate bool
}

// Result 意图执行结果
type Result struct {
	Intent      *Intent
	TxHash      string
	Ledger      uint64
	ReturnValue *encoding.Value
}
