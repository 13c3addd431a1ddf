// Package transport 提供账本 RPC 端点的统一传输接口
//
// 所有网络调用必须经由 Client 接口，上层编排器不直接依赖具体协议实现。
package transport

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gridsnake/v1/core/encoding"
)

// Client 统一传输客户端接口 - 客户端与账本 RPC 端点通信的唯一通道
type Client interface {
	// ===== 账户查询 =====

	// GetAccount 查询账户状态（序列号）
	// 账户不存在时返回 ErrAccountNotFound
	GetAccount(ctx context.Context, address string) (*Account, error)

	// ===== 交易模拟 =====

	// SimulateTransaction 对未签名交易做试运行
	// 读意图：返回解码后的返回值；写意图：额外返回授权足迹与资源估算
	SimulateTransaction(ctx context.Context, envelope string) (*SimulateResult, error)

	// ===== 交易提交与查询 =====

	// SendTransaction 提交已签名交易
	// 返回提交句柄（交易哈希）与初始状态 pending / immediately_failed
	SendTransaction(ctx context.Context, envelope string) (*SendTxResult, error)

	// GetTransaction 按哈希查询交易确认状态
	GetTransaction(ctx context.Context, txHash string) (*TxStatus, error)

	// ===== 健康检查 =====

	// Ping 检查端点是否可达
	Ping(ctx context.Context) error

	// CallRaw 调用任意 JSON-RPC 方法（高级接口）
	CallRaw(ctx context.Context, method string, params []interface{}) (interface{}, error)

	// Close 关闭客户端连接
	Close() error
}

// ErrAccountNotFound 账户不存在
//
// 上层将其映射为"请连接已注资账户"的用户提示。
var ErrAccountNotFound = errors.New("account not found")

// Account 账户状态
type Account struct {
	Address  string `json:"address"`
	Sequence uint64 `json:"sequence"` // 当前序列号，构建交易时使用 Sequence+1
}

// SendStatus 交易提交初始状态
type SendStatus string

const (
	SendStatusPending           SendStatus = "pending"            // 已受理，等待确认
	SendStatusImmediatelyFailed SendStatus = "immediately_failed" // 入池即被拒绝
)

// SendTxResult 交易提交结果
type SendTxResult struct {
	Hash   string     `json:"hash"`             // 提交句柄
	Status SendStatus `json:"status"`           // 初始状态
	Reason string     `json:"reason,omitempty"` // 拒绝原因
}

// ConfirmStatus 交易确认状态
type ConfirmStatus string

const (
	ConfirmStatusNotFound ConfirmStatus = "not_found" // 尚未进账本
	ConfirmStatusPending  ConfirmStatus = "pending"   // 已进池未出块
	ConfirmStatusSuccess  ConfirmStatus = "success"   // 执行成功（终态）
	ConfirmStatusFailed   ConfirmStatus = "failed"    // 合约拒绝（终态）
)

// Terminal 是否为终态
func (s ConfirmStatus) Terminal() bool {
	return s == ConfirmStatusSuccess || s == ConfirmStatusFailed
}

// TxStatus 交易确认查询结果
type TxStatus struct {
	Hash        string          `json:"hash"`
	Status      ConfirmStatus   `json:"status"`
	Ledger      uint64          `json:"ledger,omitempty"`       // 确认所在账本高度
	ReturnValue *encoding.Value `json:"return_value,omitempty"` // 成功时的解码返回值
	Error       string          `json:"error,omitempty"`        // 失败时的合约侧错误
}

// AuthEntry 授权条目 - 模拟得出的授权足迹
//
// 描述哪个账户必须签名以及它授权的调用范围。
// 足迹只能来自模拟结果，客户端严禁自行伪造。
type AuthEntry struct {
	Signer string          `json:"signer"`          // 必须签名的账户
	Scope  json.RawMessage `json:"scope"`           // 授权的调用范围（原样透传）
	Nonce  uint64          `json:"nonce,omitempty"` // 授权防重放序号
}

// ResourceEstimate 资源估算 - 模拟得出的执行足迹
type ResourceEstimate struct {
	CPUInstructions uint64   `json:"cpu_instructions"`
	ReadBytes       uint64   `json:"read_bytes"`
	WriteBytes      uint64   `json:"write_bytes"`
	Footprint       []string `json:"footprint,omitempty"` // 涉及的账本条目键
	Fee             uint64   `json:"fee"`                 // 资源费（stroop）
}

// SimulateResult 交易模拟结果
type SimulateResult struct {
	Success     bool             `json:"success"`
	Error       string           `json:"error,omitempty"`        // 合约级错误或资源超限
	ReturnValue *encoding.Value  `json:"return_value,omitempty"` // 读意图的返回值
	Auth        []AuthEntry      `json:"auth,omitempty"`         // 写意图的授权足迹
	Resources   ResourceEstimate `json:"resources"`
}
