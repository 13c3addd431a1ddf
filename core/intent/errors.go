package intent

import (
	"errors"
	"fmt"
)

// 意图错误
var (
	// ErrInFlight 同一账户的同类意图正在执行
	ErrInFlight = errors.New("intent already in flight")

	// ErrEntryNotPaid 入场门禁未开，操作被拒绝
	ErrEntryNotPaid = errors.New("entry fee not paid")

	// ErrConfirmationTimeout 确认轮询超时，交易结果未知
	ErrConfirmationTimeout = errors.New("confirmation timed out")
)

// SimulationError 模拟失败
//
// 交易在模拟阶段被节点拒绝，尚未签名，账户状态未变。
type SimulationError struct {
	Message string
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("simulation failed: %s", e.Message)
}

// SubmissionError 提交被立即拒绝
//
// 节点在接收阶段拒绝了已签名交易，交易未进入账本。
type SubmissionError struct {
	Reason string
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submission rejected: %s", e.Reason)
}

// ExecutionError 链上执行失败
//
// 交易已进入账本但执行失败，费用可能已扣除。
type ExecutionError struct {
	TxHash  string
	Message string
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("transaction %s failed on chain: %s", e.TxHash, e.Message)
}
