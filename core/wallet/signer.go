// Package wallet 签名器
//
// 统一的签名抽象，支持外部签名器（远程签名服务）和本地助记词签名器。
// 交易装配后以不透明信封交给签名器，签名器返回已签名信封，
// 可附带签名者身份供上层做一致性校验。
package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Signer 签名器接口
type Signer interface {
	// IsAvailable 检查签名器当前是否可用
	IsAvailable(ctx context.Context) bool

	// Identity 获取签名器当前持有的账户地址
	Identity(ctx context.Context) (string, error)

	// SignTransaction 签名交易信封
	// envelope: 待签名的不透明信封
	// network: 目标网络标识
	SignTransaction(ctx context.Context, envelope string, network string) (*SignResult, error)

	// Type 返回签名器类型
	Type() SignerType
}

// SignerType 签名器类型
type SignerType string

const (
	SignerTypeRemote   SignerType = "remote"   // 外部签名服务
	SignerTypeMnemonic SignerType = "mnemonic" // BIP39助记词
)

// 签名器错误
var (
	// ErrSignerUnavailable 签名器不可用（未连接或未解锁）
	ErrSignerUnavailable = errors.New("signer unavailable")

	// ErrSigningDeclined 签名请求被用户拒绝
	ErrSigningDeclined = errors.New("signing declined")
)

// SignResult 签名结果
//
// 外部签名器可能只返回信封，也可能附带签名者地址；
// SignerAddress 为空表示签名器未披露身份，跳过一致性校验。
type SignResult struct {
	Envelope      string `json:"signed_envelope"`
	SignerAddress string `json:"signer_address,omitempty"`
}

// SignerMismatchError 签名者与预期账户不一致
type SignerMismatchError struct {
	Expected string
	Actual   string
}

func (e *SignerMismatchError) Error() string {
	return fmt.Sprintf("signer mismatch: expected %s, signed by %s", e.Expected, e.Actual)
}

// ParseSignResponse 归一化签名器响应
//
// 兼容两种线格式：裸 JSON 字符串（仅信封），或携带
// signed_envelope / signer_address 字段的对象。
func ParseSignResponse(raw json.RawMessage) (*SignResult, error) {
	if len(raw) == 0 {
		return nil, errors.New("parse sign response: empty response")
	}

	// 裸字符串：仅信封
	var envelope string
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if envelope == "" {
			return nil, errors.New("parse sign response: empty envelope")
		}
		return &SignResult{Envelope: envelope}, nil
	}

	var result SignResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("parse sign response: %w", err)
	}
	if result.Envelope == "" {
		return nil, errors.New("parse sign response: missing signed envelope")
	}
	return &result, nil
}
