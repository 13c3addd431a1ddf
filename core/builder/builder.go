// Package builder 交易构建
//
// 把操作描述符装配成可供模拟、签名、提交的交易。构建时向节点查询
// 来源账户的当前序列号；只读模拟则使用固定的零序列合成账户，
// 不访问网络。
package builder

import (
	"context"
	"fmt"
	"time"

	"github.com/gridsnake/v1/core/encoding"
	"github.com/gridsnake/v1/core/transport"
)

const (
	// BaseFee 基础费用（stroops）
	BaseFee uint64 = 100

	// ValidityWindow 交易有效期窗口
	ValidityWindow = 30 * time.Second

	// SyntheticReadSource 只读模拟使用的合成账户（序列号恒为 0）
	SyntheticReadSource = "GAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAWHF"
)

// TxBuilder 交易构建器
type TxBuilder struct {
	client  transport.Client
	network string
	now     func() time.Time
}

// NewTxBuilder 创建交易构建器
func NewTxBuilder(client transport.Client, network string) *TxBuilder {
	return &TxBuilder{
		client:  client,
		network: network,
		now:     time.Now,
	}
}

// Build 构建未签名交易
//
// 查询来源账户的当前序列号并绑定到交易上；账户不存在时原样
// 返回 transport.ErrAccountNotFound，由上层翻译成用户可读的提示。
func (b *TxBuilder) Build(ctx context.Context, source string, inv *encoding.InvocationSpec) (*UnsignedTx, error) {
	if err := encoding.ValidateAddress(source); err != nil {
		return nil, fmt.Errorf("build tx: %w", err)
	}
	if inv == nil {
		return nil, fmt.Errorf("build tx: nil invocation")
	}

	account, err := b.client.GetAccount(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("build tx: %w", err)
	}

	return &UnsignedTx{
		source:     source,
		sequence:   account.Sequence + 1,
		invocation: inv,
		baseFee:    BaseFee,
		network:    b.network,
		validUntil: b.now().Add(ValidityWindow),
	}, nil
}

// BuildReadOnly 构建只读模拟用交易
//
// 使用合成零序列账户作为来源，不查询网络，产物仅用于
// SimulateTransaction，不可签名提交。
func (b *TxBuilder) BuildReadOnly(inv *encoding.InvocationSpec) (*UnsignedTx, error) {
	if inv == nil {
		return nil, fmt.Errorf("build read-only tx: nil invocation")
	}

	return &UnsignedTx{
		source:     SyntheticReadSource,
		sequence:   0,
		invocation: inv,
		baseFee:    BaseFee,
		network:    b.network,
		validUntil: b.now().Add(ValidityWindow),
	}, nil
}
