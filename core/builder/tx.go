package builder

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gridsnake/v1/core/encoding"
	"github.com/gridsnake/v1/core/transport"
)

// ===== Type-State 交易状态 =====
//
// 交易在管线中只能单向推进：
//
//	UnsignedTx --WithSimulation--> AssembledTx --(外部签名)--> SignedTx
//
// 每个状态不可变；装配必须以成功的模拟结果为输入，失败的模拟无法进入装配。

// UnsignedTx 未签名交易
//
// 由 TxBuilder 按意图生成，绑定了来源账户的当前序列号，
// 因此同一实例严禁跨意图尝试复用。
type UnsignedTx struct {
	source     string
	sequence   uint64
	invocation *encoding.InvocationSpec
	baseFee    uint64
	network    string
	validUntil time.Time
}

// Source 来源账户
func (t *UnsignedTx) Source() string {
	return t.source
}

// Sequence 交易序列号
func (t *UnsignedTx) Sequence() uint64 {
	return t.sequence
}

// Invocation 携带的操作描述符
func (t *UnsignedTx) Invocation() *encoding.InvocationSpec {
	return t.invocation
}

// ValidUntil 有效期截止时间
func (t *UnsignedTx) ValidUntil() time.Time {
	return t.validUntil
}

// Envelope 序列化为不透明信封（base64）
func (t *UnsignedTx) Envelope() (string, error) {
	return encodeEnvelope(&txEnvelope{
		Source:     t.source,
		Sequence:   t.sequence,
		Invocation: t.invocation,
		BaseFee:    t.baseFee,
		Network:    t.network,
		ValidUntil: t.validUntil.Unix(),
	})
}

// WithSimulation 合并模拟结果，推进到 AssembledTx
//
// 失败关闭：模拟未成功时拒绝装配。授权足迹与资源估算只能来自
// 模拟结果，客户端不得自行构造。
func (t *UnsignedTx) WithSimulation(sim *transport.SimulateResult) (*AssembledTx, error) {
	if sim == nil {
		return nil, fmt.Errorf("assemble: nil simulation result")
	}
	if !sim.Success {
		return nil, fmt.Errorf("assemble: simulation did not succeed: %s", sim.Error)
	}

	fee := t.baseFee + sim.Resources.Fee

	return &AssembledTx{
		unsigned:  t,
		auth:      sim.Auth,
		resources: sim.Resources,
		fee:       fee,
	}, nil
}

// AssembledTx 已装配交易
//
// 未签名交易 + 模拟得出的授权足迹和资源估算，可交给外部签名器。
type AssembledTx struct {
	unsigned  *UnsignedTx
	auth      []transport.AuthEntry
	resources transport.ResourceEstimate
	fee       uint64
}

// Source 来源账户
func (t *AssembledTx) Source() string {
	return t.unsigned.source
}

// Fee 装配后的总费用（基础费 + 资源费）
func (t *AssembledTx) Fee() uint64 {
	return t.fee
}

// Auth 授权足迹
func (t *AssembledTx) Auth() []transport.AuthEntry {
	return t.auth
}

// Envelope 序列化为不透明信封（base64）
func (t *AssembledTx) Envelope() (string, error) {
	return encodeEnvelope(&txEnvelope{
		Source:     t.unsigned.source,
		Sequence:   t.unsigned.sequence,
		Invocation: t.unsigned.invocation,
		BaseFee:    t.fee,
		Network:    t.unsigned.network,
		ValidUntil: t.unsigned.validUntil.Unix(),
		Auth:       t.auth,
		Resources:  &t.resources,
	})
}

// SignedTx 已签名交易（可提交）
//
// 由签名桥归一化后的结果构造；signer 为空表示签名器未披露身份。
type SignedTx struct {
	envelope string
	signer   string
}

// NewSignedTx 从签名器返回的信封构造已签名交易
func NewSignedTx(envelope, signer string) (*SignedTx, error) {
	if envelope == "" {
		return nil, fmt.Errorf("signed tx: empty envelope")
	}
	return &SignedTx{envelope: envelope, signer: signer}, nil
}

// Envelope 已签名信封
func (t *SignedTx) Envelope() string {
	return t.envelope
}

// Signer 签名者身份（可能为空）
func (t *SignedTx) Signer() string {
	return t.signer
}

// ===== 信封线格式 =====

// txEnvelope 交易信封载体
type txEnvelope struct {
	Source     string                      `json:"source"`
	Sequence   uint64                      `json:"sequence"`
	Invocation *encoding.InvocationSpec    `json:"invocation"`
	BaseFee    uint64                      `json:"base_fee"`
	Network    string                      `json:"network"`
	ValidUntil int64                       `json:"valid_until"`
	Auth       []transport.AuthEntry       `json:"auth,omitempty"`
	Resources  *transport.ResourceEstimate `json:"resources,omitempty"`
}

func encodeEnvelope(env *txEnvelope) (string, error) {
	data, err := json.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("marshal envelope: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DecodeEnvelopeSource 从信封中解出来源账户与网络（签名侧校验用）
func DecodeEnvelopeSource(envelope string) (source string, network string, err error) {
	data, err := base64.StdEncoding.DecodeString(envelope)
	if err != nil {
		return "", "", fmt.Errorf("decode envelope: %w", err)
	}
	var env txEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", "", fmt.Errorf("unmarshal envelope: %w", err)
	}
	return env.Source, env.Network, nil
}
