// Package builder 提供交易构建能力
package builder

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Amount 表示账本金额（使用最小单位 stroop）
//
// 金额系统：
//   - 1 个单位 = 10^7 stroop
//   - 使用 *big.Int 确保精确计算，避免浮点数精度问题
//   - 128位有符号金额字段的客户端表示
type Amount struct {
	value *big.Int // 最小单位（stroop）
}

// 常量定义
const (
	// DecimalPlaces 金额的小数位数
	DecimalPlaces = 7

	// StroopsPerUnit 1 个单位对应的 stroop 数量
	StroopsPerUnit = 10_000_000 // 10^7
)

var (
	// ErrInvalidAmount 无效的金额
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrNegativeAmount 负数金额
	ErrNegativeAmount = errors.New("negative amount")

	// stroopsPerUnit 预计算的big.Int
	stroopsPerUnit = big.NewInt(StroopsPerUnit)
)

// NewAmount 从单位金额创建Amount
//
// 示例：
//
//	NewAmount(1.0) → 10000000 stroop
//	NewAmount(0.0000001) → 1 stroop
func NewAmount(units float64) (*Amount, error) {
	if units < 0 {
		return nil, ErrNegativeAmount
	}

	base := new(big.Float).Mul(
		big.NewFloat(units),
		new(big.Float).SetInt(stroopsPerUnit),
	)

	// 转换为big.Int（向下取整）
	value, _ := base.Int(nil)

	return &Amount{value: value}, nil
}

// NewAmountFromString 从字符串创建Amount
//
// 支持格式：
//   - "10000000" → 10000000 stroop
//   - "1.5" → 15000000 stroop（作为单位金额解析）
func NewAmountFromString(s string) (*Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty string", ErrInvalidAmount)
	}

	if strings.Contains(s, ".") {
		units, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidAmount, err)
		}
		return NewAmount(units)
	}

	value, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAmount, s)
	}

	if value.Sign() < 0 {
		return nil, ErrNegativeAmount
	}

	return &Amount{value: value}, nil
}

// NewAmountFromStroops 从 stroop 数量创建Amount
func NewAmountFromStroops(stroops uint64) *Amount {
	return &Amount{value: new(big.Int).SetUint64(stroops)}
}

// NewAmountFromBigInt 从big.Int创建Amount
func NewAmountFromBigInt(value *big.Int) (*Amount, error) {
	if value == nil {
		return nil, fmt.Errorf("%w: nil value", ErrInvalidAmount)
	}

	if value.Sign() < 0 {
		return nil, ErrNegativeAmount
	}

	// 复制value，避免外部修改
	return &Amount{value: new(big.Int).Set(value)}, nil
}

// Zero 返回零金额
func Zero() *Amount {
	return &Amount{value: big.NewInt(0)}
}

// Add 加法：a + b
func (a *Amount) Add(b *Amount) *Amount {
	if a == nil || b == nil {
		return Zero()
	}
	return &Amount{value: new(big.Int).Add(a.value, b.value)}
}

// Cmp 比较两个金额
//
//	-1: a < b
//	 0: a == b
//	 1: a > b
func (a *Amount) Cmp(b *Amount) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}
	return a.value.Cmp(b.value)
}

// IsZero 判断金额是否为零
func (a *Amount) IsZero() bool {
	return a == nil || a.value.Sign() == 0
}

// Equal 判断 a == b
func (a *Amount) Equal(b *Amount) bool {
	return a.Cmp(b) == 0
}

// Stroops 返回 stroop 数量
func (a *Amount) Stroops() uint64 {
	if a == nil || !a.value.IsUint64() {
		return 0
	}
	return a.value.Uint64()
}

// BigInt 返回big.Int副本
func (a *Amount) BigInt() *big.Int {
	if a == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(a.value)
}

// String 转换为单位金额字符串（保留7位小数）
//
// 示例：
//
//	10000000 → "1.0000000"
//	1 → "0.0000001"
func (a *Amount) String() string {
	if a == nil {
		return "0.0000000"
	}

	units := new(big.Float).Quo(
		new(big.Float).SetInt(a.value),
		new(big.Float).SetInt(stroopsPerUnit),
	)

	return units.Text('f', DecimalPlaces)
}

// StringTrimmed 转换为单位金额字符串（移除末尾的0，至少保留两位小数）
//
// 示例：
//
//	10000000 → "1.00"
//	15000000 → "1.50"
//	10000001 → "1.0000001"
func (a *Amount) StringTrimmed() string {
	str := a.String()
	str = strings.TrimRight(str, "0")

	// 补齐到至少两位小数，金额展示习惯
	dot := strings.Index(str, ".")
	if dot < 0 {
		return str + ".00"
	}
	for len(str)-dot-1 < 2 {
		str += "0"
	}
	return str
}

// StringStroops 转换为 stroop 数量字符串
func (a *Amount) StringStroops() string {
	if a == nil {
		return "0"
	}
	return a.value.String()
}

// MarshalJSON 以 stroop 十进制字符串序列化
func (a *Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.StringStroops())
}

// UnmarshalJSON 从 stroop 十进制字符串反序列化
func (a *Amount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	amt, err := NewAmountFromString(s)
	if err != nil {
		return err
	}
	a.value = amt.value
	return nil
}

// Copy 创建副本
func (a *Amount) Copy() *Amount {
	if a == nil {
		return Zero()
	}
	return &Amount{value: new(big.Int).Set(a.value)}
}
