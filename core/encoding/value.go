// Package encoding 提供账本原生值编码能力
//
// 账本合约接口只接受定宽类型（u32/u64/i128）、账户标识、符号和布尔值。
// 本包负责把 Go 原生值编码为账本值（Value），以及把模拟/查询返回的账本值
// 解码回 Go 原生值。越界或者形状不符的参数一律返回 *EncodingError，
// 调用方必须在编码前完成校验，编码器不做任何静默截断。
package encoding

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
)

// Kind 账本值类型标签
type Kind string

const (
	KindU32     Kind = "u32"     // 32位无符号整数
	KindU64     Kind = "u64"     // 64位无符号整数
	KindI128    Kind = "i128"    // 128位有符号整数（金额）
	KindBool    Kind = "bool"    // 布尔值
	KindSymbol  Kind = "symbol"  // 合约符号（方法名/枚举名）
	KindAddress Kind = "address" // 账户标识
	KindVec     Kind = "vec"     // 值数组
	KindMap     Kind = "map"     // 键值映射（结构体记录）
	KindVoid    Kind = "void"    // 空值
)

// 地址格式约束
const (
	addressLength = 56 // 账户标识固定长度
	symbolMaxLen  = 32 // 符号最大长度
)

var (
	// i128 的取值范围 [-2^127, 2^127-1]
	i128Max = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	i128Min = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
)

// EncodingError 编码错误
//
// 参数形状不符合声明宽度时返回，属于开发期错误，不应重试。
type EncodingError struct {
	Field  string // 出错的字段/参数名
	Reason string // 具体原因
}

func (e *EncodingError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("encoding error: %s", e.Reason)
	}
	return fmt.Sprintf("encoding error: %s: %s", e.Field, e.Reason)
}

func newEncodingError(field, format string, args ...interface{}) *EncodingError {
	return &EncodingError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Value 账本值 - 类型标签 + 载荷的不可变联合体
//
// 通过构造函数创建，通过 As* 方法解码；直接构造零值是非法的。
type Value struct {
	kind Kind

	u64Val  uint64   // u32/u64 载荷
	i128Val *big.Int // i128 载荷
	boolVal bool
	strVal  string  // symbol/address 载荷
	vecVal  []Value // vec 载荷
	mapVal  []MapEntry
}

// MapEntry 映射条目（保持插入顺序，保证编码确定性）
type MapEntry struct {
	Key   string
	Value Value
}

// ===== 构造函数 =====

// Void 空值
func Void() Value {
	return Value{kind: KindVoid}
}

// U32 构造32位无符号整数值
func U32(v uint32) Value {
	return Value{kind: KindU32, u64Val: uint64(v)}
}

// U32FromInt 从 int64 构造 u32，越界返回错误
func U32FromInt(field string, v int64) (Value, error) {
	if v < 0 {
		return Value{}, newEncodingError(field, "negative value %d for u32", v)
	}
	if v > int64(^uint32(0)) {
		return Value{}, newEncodingError(field, "value %d exceeds u32 range", v)
	}
	return U32(uint32(v)), nil
}

// U64 构造64位无符号整数值
func U64(v uint64) Value {
	return Value{kind: KindU64, u64Val: v}
}

// U64FromInt 从 int64 构造 u64，负数返回错误
func U64FromInt(field string, v int64) (Value, error) {
	if v < 0 {
		return Value{}, newEncodingError(field, "negative value %d for u64", v)
	}
	return U64(uint64(v)), nil
}

// I128 构造128位有符号整数值，越界返回错误
func I128(field string, v *big.Int) (Value, error) {
	if v == nil {
		return Value{}, newEncodingError(field, "nil value for i128")
	}
	if v.Cmp(i128Min) < 0 || v.Cmp(i128Max) > 0 {
		return Value{}, newEncodingError(field, "value %s exceeds i128 range", v.String())
	}
	return Value{kind: KindI128, i128Val: new(big.Int).Set(v)}, nil
}

// I128FromUint64 从 uint64 构造 i128（总在范围内）
func I128FromUint64(v uint64) Value {
	return Value{kind: KindI128, i128Val: new(big.Int).SetUint64(v)}
}

// Bool 构造布尔值
func Bool(v bool) Value {
	return Value{kind: KindBool, boolVal: v}
}

// Symbol 构造符号值
//
// 符号限制为 [A-Za-z0-9_]，最长32字符，对应合约侧的方法/枚举命名规则。
func Symbol(field, s string) (Value, error) {
	if s == "" {
		return Value{}, newEncodingError(field, "empty symbol")
	}
	if len(s) > symbolMaxLen {
		return Value{}, newEncodingError(field, "symbol %q exceeds %d chars", s, symbolMaxLen)
	}
	for _, r := range s {
		if !isSymbolRune(r) {
			return Value{}, newEncodingError(field, "symbol %q contains invalid char %q", s, r)
		}
	}
	return Value{kind: KindSymbol, strVal: s}, nil
}

// Address 构造账户标识值
//
// 账户标识为56字符，以 G（普通账户）或 C（合约账户）开头。
func Address(field, addr string) (Value, error) {
	if err := ValidateAddress(addr); err != nil {
		return Value{}, newEncodingError(field, "%v", err)
	}
	return Value{kind: KindAddress, strVal: addr}, nil
}

// Vec 构造数组值
func Vec(items ...Value) Value {
	return Value{kind: KindVec, vecVal: items}
}

// Map 构造映射值（条目顺序即编码顺序）
func Map(entries ...MapEntry) Value {
	return Value{kind: KindMap, mapVal: entries}
}

// ValidateAddress 校验账户标识格式
func ValidateAddress(addr string) error {
	if len(addr) != addressLength {
		return fmt.Errorf("address must be %d chars, got %d", addressLength, len(addr))
	}
	if addr[0] != 'G' && addr[0] != 'C' {
		return fmt.Errorf("address must start with G or C")
	}
	for _, r := range addr {
		if !((r >= 'A' && r <= 'Z') || (r >= '2' && r <= '7')) {
			return fmt.Errorf("address contains invalid char %q", r)
		}
	}
	return nil
}

func isSymbolRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_'
}

// ===== 访问方法 =====

// Kind 返回类型标签
func (v Value) Kind() Kind {
	return v.kind
}

// IsVoid 是否为空值
func (v Value) IsVoid() bool {
	return v.kind == KindVoid || v.kind == ""
}

// AsU32 解码为 uint32
func (v Value) AsU32() (uint32, error) {
	if v.kind != KindU32 {
		return 0, newEncodingError("", "expected u32, got %s", v.kind)
	}
	return uint32(v.u64Val), nil
}

// AsU64 解码为 uint64
func (v Value) AsU64() (uint64, error) {
	if v.kind != KindU64 {
		return 0, newEncodingError("", "expected u64, got %s", v.kind)
	}
	return v.u64Val, nil
}

// AsI128 解码为 *big.Int（返回副本）
func (v Value) AsI128() (*big.Int, error) {
	if v.kind != KindI128 {
		return nil, newEncodingError("", "expected i128, got %s", v.kind)
	}
	return new(big.Int).Set(v.i128Val), nil
}

// AsBool 解码为 bool
func (v Value) AsBool() (bool, error) {
	if v.kind != KindBool {
		return false, newEncodingError("", "expected bool, got %s", v.kind)
	}
	return v.boolVal, nil
}

// AsSymbol 解码为符号字符串
func (v Value) AsSymbol() (string, error) {
	if v.kind != KindSymbol {
		return "", newEncodingError("", "expected symbol, got %s", v.kind)
	}
	return v.strVal, nil
}

// AsAddress 解码为账户标识
func (v Value) AsAddress() (string, error) {
	if v.kind != KindAddress {
		return "", newEncodingError("", "expected address, got %s", v.kind)
	}
	return v.strVal, nil
}

// AsVec 解码为值数组
func (v Value) AsVec() ([]Value, error) {
	if v.kind != KindVec {
		return nil, newEncodingError("", "expected vec, got %s", v.kind)
	}
	return v.vecVal, nil
}

// AsMap 解码为映射条目
func (v Value) AsMap() ([]MapEntry, error) {
	if v.kind != KindMap {
		return nil, newEncodingError("", "expected map, got %s", v.kind)
	}
	return v.mapVal, nil
}

// MapGet 在映射中按键查找
func (v Value) MapGet(key string) (Value, bool) {
	if v.kind != KindMap {
		return Value{}, false
	}
	for _, e := range v.mapVal {
		if e.Key == key {
			return e.Value, true
		}
	}
	return Value{}, false
}

// ===== 线格式（JSON） =====

// wireValue 线格式载体
//
// 整数一律编码为十进制字符串，避免 JSON number 在 u64/i128 上丢精度。
type wireValue struct {
	Type  Kind            `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

type wireMapEntry struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// MarshalJSON 编码为线格式
func (v Value) MarshalJSON() ([]byte, error) {
	var payload interface{}

	switch v.kind {
	case KindVoid, "":
		return json.Marshal(wireValue{Type: KindVoid})
	case KindU32, KindU64:
		payload = fmt.Sprintf("%d", v.u64Val)
	case KindI128:
		payload = v.i128Val.String()
	case KindBool:
		payload = v.boolVal
	case KindSymbol, KindAddress:
		payload = v.strVal
	case KindVec:
		payload = v.vecVal
	case KindMap:
		entries := make([]wireMapEntry, 0, len(v.mapVal))
		for _, e := range v.mapVal {
			raw, err := json.Marshal(e.Value)
			if err != nil {
				return nil, err
			}
			entries = append(entries, wireMapEntry{Key: e.Key, Value: raw})
		}
		payload = entries
	default:
		return nil, newEncodingError("", "unknown kind %s", v.kind)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireValue{Type: v.kind, Value: raw})
}

// UnmarshalJSON 从线格式解码
func (v *Value) UnmarshalJSON(data []byte) error {
	var wire wireValue
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("unmarshal wire value: %w", err)
	}

	switch wire.Type {
	case KindVoid, "":
		*v = Void()
		return nil

	case KindU32, KindU64:
		var s string
		if err := json.Unmarshal(wire.Value, &s); err != nil {
			return fmt.Errorf("unmarshal %s payload: %w", wire.Type, err)
		}
		n, ok := new(big.Int).SetString(s, 10)
		if !ok || n.Sign() < 0 {
			return newEncodingError("", "invalid %s payload %q", wire.Type, s)
		}
		if wire.Type == KindU32 {
			if n.BitLen() > 32 {
				return newEncodingError("", "u32 payload %s out of range", s)
			}
			*v = U32(uint32(n.Uint64()))
			return nil
		}
		if n.BitLen() > 64 {
			return newEncodingError("", "u64 payload %s out of range", s)
		}
		*v = U64(n.Uint64())
		return nil

	case KindI128:
		var s string
		if err := json.Unmarshal(wire.Value, &s); err != nil {
			return fmt.Errorf("unmarshal i128 payload: %w", err)
		}
		n, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return newEncodingError("", "invalid i128 payload %q", s)
		}
		val, err := I128("", n)
		if err != nil {
			return err
		}
		*v = val
		return nil

	case KindBool:
		var b bool
		if err := json.Unmarshal(wire.Value, &b); err != nil {
			return fmt.Errorf("unmarshal bool payload: %w", err)
		}
		*v = Bool(b)
		return nil

	case KindSymbol:
		var s string
		if err := json.Unmarshal(wire.Value, &s); err != nil {
			return fmt.Errorf("unmarshal symbol payload: %w", err)
		}
		val, err := Symbol("", s)
		if err != nil {
			return err
		}
		*v = val
		return nil

	case KindAddress:
		var s string
		if err := json.Unmarshal(wire.Value, &s); err != nil {
			return fmt.Errorf("unmarshal address payload: %w", err)
		}
		val, err := Address("", s)
		if err != nil {
			return err
		}
		*v = val
		return nil

	case KindVec:
		var items []Value
		if err := json.Unmarshal(wire.Value, &items); err != nil {
			return fmt.Errorf("unmarshal vec payload: %w", err)
		}
		*v = Vec(items...)
		return nil

	case KindMap:
		var entries []wireMapEntry
		if err := json.Unmarshal(wire.Value, &entries); err != nil {
			return fmt.Errorf("unmarshal map payload: %w", err)
		}
		mapEntries := make([]MapEntry, 0, len(entries))
		for _, e := range entries {
			var inner Value
			if err := json.Unmarshal(e.Value, &inner); err != nil {
				return fmt.Errorf("unmarshal map entry %q: %w", e.Key, err)
			}
			mapEntries = append(mapEntries, MapEntry{Key: e.Key, Value: inner})
		}
		*v = Map(mapEntries...)
		return nil
	}

	return newEncodingError("", "unknown wire type %q", wire.Type)
}

// String 调试输出
func (v Value) String() string {
	switch v.kind {
	case KindVoid, "":
		return "void"
	case KindU32, KindU64:
		return fmt.Sprintf("%s(%d)", v.kind, v.u64Val)
	case KindI128:
		return fmt.Sprintf("i128(%s)", v.i128Val.String())
	case KindBool:
		return fmt.Sprintf("bool(%t)", v.boolVal)
	case KindSymbol, KindAddress:
		return fmt.Sprintf("%s(%s)", v.kind, v.strVal)
	case KindVec:
		parts := make([]string, len(v.vecVal))
		for i, item := range v.vecVal {
			parts[i] = item.String()
		}
		return "vec[" + strings.Join(parts, ", ") + "]"
	case KindMap:
		parts := make([]string, len(v.mapVal))
		for i, e := range v.mapVal {
			parts[i] = e.Key + ": " + e.Value.String()
		}
		return "map{" + strings.Join(parts, ", ") + "}"
	}
	return string(v.kind)
}
