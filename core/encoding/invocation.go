package encoding

import (
	"encoding/json"
	"fmt"
)

// InvocationSpec 操作描述符 - 一次合约调用的完整描述
//
// 对应账本的原生操作编码：目标合约、方法符号、已编码的参数列表。
// 由编码器产出后不可再修改，供交易构建器打包进交易。
type InvocationSpec struct {
	Contract string  `json:"contract"` // 目标合约标识
	Function string  `json:"function"` // 方法符号
	Args     []Value `json:"args"`     // 已编码的参数
}

// NewInvocation 构造操作描述符
//
// contract 必须是合约账户标识（C开头），function 必须符合符号规则。
// 参数必须已经通过本包的构造函数完成编码和范围校验。
func NewInvocation(contract, function string, args ...Value) (*InvocationSpec, error) {
	if err := ValidateAddress(contract); err != nil {
		return nil, newEncodingError("contract", "%v", err)
	}
	if contract[0] != 'C' {
		return nil, newEncodingError("contract", "invocation target must be a contract address")
	}
	if _, err := Symbol("function", function); err != nil {
		return nil, err
	}
	for i, arg := range args {
		if arg.kind == "" {
			return nil, newEncodingError("args", "argument %d is an uninitialized value", i)
		}
	}

	return &InvocationSpec{
		Contract: contract,
		Function: function,
		Args:     args,
	}, nil
}

// Encode 序列化为线格式字节
func (s *InvocationSpec) Encode() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode invocation: %w", err)
	}
	return data, nil
}

// String 调试输出
func (s *InvocationSpec) String() string {
	return fmt.Sprintf("%s.%s/%d args", shortAddr(s.Contract), s.Function, len(s.Args))
}

// shortAddr 缩短地址显示
func shortAddr(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + ".." + addr[len(addr)-4:]
}
