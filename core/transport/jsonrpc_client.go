package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync/atomic"
	"time"
)

// 账户不存在时端点返回的 JSON-RPC 错误码
const codeAccountNotFound = -32001

// JSONRPCClient JSON-RPC 2.0 客户端实现
type JSONRPCClient struct {
	endpoint   string
	httpClient *http.Client
	nextID     atomic.Uint64
}

// NewJSONRPCClient 创建JSON-RPC客户端
func NewJSONRPCClient(endpoint string, timeout time.Duration) *JSONRPCClient {
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &JSONRPCClient{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// jsonrpcRequest JSON-RPC 2.0 请求
type jsonrpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      uint64        `json:"id"`
}

// jsonrpcResponse JSON-RPC 2.0 响应
type jsonrpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *jsonrpcError   `json:"error,omitempty"`
	ID      uint64          `json:"id"`
}

// jsonrpcError JSON-RPC 2.0 错误
type jsonrpcError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// call 统一的JSON-RPC调用方法
func (c *JSONRPCClient) call(ctx context.Context, method string, params []interface{}, result interface{}) error {
	req := &jsonrpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      c.nextID.Add(1),
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("create http request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("Failed to close response body: %v", err)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var jsonResp jsonrpcResponse
	if err := json.Unmarshal(respBody, &jsonResp); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	if jsonResp.Error != nil {
		if jsonResp.Error.Code == codeAccountNotFound ||
			strings.Contains(strings.ToLower(jsonResp.Error.Message), "account not found") {
			return ErrAccountNotFound
		}
		return fmt.Errorf("jsonrpc error %d: %s", jsonResp.Error.Code, jsonResp.Error.Message)
	}

	if result != nil && len(jsonResp.Result) > 0 {
		if err := json.Unmarshal(jsonResp.Result, result); err != nil {
			return fmt.Errorf("unmarshal result: %w", err)
		}
	}

	return nil
}

// ===== 接口实现 =====

func (c *JSONRPCClient) GetAccount(ctx context.Context, address string) (*Account, error) {
	// 先解析为 map，序列号可能以字符串返回
	var accountMap map[string]interface{}
	if err := c.call(ctx, "grid_getAccount", []interface{}{address}, &accountMap); err != nil {
		return nil, err
	}

	account := &Account{Address: address}
	if addr, ok := accountMap["address"].(string); ok {
		account.Address = addr
	}
	seq, ok := parseUint64FromMap(accountMap, "sequence")
	if !ok {
		return nil, fmt.Errorf("parse account sequence: missing or invalid field")
	}
	account.Sequence = seq

	return account, nil
}

func (c *JSONRPCClient) SimulateTransaction(ctx context.Context, envelope string) (*SimulateResult, error) {
	var result SimulateResult
	if err := c.call(ctx, "grid_simulateTransaction", []interface{}{envelope}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *JSONRPCClient) SendTransaction(ctx context.Context, envelope string) (*SendTxResult, error) {
	var resultMap map[string]interface{}
	if err := c.call(ctx, "grid_sendTransaction", []interface{}{envelope}, &resultMap); err != nil {
		return nil, err
	}

	result := &SendTxResult{}
	if hash, ok := resultMap["hash"].(string); ok {
		result.Hash = hash
	}
	if status, ok := resultMap["status"].(string); ok {
		result.Status = SendStatus(status)
	}
	if reason, ok := resultMap["reason"].(string); ok {
		result.Reason = reason
	}

	if result.Status != SendStatusPending && result.Status != SendStatusImmediatelyFailed {
		return nil, fmt.Errorf("unexpected send status %q", result.Status)
	}

	return result, nil
}

func (c *JSONRPCClient) GetTransaction(ctx context.Context, txHash string) (*TxStatus, error) {
	var status TxStatus
	if err := c.call(ctx, "grid_getTransactionByHash", []interface{}{txHash}, &status); err != nil {
		return nil, err
	}
	if status.Hash == "" {
		status.Hash = txHash
	}
	return &status, nil
}

func (c *JSONRPCClient) Ping(ctx context.Context) error {
	var height string
	return c.call(ctx, "grid_ledgerHeight", nil, &height)
}

// CallRaw 调用任意 JSON-RPC 方法并返回原始结果
func (c *JSONRPCClient) CallRaw(ctx context.Context, method string, params []interface{}) (interface{}, error) {
	var result interface{}
	if err := c.call(ctx, method, params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *JSONRPCClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// 确保实现了Client接口
var _ Client = (*JSONRPCClient)(nil)
