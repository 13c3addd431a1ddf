package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewFallbackClient_NoEndpoints(t *testing.T) {
	_, err := NewFallbackClient(ClientConfig{})
	if err == nil {
		t.Fatal("NewFallbackClient() expected error for empty endpoints")
	}

	// 端点全部无效时同样报错
	_, err = NewFallbackClient(ClientConfig{
		Endpoints: []EndpointConfig{{Name: "empty", Priority: 1}},
	})
	if err == nil {
		t.Fatal("NewFallbackClient() expected error for endpoints without addresses")
	}
}

func TestFallbackClient_SortByPriority(t *testing.T) {
	fc := &FallbackClient{
		clients: []clientWithPriority{
			{name: "c", priority: 3},
			{name: "a", priority: 1},
			{name: "b", priority: 2},
		},
	}
	fc.sortByPriority()

	want := []string{"a", "b", "c"}
	for i, name := range want {
		if fc.clients[i].name != name {
			t.Errorf("clients[%d].name = %v, want %v", i, fc.clients[i].name, name)
		}
	}
}

// newRPCServer 固定响应的JSON-RPC服务，记录调用次数
func newRPCServer(t *testing.T, calls *atomic.Int64, respond func(method string) (interface{}, *jsonrpcError)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)

		var req jsonrpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}

		resp := jsonrpcResponse{JSONRPC: "2.0", ID: req.ID}
		result, rpcErr := respond(req.Method)
		if rpcErr != nil {
			resp.Error = rpcErr
		} else {
			data, _ := json.Marshal(result)
			resp.Result = data
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestFallbackClient_Failover(t *testing.T) {
	var badCalls, goodCalls atomic.Int64

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		badCalls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer bad.Close()

	good := newRPCServer(t, &goodCalls, func(method string) (interface{}, *jsonrpcError) {
		return map[string]interface{}{"address": testAccountAddr, "sequence": "7"}, nil
	})
	defer good.Close()

	fc, err := NewFallbackClient(ClientConfig{
		Endpoints: []EndpointConfig{
			{Name: "bad", Priority: 1, JSONRPC: bad.URL},
			{Name: "good", Priority: 2, JSONRPC: good.URL},
		},
		RetryAttempts: 2,
		RetryBackoff:  time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewFallbackClient() error = %v", err)
	}
	defer func() { _ = fc.Close() }()

	account, err := fc.GetAccount(context.Background(), testAccountAddr)
	if err != nil {
		t.Fatalf("GetAccount() error = %v", err)
	}
	if account.Sequence != 7 {
		t.Errorf("Sequence = %v, want 7", account.Sequence)
	}
	if badCalls.Load() == 0 {
		t.Error("primary endpoint was never tried")
	}
	if goodCalls.Load() == 0 {
		t.Error("fallback endpoint was never tried")
	}
}

func TestFallbackClient_AccountNotFoundNoRetry(t *testing.T) {
	var calls atomic.Int64
	srv := newRPCServer(t, &calls, func(method string) (interface{}, *jsonrpcError) {
		return nil, &jsonrpcError{Code: -32001, Message: "account not found"}
	})
	defer srv.Close()

	fc, err := NewFallbackClient(ClientConfig{
		Endpoints:     []EndpointConfig{{Name: "only", Priority: 1, JSONRPC: srv.URL}},
		RetryAttempts: 3,
		RetryBackoff:  time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewFallbackClient() error = %v", err)
	}
	defer func() { _ = fc.Close() }()

	_, err = fc.GetAccount(context.Background(), testAccountAddr)
	if !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("GetAccount() error = %v, want ErrAccountNotFound", err)
	}
	// 应用级结果不触发降级重试
	if calls.Load() != 1 {
		t.Errorf("calls = %v, want 1", calls.Load())
	}
}

func TestFallbackClient_SendTransactionSingleAttempt(t *testing.T) {
	var calls atomic.Int64
	srv := newRPCServer(t, &calls, func(method string) (interface{}, *jsonrpcError) {
		return nil, &jsonrpcError{Code: -32000, Message: "mempool full"}
	})
	defer srv.Close()

	fc, err := NewFallbackClient(ClientConfig{
		Endpoints:     []EndpointConfig{{Name: "only", Priority: 1, JSONRPC: srv.URL}},
		RetryAttempts: 3,
		RetryBackoff:  time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewFallbackClient() error = %v", err)
	}
	defer func() { _ = fc.Close() }()

	_, err = fc.SendTransaction(context.Background(), "ZW52ZWxvcGU=")
	if err == nil {
		t.Fatal("SendTransaction() expected error")
	}
	// 已签名交易只允许提交一次
	if calls.Load() != 1 {
		t.Errorf("calls = %v, want 1", calls.Load())
	}
}
