package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

const testAccountAddr = "GAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAWHF"

// newTestServer 按方法分发的JSON-RPC测试服务
func newTestServer(t *testing.T, handlers map[string]func(params []interface{}) (interface{}, *jsonrpcError)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req jsonrpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}

		handler, ok := handlers[req.Method]
		if !ok {
			t.Errorf("unexpected method %q", req.Method)
			return
		}

		resp := jsonrpcResponse{JSONRPC: "2.0", ID: req.ID}
		result, rpcErr := handler(req.Params)
		if rpcErr != nil {
			resp.Error = rpcErr
		} else {
			data, err := json.Marshal(result)
			if err != nil {
				t.Errorf("marshal result: %v", err)
				return
			}
			resp.Result = data
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestJSONRPCClient_GetAccount(t *testing.T) {
	srv := newTestServer(t, map[string]func([]interface{}) (interface{}, *jsonrpcError){
		"grid_getAccount": func(params []interface{}) (interface{}, *jsonrpcError) {
			if len(params) != 1 || params[0] != testAccountAddr {
				t.Errorf("unexpected params %v", params)
			}
			// 序列号以字符串返回
			return map[string]interface{}{
				"address":  testAccountAddr,
				"sequence": "41",
			}, nil
		},
	})
	defer srv.Close()

	client := NewJSONRPCClient(srv.URL, 0)
	defer func() { _ = client.Close() }()

	account, err := client.GetAccount(context.Background(), testAccountAddr)
	if err != nil {
		t.Fatalf("GetAccount() error = %v", err)
	}
	if account.Sequence != 41 {
		t.Errorf("Sequence = %v, want 41", account.Sequence)
	}
	if account.Address != testAccountAddr {
		t.Errorf("Address = %v", account.Address)
	}
}

func TestJSONRPCClient_GetAccount_NotFound(t *testing.T) {
	srv := newTestServer(t, map[string]func([]interface{}) (interface{}, *jsonrpcError){
		"grid_getAccount": func(params []interface{}) (interface{}, *jsonrpcError) {
			return nil, &jsonrpcError{Code: -32001, Message: "account not found"}
		},
	})
	defer srv.Close()

	client := NewJSONRPCClient(srv.URL, 0)
	defer func() { _ = client.Close() }()

	_, err := client.GetAccount(context.Background(), testAccountAddr)
	if !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("GetAccount() error = %v, want ErrAccountNotFound", err)
	}
}

func TestJSONRPCClient_SendTransaction(t *testing.T) {
	tests := []struct {
		name       string
		status     string
		wantErr    bool
		wantStatus SendStatus
	}{
		{"Pending", "pending", false, SendStatusPending},
		{"ImmediatelyFailed", "immediately_failed", false, SendStatusImmediatelyFailed},
		{"Unknown", "queued", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, map[string]func([]interface{}) (interface{}, *jsonrpcError){
				"grid_sendTransaction": func(params []interface{}) (interface{}, *jsonrpcError) {
					return map[string]interface{}{
						"hash":   "abc123",
						"status": tt.status,
					}, nil
				},
			})
			defer srv.Close()

			client := NewJSONRPCClient(srv.URL, 0)
			defer func() { _ = client.Close() }()

			result, err := client.SendTransaction(context.Background(), "ZW52ZWxvcGU=")
			if (err != nil) != tt.wantErr {
				t.Fatalf("SendTransaction() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && result.Status != tt.wantStatus {
				t.Errorf("Status = %v, want %v", result.Status, tt.wantStatus)
			}
		})
	}
}

func TestJSONRPCClient_SimulateTransaction(t *testing.T) {
	srv := newTestServer(t, map[string]func([]interface{}) (interface{}, *jsonrpcError){
		"grid_simulateTransaction": func(params []interface{}) (interface{}, *jsonrpcError) {
			return map[string]interface{}{
				"success": true,
				"auth": []map[string]interface{}{
					{"signer": testAccountAddr, "scope": map[string]string{"fn": "pay_entry_fee"}},
				},
				"resources": map[string]interface{}{"fee": 250},
			}, nil
		},
	})
	defer srv.Close()

	client := NewJSONRPCClient(srv.URL, 0)
	defer func() { _ = client.Close() }()

	result, err := client.SimulateTransaction(context.Background(), "ZW52ZWxvcGU=")
	if err != nil {
		t.Fatalf("SimulateTransaction() error = %v", err)
	}
	if !result.Success {
		t.Error("Success = false, want true")
	}
	if len(result.Auth) != 1 || result.Auth[0].Signer != testAccountAddr {
		t.Errorf("Auth = %+v", result.Auth)
	}
	if result.Resources.Fee != 250 {
		t.Errorf("Resources.Fee = %v, want 250", result.Resources.Fee)
	}
}

func TestJSONRPCClient_GetTransaction(t *testing.T) {
	srv := newTestServer(t, map[string]func([]interface{}) (interface{}, *jsonrpcError){
		"grid_getTransactionByHash": func(params []interface{}) (interface{}, *jsonrpcError) {
			return map[string]interface{}{
				"status": "success",
				"ledger": 1024,
			}, nil
		},
	})
	defer srv.Close()

	client := NewJSONRPCClient(srv.URL, 0)
	defer func() { _ = client.Close() }()

	status, err := client.GetTransaction(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("GetTransaction() error = %v", err)
	}
	if status.Status != ConfirmStatusSuccess {
		t.Errorf("Status = %v, want success", status.Status)
	}
	if status.Hash != "abc123" {
		t.Errorf("Hash = %v, want abc123 (filled from request)", status.Hash)
	}
	if status.Ledger != 1024 {
		t.Errorf("Ledger = %v, want 1024", status.Ledger)
	}
}

func TestParseUint64FromMap(t *testing.T) {
	tests := []struct {
		name   string
		value  interface{}
		want   uint64
		wantOK bool
	}{
		{"String", "42", 42, true},
		{"Hex", "0x2a", 42, true},
		{"Float", float64(42), 42, true},
		{"Invalid", "abc", 0, false},
		{"Missing", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := map[string]interface{}{}
			if tt.value != nil {
				m["sequence"] = tt.value
			}
			got, ok := parseUint64FromMap(m, "sequence")
			if ok != tt.wantOK {
				t.Fatalf("parseUint64FromMap() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("parseUint64FromMap() = %v, want %v", got, tt.want)
			}
		})
	}
}
