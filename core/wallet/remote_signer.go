package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RemoteSigner 外部签名服务客户端
//
// 通过 HTTP 与本地签名服务通信，私钥始终保留在签名服务一侧。
// 签名响应的格式差异由 ParseSignResponse 归一化。
type RemoteSigner struct {
	endpoint   string
	httpClient *http.Client
}

// NewRemoteSigner 创建外部签名器
func NewRemoteSigner(endpoint string, timeout time.Duration) *RemoteSigner {
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &RemoteSigner{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// signRequest 签名请求载体
type signRequest struct {
	Envelope string `json:"envelope"`
	Network  string `json:"network"`
}

// IsAvailable 检查签名服务是否在线
func (s *RemoteSigner) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"/status", nil)
	if err != nil {
		return false
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Identity 查询签名服务当前账户地址
func (s *RemoteSigner) Identity(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"/address", nil)
	if err != nil {
		return "", fmt.Errorf("identity request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSignerUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrSignerUnavailable, resp.StatusCode)
	}

	var payload struct {
		Address string `json:"address"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode identity response: %w", err)
	}
	if payload.Address == "" {
		return "", fmt.Errorf("%w: no active account", ErrSignerUnavailable)
	}
	return payload.Address, nil
}

// SignTransaction 请求签名服务签名交易信封
func (s *RemoteSigner) SignTransaction(ctx context.Context, envelope string, network string) (*SignResult, error) {
	body, err := json.Marshal(&signRequest{Envelope: envelope, Network: network})
	if err != nil {
		return nil, fmt.Errorf("marshal sign request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint+"/sign", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("sign request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignerUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read sign response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return ParseSignResponse(respBody)
	case http.StatusForbidden:
		return nil, ErrSigningDeclined
	default:
		return nil, fmt.Errorf("sign request failed: status %d: %s", resp.StatusCode, string(respBody))
	}
}

// Type 签名器类型
func (s *RemoteSigner) Type() SignerType {
	return SignerTypeRemote
}

var _ Signer = (*RemoteSigner)(nil)
