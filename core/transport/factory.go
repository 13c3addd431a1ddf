package transport

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ClientConfig 客户端配置
type ClientConfig struct {
	// 节点端点(按优先级排序)
	Endpoints []EndpointConfig `json:"endpoints"`

	// 超时配置
	Timeout       time.Duration `json:"timeout"`
	RetryAttempts int           `json:"retry_attempts"`
	RetryBackoff  time.Duration `json:"retry_backoff"`

	// 健康检查
	HealthCheckInterval time.Duration `json:"health_check_interval"`
}

// EndpointConfig 端点配置
type EndpointConfig struct {
	Name     string `json:"name"`
	Priority int    `json:"priority"` // 优先级,数字越小越优先

	JSONRPC string `json:"jsonrpc,omitempty"` // JSON-RPC地址
}

// FallbackClient 支持故障转移的客户端
//
// 查询类调用在端点间降级重试；SendTransaction 只尝试一次，
// 避免同一笔已签名交易被重复提交。
type FallbackClient struct {
	config    ClientConfig
	clients   []clientWithPriority
	current   int
	mu        sync.RWMutex
	closeCh   chan struct{}
	closeOnce sync.Once
}

type clientWithPriority struct {
	name      string
	priority  int
	client    Client
	healthy   bool
	lastCheck time.Time
}

// NewFallbackClient 创建支持故障转移的客户端
func NewFallbackClient(config ClientConfig) (*FallbackClient, error) {
	if len(config.Endpoints) == 0 {
		return nil, fmt.Errorf("no endpoints configured")
	}

	// 设置默认值
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RetryAttempts == 0 {
		config.RetryAttempts = 3
	}
	if config.RetryBackoff == 0 {
		config.RetryBackoff = time.Second
	}
	if config.HealthCheckInterval == 0 {
		config.HealthCheckInterval = 30 * time.Second
	}

	fc := &FallbackClient{
		config:  config,
		clients: make([]clientWithPriority, 0, len(config.Endpoints)),
		closeCh: make(chan struct{}),
	}

	for _, ep := range config.Endpoints {
		if ep.JSONRPC == "" {
			continue // 跳过无效端点
		}

		fc.clients = append(fc.clients, clientWithPriority{
			name:     ep.Name,
			priority: ep.Priority,
			client:   NewJSONRPCClient(ep.JSONRPC, config.Timeout),
			healthy:  true, // 初始假设健康
		})
	}

	if len(fc.clients) == 0 {
		return nil, fmt.Errorf("no valid clients created")
	}

	fc.sortByPriority()

	// 启动健康检查
	go fc.healthCheckLoop()

	return fc, nil
}

// sortByPriority 按优先级排序客户端
func (fc *FallbackClient) sortByPriority() {
	// 简单冒泡排序(客户端数量少)
	for i := 0; i < len(fc.clients)-1; i++ {
		for j := i + 1; j < len(fc.clients); j++ {
			if fc.clients[i].priority > fc.clients[j].priority {
				fc.clients[i], fc.clients[j] = fc.clients[j], fc.clients[i]
			}
		}
	}
}

// healthCheckLoop 健康检查循环
func (fc *FallbackClient) healthCheckLoop() {
	ticker := time.NewTicker(fc.config.HealthCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			fc.checkAllClients()
		case <-fc.closeCh:
			return
		}
	}
}

// checkAllClients 检查所有客户端健康状态
func (fc *FallbackClient) checkAllClients() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	fc.mu.Lock()
	defer fc.mu.Unlock()

	for i := range fc.clients {
		err := fc.clients[i].client.Ping(ctx)
		fc.clients[i].healthy = (err == nil)
		fc.clients[i].lastCheck = time.Now()
	}
}

// getClient 获取当前可用客户端
func (fc *FallbackClient) getClient() Client {
	fc.mu.RLock()
	defer fc.mu.RUnlock()

	if fc.current < len(fc.clients) && fc.clients[fc.current].healthy {
		return fc.clients[fc.current].client
	}

	for i, c := range fc.clients {
		if c.healthy {
			fc.current = i
			return c.client
		}
	}

	// 所有客户端都不健康,返回第一个
	if len(fc.clients) > 0 {
		return fc.clients[0].client
	}

	return nil
}

// tryWithFallback 尝试执行操作,失败时降级
func (fc *FallbackClient) tryWithFallback(ctx context.Context, op func(Client) error) error {
	var lastErr error

	for attempt := 0; attempt < fc.config.RetryAttempts; attempt++ {
		client := fc.getClient()
		if client == nil {
			return fmt.Errorf("no available client")
		}

		err := op(client)
		if err == nil {
			return nil
		}

		// 应用级结果不属于端点故障,直接透传
		if errors.Is(err, ErrAccountNotFound) {
			return err
		}

		lastErr = err

		// 标记当前客户端不健康
		fc.mu.Lock()
		if fc.current < len(fc.clients) {
			fc.clients[fc.current].healthy = false
		}
		fc.mu.Unlock()

		if attempt < fc.config.RetryAttempts-1 {
			select {
			case <-time.After(fc.config.RetryBackoff * time.Duration(attempt+1)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return fmt.Errorf("all endpoints failed: %w", lastErr)
}

// ===== Client接口实现 =====

func (fc *FallbackClient) GetAccount(ctx context.Context, address string) (*Account, error) {
	var result *Account
	err := fc.tryWithFallback(ctx, func(c Client) error {
		var e error
		result, e = c.GetAccount(ctx, address)
		return e
	})
	return result, err
}

func (fc *FallbackClient) SimulateTransaction(ctx context.Context, envelope string) (*SimulateResult, error) {
	var result *SimulateResult
	err := fc.tryWithFallback(ctx, func(c Client) error {
		var e error
		result, e = c.SimulateTransaction(ctx, envelope)
		return e
	})
	return result, err
}

// SendTransaction 提交交易（不做降级重试）
//
// 已签名交易重复提交会破坏"每个意图至多提交一次"的约束，
// 因此提交失败直接上抛，由编排器把它归为 SubmissionError。
func (fc *FallbackClient) SendTransaction(ctx context.Context, envelope string) (*SendTxResult, error) {
	client := fc.getClient()
	if client == nil {
		return nil, fmt.Errorf("no available client")
	}
	return client.SendTransaction(ctx, envelope)
}

func (fc *FallbackClient) GetTransaction(ctx context.Context, txHash string) (*TxStatus, error) {
	var result *TxStatus
	err := fc.tryWithFallback(ctx, func(c Client) error {
		var e error
		result, e = c.GetTransaction(ctx, txHash)
		return e
	})
	return result, err
}

func (fc *FallbackClient) Ping(ctx context.Context) error {
	return fc.tryWithFallback(ctx, func(c Client) error {
		return c.Ping(ctx)
	})
}

func (fc *FallbackClient) CallRaw(ctx context.Context, method string, params []interface{}) (interface{}, error) {
	var result interface{}
	err := fc.tryWithFallback(ctx, func(c Client) error {
		var e error
		result, e = c.CallRaw(ctx, method, params)
		return e
	})
	return result, err
}

func (fc *FallbackClient) Close() error {
	fc.closeOnce.Do(func() {
		close(fc.closeCh)
	})

	var lastErr error
	for _, c := range fc.clients {
		if err := c.client.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// 确保实现了Client接口
var _ Client = (*FallbackClient)(nil)
