// Package config 客户端配置 Profile 管理
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Profile CLI配置Profile
type Profile struct {
	Name    string `json:"name"`    // Profile名称: local/testnet/mainnet
	Network string `json:"network"` // 网络标识（签名防重放域）

	// 合约
	ContractAddress string `json:"contract_address"` // 比赛合约地址

	// 节点端点(按优先级排序)
	Endpoints []EndpointConfig `json:"endpoints"`

	// 签名
	SignerEndpoint string `json:"signer_endpoint,omitempty"` // 外部签名服务地址

	// 本地路径
	CachePath string `json:"cache_path"` // 缓存目录
	DataPath  string `json:"data_path"`  // 数据目录

	// 网络配置
	Timeout       Duration `json:"timeout"`        // 请求超时
	RetryAttempts int      `json:"retry_attempts"` // 读请求重试次数
	RetryBackoff  Duration `json:"retry_backoff"`  // 退避时间

	// 故障转移
	HealthCheckInterval Duration `json:"health_check_interval"` // 健康检查间隔

	// 确认轮询
	PollAttempts int      `json:"poll_attempts"` // 轮询次数上限
	PollInterval Duration `json:"poll_interval"` // 轮询间隔

	// 快照刷新
	RefreshInterval Duration `json:"refresh_interval"` // 快照刷新节奏
	CacheTTL        Duration `json:"cache_ttl"`        // 快照存活时间
}

// EndpointConfig 端点配置
type EndpointConfig struct {
	Name     string `json:"name"`     // 端点名称
	Priority int    `json:"priority"` // 优先级(数字越小越优先)

	JSONRPC string `json:"jsonrpc"` // JSON-RPC地址
}

// Duration 时间duration(支持JSON序列化)
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}

	*d = Duration(dur)
	return nil
}

// ProfileManager Profile管理器
type ProfileManager struct {
	configDir      string
	currentProfile string
	profiles       map[string]*Profile
}

// NewProfileManager 创建Profile管理器
func NewProfileManager(configDir string) (*ProfileManager, error) {
	if configDir == "" {
		// 默认配置目录: ~/.gridsnake
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		configDir = filepath.Join(homeDir, ".gridsnake")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}

	pm := &ProfileManager{
		configDir: configDir,
		profiles:  make(map[string]*Profile),
	}

	if err := pm.loadProfiles(); err != nil {
		return nil, err
	}

	if err := pm.loadCurrentProfile(); err != nil {
		// 如果没有当前profile,使用默认
		pm.currentProfile = "local"
	}

	return pm, nil
}

// loadProfiles 加载所有profiles
func (pm *ProfileManager) loadProfiles() error {
	profilesDir := filepath.Join(pm.configDir, "profiles")

	// 如果profiles目录不存在,创建默认profiles
	if _, err := os.Stat(profilesDir); os.IsNotExist(err) {
		if err := os.MkdirAll(profilesDir, 0700); err != nil {
			return fmt.Errorf("create profiles dir: %w", err)
		}

		if err := pm.createDefaultProfiles(); err != nil {
			return err
		}
	}

	entries, err := os.ReadDir(profilesDir)
	if err != nil {
		return fmt.Errorf("read profiles dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		profilePath := filepath.Join(profilesDir, entry.Name())
		profile, err := pm.loadProfile(profilePath)
		if err != nil {
			// 记录错误但继续
			fmt.Fprintf(os.Stderr, "Warning: failed to load profile %s: %v\n", entry.Name(), err)
			continue
		}

		pm.profiles[profile.Name] = profile
	}

	return nil
}

// loadProfile 加载单个profile
func (pm *ProfileManager) loadProfile(filePath string) (*Profile, error) {
	//nolint:gosec // G304: filePath 来自配置目录，路径安全可控
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	var profile Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}

	pm.applyDefaults(&profile)
	return &profile, nil
}

// applyDefaults 填充默认值
func (pm *ProfileManager) applyDefaults(profile *Profile) {
	if profile.CachePath == "" {
		profile.CachePath = filepath.Join(pm.configDir, "cache", profile.Name)
	}
	if profile.DataPath == "" {
		profile.DataPath = filepath.Join(pm.configDir, "data", profile.Name)
	}

	if profile.Timeout == 0 {
		profile.Timeout = Duration(30 * time.Second)
	}
	if profile.RetryAttempts == 0 {
		profile.RetryAttempts = 3
	}
	if profile.RetryBackoff == 0 {
		profile.RetryBackoff = Duration(time.Second)
	}
	if profile.HealthCheckInterval == 0 {
		profile.HealthCheckInterval = Duration(30 * time.Second)
	}

	if profile.PollAttempts == 0 {
		profile.PollAttempts = 10
	}
	if profile.PollInterval == 0 {
		profile.PollInterval = Duration(time.Second)
	}
	if profile.RefreshInterval == 0 {
		profile.RefreshInterval = Duration(5 * time.Second)
	}
	if profile.CacheTTL == 0 {
		profile.CacheTTL = Duration(time.Minute)
	}
}

// loadCurrentProfile 加载当前profile
func (pm *ProfileManager) loadCurrentProfile() error {
	currentFile := filepath.Join(pm.configDir, "current")
	//nolint:gosec // G304: currentFile 来自配置目录，路径安全可控
	data, err := os.ReadFile(currentFile)
	if err != nil {
		return err
	}

	pm.currentProfile = string(data)
	return nil
}

// saveCurrentProfile 保存当前profile
func (pm *ProfileManager) saveCurrentProfile() error {
	currentFile := filepath.Join(pm.configDir, "current")
	return os.WriteFile(currentFile, []byte(pm.currentProfile), 0600)
}

// createDefaultProfiles 创建默认profiles
func (pm *ProfileManager) createDefaultProfiles() error {
	profiles := []*Profile{
		{
			Name:    "local",
			Network: "gridsnake-local",
			Endpoints: []EndpointConfig{
				{
					Name:     "local-node",
					Priority: 1,
					JSONRPC:  "http://localhost:8000/jsonrpc",
				},
			},
			SignerEndpoint:      "http://localhost:8100",
			Timeout:             Duration(30 * time.Second),
			RetryAttempts:       3,
			RetryBackoff:        Duration(time.Second),
			HealthCheckInterval: Duration(30 * time.Second),
			PollAttempts:        10,
			PollInterval:        Duration(time.Second),
			RefreshInterval:     Duration(5 * time.Second),
			CacheTTL:            Duration(time.Minute),
		},
		{
			Name:    "testnet",
			Network: "gridsnake-testnet",
			Endpoints: []EndpointConfig{
				{
					Name:     "testnet-primary",
					Priority: 1,
					JSONRPC:  "https://testnet-rpc.gridsnake.io/jsonrpc",
				},
				{
					Name:     "testnet-backup",
					Priority: 2,
					JSONRPC:  "https://testnet-rpc2.gridsnake.io/jsonrpc",
				},
			},
			Timeout:             Duration(60 * time.Second),
			RetryAttempts:       5,
			RetryBackoff:        Duration(2 * time.Second),
			HealthCheckInterval: Duration(60 * time.Second),
			PollAttempts:        10,
			PollInterval:        Duration(time.Second),
			RefreshInterval:     Duration(10 * time.Second),
			CacheTTL:            Duration(time.Minute),
		},
	}

	for _, profile := range profiles {
		if err := pm.SaveProfile(profile); err != nil {
			return err
		}
	}

	pm.currentProfile = "local"
	return pm.saveCurrentProfile()
}

// GetProfile 获取指定profile
func (pm *ProfileManager) GetProfile(name string) (*Profile, error) {
	profile, exists := pm.profiles[name]
	if !exists {
		return nil, fmt.Errorf("profile not found: %s", name)
	}
	return profile, nil
}

// GetCurrentProfile 获取当前profile
func (pm *ProfileManager) GetCurrentProfile() (*Profile, error) {
	return pm.GetProfile(pm.currentProfile)
}

// ListProfiles 列出所有profiles
func (pm *ProfileManager) ListProfiles() []string {
	names := make([]string, 0, len(pm.profiles))
	for name := range pm.profiles {
		names = append(names, name)
	}
	return names
}

// SaveProfile 保存profile
func (pm *ProfileManager) SaveProfile(profile *Profile) error {
	pm.applyDefaults(profile)

	profilePath := filepath.Join(pm.configDir, "profiles", profile.Name+".json")

	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	if err := os.WriteFile(profilePath, data, 0600); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}

	pm.profiles[profile.Name] = profile
	return nil
}

// SwitchProfile 切换profile
func (pm *ProfileManager) SwitchProfile(name string) error {
	if _, exists := pm.profiles[name]; !exists {
		return fmt.Errorf("profile not found: %s", name)
	}

	pm.currentProfile = name
	return pm.saveCurrentProfile()
}

// DeleteProfile 删除profile
func (pm *ProfileManager) DeleteProfile(name string) error {
	// 不能删除当前profile
	if name == pm.currentProfile {
		return fmt.Errorf("cannot delete current profile")
	}

	profilePath := filepath.Join(pm.configDir, "profiles", name+".json")
	if err := os.Remove(profilePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete profile file: %w", err)
	}

	delete(pm.profiles, name)
	return nil
}
