package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gridsnake/v1/core/builder"
	"github.com/gridsnake/v1/core/config"
	"github.com/gridsnake/v1/core/contract"
	"github.com/gridsnake/v1/core/intent"
	"github.com/gridsnake/v1/core/output"
	"github.com/gridsnake/v1/core/transport"
	"github.com/gridsnake/v1/core/wallet"
)

// GlobalFlags 全局标志
type GlobalFlags struct {
	Profile      string // Profile名称
	ConfigDir    string // 配置目录
	OutputFormat string // 输出格式
	Silent       bool   // 静默模式
	Verbose      bool   // 详细模式
}

var (
	globalFlags GlobalFlags
	profileMgr  *config.ProfileManager
	formatter   *output.Formatter
	logger      *zap.Logger
)

// rootCmd 根命令
var rootCmd = &cobra.Command{
	Use:   "gridsnake",
	Short: "贪吃蛇竞赛链上客户端",
	Long: `GridSnake CLI - 竞赛合约的命令行客户端

把游戏成绩提交到链上比赛合约,支持完整的参赛流程:
- 查询比赛信息、排行榜、个人战绩
- 支付入场费并提交成绩
- 管理员创建和结束比赛
- 多环境配置与端点故障转移

写操作经过 模拟 → 装配 → 外部签名 → 提交 → 确认 的完整生命周期,
同一账户同类操作在途时自动去重。`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env 仅在存在时加载,缺失不报错
		_ = godotenv.Load()

		var err error
		profileMgr, err = config.NewProfileManager(globalFlags.ConfigDir)
		if err != nil {
			return fmt.Errorf("初始化配置: %w", err)
		}

		format := output.Format(globalFlags.OutputFormat)
		formatter = output.NewFormatter(format, os.Stdout)
		formatter.SetSilent(globalFlags.Silent)

		if globalFlags.Verbose {
			logger, err = zap.NewDevelopment()
			if err != nil {
				return fmt.Errorf("初始化日志: %w", err)
			}
		} else {
			logger = zap.NewNop()
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute 执行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&globalFlags.Profile, "profile", "", "使用指定的Profile (默认使用当前Profile)")
	rootCmd.PersistentFlags().StringVar(&globalFlags.ConfigDir, "config-dir", "", "配置目录 (默认: ~/.gridsnake)")
	rootCmd.PersistentFlags().StringVarP(&globalFlags.OutputFormat, "output", "o", "json", "输出格式: json|pretty|text")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.Silent, "silent", false, "静默模式 (仅输出结果)")
	rootCmd.PersistentFlags().BoolVarP(&globalFlags.Verbose, "verbose", "v", false, "详细输出")

	rootCmd.AddCommand(competitionCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(entryCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(adminCmd)
	rootCmd.AddCommand(walletCmd)
	rootCmd.AddCommand(profileCmd)
}

// currentProfile 解析生效的Profile
func currentProfile() (*config.Profile, error) {
	if globalFlags.Profile != "" {
		return profileMgr.GetProfile(globalFlags.Profile)
	}
	return profileMgr.GetCurrentProfile()
}

// getClient 获取传输客户端
func getClient(profile *config.Profile) (transport.Client, error) {
	eps := make([]transport.EndpointConfig, 0, len(profile.Endpoints))
	for _, e := range profile.Endpoints {
		eps = append(eps, transport.EndpointConfig{
			Name:     e.Name,
			Priority: e.Priority,
			JSONRPC:  e.JSONRPC,
		})
	}

	return transport.NewFallbackClient(transport.ClientConfig{
		Endpoints:           eps,
		Timeout:             time.Duration(profile.Timeout),
		RetryAttempts:       profile.RetryAttempts,
		RetryBackoff:        time.Duration(profile.RetryBackoff),
		HealthCheckInterval: time.Duration(profile.HealthCheckInterval),
	})
}

// getSigner 获取签名器
//
// 环境变量 GRIDSNAKE_MNEMONIC 存在时使用本地助记词签名器,
// 否则连接Profile配置的外部签名服务。
func getSigner(profile *config.Profile) (wallet.Signer, error) {
	if mnemonic := os.Getenv("GRIDSNAKE_MNEMONIC"); mnemonic != "" {
		return wallet.NewMnemonicSigner(mnemonic, os.Getenv("GRIDSNAKE_PASSPHRASE"))
	}
	if profile.SignerEndpoint == "" {
		return nil, fmt.Errorf("未配置签名方式: 设置 GRIDSNAKE_MNEMONIC 或 Profile 的 signer_endpoint")
	}
	return wallet.NewRemoteSigner(profile.SignerEndpoint, time.Duration(profile.Timeout)), nil
}

// stack 按Profile装配的完整客户端栈
type stack struct {
	profile *config.Profile
	client  transport.Client
	svc     *contract.Service
}

// buildStack 装配客户端栈
func buildStack() (*stack, error) {
	profile, err := currentProfile()
	if err != nil {
		return nil, fmt.Errorf("获取Profile: %w", err)
	}
	if profile.ContractAddress == "" {
		return nil, fmt.Errorf("Profile %s 未配置 contract_address", profile.Name)
	}

	client, err := getClient(profile)
	if err != nil {
		return nil, err
	}

	signer, err := getSigner(profile)
	if err != nil {
		_ = client.Close()
		return nil, err
	}

	txBuilder := builder.NewTxBuilder(client, profile.Network)
	orch := intent.NewOrchestrator(client, txBuilder, signer, profile.Network, intent.Options{
		PollAttempts: profile.PollAttempts,
		PollInterval: time.Duration(profile.PollInterval),
		Logger:       logger,
	})

	svc, err := contract.NewService(profile.ContractAddress, client, txBuilder, orch, logger)
	if err != nil {
		_ = client.Close()
		return nil, err
	}

	return &stack{
		profile: profile,
		client:  client,
		svc:     svc,
	}, nil
}

// Close 释放客户端栈
func (s *stack) Close() {
	if err := s.client.Close(); err != nil {
		logger.Warn("关闭客户端失败", zap.Error(err))
	}
}
