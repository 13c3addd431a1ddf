package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var playerAccount string

// playerCmd 玩家相关命令
var playerCmd = &cobra.Command{
	Use:   "player",
	Short: "玩家信息",
	Long:  "查询玩家战绩和参赛状态",
}

// playerStatsCmd 查询玩家战绩
var playerStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "查询玩家战绩",
	RunE: func(cmd *cobra.Command, args []string) error {
		if playerAccount == "" {
			return fmt.Errorf("必须指定 --account")
		}

		s, err := buildStack()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		stats, err := s.svc.GetPlayerStats(ctx, playerAccount)
		if err != nil {
			formatter.PrintError(err)
			return err
		}
		if stats == nil {
			formatter.PrintInfo("该账户尚未参赛")
			return nil
		}

		return formatter.Print(stats)
	},
}

// playerStatusCmd 查询参赛状态
var playerStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "查询参赛状态",
	Long:  "查询账户的入场费支付状态(链上视角)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if playerAccount == "" {
			return fmt.Errorf("必须指定 --account")
		}

		s, err := buildStack()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		paid, err := s.svc.HasPaid(ctx, playerAccount)
		if err != nil {
			formatter.PrintError(err)
			return err
		}

		return formatter.Print(map[string]interface{}{
			"account":  playerAccount,
			"has_paid": paid,
		})
	},
}

func init() {
	playerCmd.PersistentFlags().StringVar(&playerAccount, "account", "", "玩家账户地址")

	playerCmd.AddCommand(playerStatsCmd)
	playerCmd.AddCommand(playerStatusCmd)
}
