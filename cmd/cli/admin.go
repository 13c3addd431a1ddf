package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gridsnake/v1/core/builder"
	"github.com/gridsnake/v1/core/contract"
)

var (
	adminAccount   string
	adminSessionID int64
	adminDeadline  string
	adminEntryFee  string
)

// adminCmd 管理员命令
var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "比赛管理",
	Long:  "创建和结束比赛(仅管理员账户)",
}

// adminCreateCmd 创建比赛
var adminCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "创建比赛",
	Long: `创建新一届比赛

参数越界直接拒绝。同一届次的重复创建由合约拒绝,
客户端不做届次查重。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if adminAccount == "" {
			return fmt.Errorf("必须指定 --admin")
		}

		deadline, err := time.Parse(time.RFC3339, adminDeadline)
		if err != nil {
			return fmt.Errorf("解析截止时间 (RFC3339): %w", err)
		}

		fee, err := builder.NewAmountFromString(adminEntryFee)
		if err != nil {
			return fmt.Errorf("解析入场费: %w", err)
		}

		s, err := buildStack()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		res, err := s.svc.CreateCompetition(ctx, contract.CreateCompetitionParams{
			Admin:     adminAccount,
			SessionID: adminSessionID,
			Deadline:  deadline.Unix(),
			EntryFee:  fee,
		})
		if err != nil {
			formatter.PrintError(err)
			return err
		}

		formatter.PrintSuccess(fmt.Sprintf("比赛已创建, 交易 %s", res.TxHash))
		return formatter.Print(map[string]interface{}{
			"tx_hash":    res.TxHash,
			"ledger":     res.Ledger,
			"session_id": adminSessionID,
		})
	},
}

// adminEndCmd 结束比赛
var adminEndCmd = &cobra.Command{
	Use:   "end",
	Short: "结束比赛",
	RunE: func(cmd *cobra.Command, args []string) error {
		if adminAccount == "" {
			return fmt.Errorf("必须指定 --admin")
		}

		s, err := buildStack()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		res, err := s.svc.EndCompetition(ctx, adminAccount)
		if err != nil {
			formatter.PrintError(err)
			return err
		}

		formatter.PrintSuccess(fmt.Sprintf("比赛已结束, 交易 %s", res.TxHash))
		return formatter.Print(map[string]interface{}{
			"tx_hash": res.TxHash,
			"ledger":  res.Ledger,
		})
	},
}

func init() {
	adminCmd.PersistentFlags().StringVar(&adminAccount, "admin", "", "管理员账户地址")
	adminCreateCmd.Flags().Int64Var(&adminSessionID, "session", 0, "届次编号")
	adminCreateCmd.Flags().StringVar(&adminDeadline, "deadline", "", "截止时间 (RFC3339)")
	adminCreateCmd.Flags().StringVar(&adminEntryFee, "fee", "", "入场费 (单位数量或 stroops)")

	adminCmd.AddCommand(adminCreateCmd)
	adminCmd.AddCommand(adminEndCmd)
}
