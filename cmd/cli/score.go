package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gridsnake/v1/core/intent"
	"github.com/gridsnake/v1/pkg/ux/ui"
)

var (
	scoreAccount string
	scoreValue   uint64
)

// scoreCmd 成绩命令
var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "成绩管理",
	Long:  "提交游戏成绩到链上比赛",
}

// scoreSubmitCmd 提交成绩
var scoreSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "提交成绩",
	Long: `提交一局游戏的最终成绩

要求账户已支付入场费且资格未消耗。确认成功后资格即消耗,
再次提交需要重新支付入场费。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if scoreAccount == "" {
			return fmt.Errorf("必须指定 --account")
		}

		s, err := buildStack()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		// 链上支付状态同步到本地门禁,CLI 每次运行都是新进程
		paid, err := s.svc.HasPaid(ctx, scoreAccount)
		if err != nil {
			formatter.PrintError(err)
			return err
		}
		if paid {
			s.svc.Orchestrator().Gate().Open(scoreAccount)
		}

		comp := ui.NewComponents(ui.NoopLogger())
		spinner := comp.ShowSpinner("提交成绩中...")
		_ = spinner.Start()

		res, err := s.svc.SubmitScore(ctx, scoreAccount, scoreValue)
		if err != nil {
			_ = spinner.Fail(translateIntentError(err))
			if errors.Is(err, intent.ErrEntryNotPaid) {
				formatter.PrintWarning("尚未支付入场费,请先执行 gridsnake entry pay")
			}
			if errors.Is(err, intent.ErrConfirmationTimeout) {
				formatter.PrintWarning("确认超时,交易结果未知;重试前请先核对排行榜,避免重复提交")
			}
			return err
		}

		_ = spinner.Success(fmt.Sprintf("成绩确认, 交易 %s", res.TxHash))
		return formatter.Print(map[string]interface{}{
			"tx_hash": res.TxHash,
			"ledger":  res.Ledger,
			"score":   scoreValue,
		})
	},
}

func init() {
	scoreSubmitCmd.Flags().StringVar(&scoreAccount, "account", "", "提交账户地址")
	scoreSubmitCmd.Flags().Uint64Var(&scoreValue, "score", 0, "最终成绩")

	scoreCmd.AddCommand(scoreSubmitCmd)
}
