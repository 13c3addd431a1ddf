package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gridsnake/v1/core/transport"
	"github.com/gridsnake/v1/core/wallet"
	"github.com/gridsnake/v1/pkg/ux/ui"
)

var (
	entryAccount string
	entryYes     bool
)

// entryCmd 入场费命令
var entryCmd = &cobra.Command{
	Use:   "entry",
	Short: "入场费管理",
	Long:  "支付入场费以获得一次成绩提交资格",
}

// entryPayCmd 支付入场费
var entryPayCmd = &cobra.Command{
	Use:   "pay",
	Short: "支付入场费",
	Long: `支付当前比赛的入场费

交易经过完整生命周期: 模拟 → 装配 → 外部签名 → 提交 → 确认。
确认成功后获得一次成绩提交资格,提交一次成绩后资格即消耗。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if entryAccount == "" {
			return fmt.Errorf("必须指定 --account")
		}

		s, err := buildStack()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		comp := ui.NewComponents(ui.NoopLogger())

		fee, err := s.svc.GetEntryFee(ctx)
		if err != nil {
			formatter.PrintError(err)
			return err
		}

		if !entryYes {
			ok, err := comp.ShowConfirmDialog("支付入场费",
				fmt.Sprintf("将从 %s 支付 %s,确认?", ui.ShortAddress(entryAccount), fee.StringTrimmed()))
			if err != nil {
				return err
			}
			if !ok {
				formatter.PrintInfo("已取消")
				return nil
			}
		}

		spinner := comp.ShowSpinner("支付入场费中...")
		_ = spinner.Start()

		res, err := s.svc.PayEntryFee(ctx, entryAccount)
		if err != nil {
			_ = spinner.Fail(translateIntentError(err))
			return err
		}

		_ = spinner.Success(fmt.Sprintf("支付确认, 交易 %s", res.TxHash))
		return formatter.Print(map[string]interface{}{
			"tx_hash": res.TxHash,
			"ledger":  res.Ledger,
		})
	},
}

// translateIntentError 把意图错误翻译为用户可读提示
func translateIntentError(err error) string {
	switch {
	case errors.Is(err, transport.ErrAccountNotFound):
		return "账户不存在,请先使用已注资的账户"
	case errors.Is(err, wallet.ErrSigningDeclined):
		return "签名已取消"
	case errors.Is(err, wallet.ErrSignerUnavailable):
		return "签名器不可用,请检查签名服务"
	default:
		return err.Error()
	}
}

func init() {
	entryPayCmd.Flags().StringVar(&entryAccount, "account", "", "付费账户地址")
	entryPayCmd.Flags().BoolVarP(&entryYes, "yes", "y", false, "跳过确认")

	entryCmd.AddCommand(entryPayCmd)
}
