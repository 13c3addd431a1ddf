package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gridsnake/v1/core/wallet"
)

// walletCmd 钱包命令
var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "签名器管理",
	Long:  "查看签名器状态和生成本地助记词",
}

// walletStatusCmd 查询签名器状态
var walletStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "查询签名器状态",
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := currentProfile()
		if err != nil {
			return err
		}

		signer, err := getSigner(profile)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		status := map[string]interface{}{
			"type":      string(signer.Type()),
			"available": signer.IsAvailable(ctx),
		}
		if addr, err := signer.Identity(ctx); err == nil {
			status["address"] = addr
		}

		return formatter.Print(status)
	},
}

// walletGenerateCmd 生成新助记词
var walletGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "生成新助记词",
	Long: `生成24词助记词及对应账户地址

助记词仅打印一次,请妥善保存。使用时设置环境变量
GRIDSNAKE_MNEMONIC。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mnemonic, err := wallet.GenerateMnemonic()
		if err != nil {
			return err
		}

		signer, err := wallet.NewMnemonicSigner(mnemonic, "")
		if err != nil {
			return err
		}

		addr, err := signer.Identity(context.Background())
		if err != nil {
			return err
		}

		formatter.PrintWarning("助记词仅显示一次,请立即抄写保存")
		fmt.Println(mnemonic)
		return formatter.Print(map[string]string{"address": addr})
	},
}

func init() {
	walletCmd.AddCommand(walletStatusCmd)
	walletCmd.AddCommand(walletGenerateCmd)
}
