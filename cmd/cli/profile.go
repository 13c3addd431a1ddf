package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gridsnake/v1/core/config"
)

var profileSetContract string

// profileCmd Profile管理命令
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Profile管理",
	Long:  "管理配置Profile,支持多环境切换(local/testnet)",
}

// profileListCmd 列出所有profiles
var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "列出所有profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		profiles := profileMgr.ListProfiles()
		current, _ := profileMgr.GetCurrentProfile()

		var result []map[string]interface{}
		for _, name := range profiles {
			profile, err := profileMgr.GetProfile(name)
			if err != nil {
				continue
			}

			result = append(result, map[string]interface{}{
				"name":    name,
				"network": profile.Network,
				"current": current != nil && current.Name == name,
			})
		}

		return formatter.Print(result)
	},
}

// profileShowCmd 显示profile详情
var profileShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "显示profile详情",
	Long:  "显示指定profile的详细配置(不指定则显示当前profile)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var profile *config.Profile
		var err error

		if len(args) > 0 {
			profile, err = profileMgr.GetProfile(args[0])
		} else {
			profile, err = profileMgr.GetCurrentProfile()
		}

		if err != nil {
			formatter.PrintError(err)
			return err
		}

		return formatter.Print(profile)
	},
}

// profileSwitchCmd 切换profile
var profileSwitchCmd = &cobra.Command{
	Use:   "switch <name>",
	Short: "切换profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		if err := profileMgr.SwitchProfile(name); err != nil {
			formatter.PrintError(err)
			return err
		}

		formatter.PrintSuccess(fmt.Sprintf("已切换到 profile '%s'", name))
		return nil
	},
}

// profileSetCmd 修改profile配置
var profileSetCmd = &cobra.Command{
	Use:   "set [name]",
	Short: "修改profile配置",
	Long:  "修改指定profile的配置项(不指定则修改当前profile)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var profile *config.Profile
		var err error

		if len(args) > 0 {
			profile, err = profileMgr.GetProfile(args[0])
		} else {
			profile, err = profileMgr.GetCurrentProfile()
		}
		if err != nil {
			formatter.PrintError(err)
			return err
		}

		if profileSetContract != "" {
			profile.ContractAddress = profileSetContract
		}

		if err := profileMgr.SaveProfile(profile); err != nil {
			formatter.PrintError(err)
			return err
		}

		formatter.PrintSuccess(fmt.Sprintf("profile '%s' 已更新", profile.Name))
		return nil
	},
}

func init() {
	profileSetCmd.Flags().StringVar(&profileSetContract, "contract", "", "比赛合约地址")

	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSwitchCmd)
	profileCmd.AddCommand(profileSetCmd)
}
