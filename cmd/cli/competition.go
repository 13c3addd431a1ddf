package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gridsnake/v1/core/cache"
	"github.com/gridsnake/v1/core/contract"
	"github.com/gridsnake/v1/pkg/ux/ui"
)

var competitionWatchInterval time.Duration

// competitionCmd 比赛相关命令
var competitionCmd = &cobra.Command{
	Use:   "competition",
	Short: "比赛信息",
	Long:  "查询和跟踪当前比赛状态",
}

// competitionShowCmd 查询当前比赛
var competitionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "查询当前比赛",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := buildStack()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		comp, err := s.svc.GetCompetition(ctx)
		if err != nil {
			formatter.PrintError(err)
			return err
		}
		if comp == nil {
			formatter.PrintInfo("当前没有进行中的比赛")
			return nil
		}

		return formatter.Print(comp)
	},
}

// competitionWatchCmd 持续跟踪比赛状态
var competitionWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "持续跟踪比赛状态",
	Long:  "按固定节奏刷新比赛快照并展示,Ctrl+C 退出",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := buildStack()
		if err != nil {
			return err
		}
		defer s.Close()

		store, err := cache.NewStore(time.Duration(s.profile.CacheTTL))
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		refresher, err := cache.NewRefresher(s.svc, store, competitionWatchInterval, logger)
		if err != nil {
			return err
		}
		refresher.RefreshNow()
		refresher.Start()
		defer func() { _ = refresher.Stop() }()

		comp := ui.NewComponents(ui.NoopLogger())
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		ticker := time.NewTicker(competitionWatchInterval)
		defer ticker.Stop()

		for {
			var current contract.Competition
			if err := store.GetCompetition(&current); err == nil {
				_ = comp.ShowKeyValuePairs("当前比赛", competitionPairs(&current))
			} else {
				_ = comp.ShowInfo("等待比赛快照...")
			}

			select {
			case <-sig:
				return nil
			case <-ticker.C:
			}
		}
	},
}

// competitionPairs 比赛信息的展示键值对
func competitionPairs(c *contract.Competition) [][2]string {
	return [][2]string{
		{"届次", strconv.FormatUint(uint64(c.SessionID), 10)},
		{"状态", string(c.Status)},
		{"截止", ui.FormatDeadline(c.Deadline, time.Now())},
		{"奖池", c.PrizePool.StringTrimmed()},
		{"入场费", c.EntryFee.StringTrimmed()},
		{"参赛人数", strconv.FormatUint(uint64(c.TotalPlayers), 10)},
	}
}

// competitionFeeCmd 查询入场费
var competitionFeeCmd = &cobra.Command{
	Use:   "fee",
	Short: "查询入场费",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := buildStack()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		fee, err := s.svc.GetEntryFee(ctx)
		if err != nil {
			formatter.PrintError(err)
			return err
		}

		return formatter.Print(map[string]string{
			"entry_fee":         fee.StringTrimmed(),
			"entry_fee_stroops": fee.StringStroops(),
		})
	},
}

func init() {
	competitionWatchCmd.Flags().DurationVar(&competitionWatchInterval, "interval", 5*time.Second, "刷新间隔")

	competitionCmd.AddCommand(competitionShowCmd)
	competitionCmd.AddCommand(competitionWatchCmd)
	competitionCmd.AddCommand(competitionFeeCmd)
}
