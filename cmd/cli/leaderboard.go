package main

import (
	"context"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/gridsnake/v1/pkg/ux/ui"
)

var leaderboardTable bool

// leaderboardCmd 排行榜命令
var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "查询排行榜",
	Long:  "查询当前比赛的玩家排名,按总分降序",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := buildStack()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		standings, err := s.svc.GetLeaderboard(ctx)
		if err != nil {
			formatter.PrintError(err)
			return err
		}
		if len(standings) == 0 {
			formatter.PrintInfo("排行榜为空")
			return nil
		}

		if leaderboardTable {
			comp := ui.NewComponents(ui.NoopLogger())
			data := [][]string{{"排名", "玩家", "总分", "局数"}}
			for _, st := range standings {
				data = append(data, []string{
					strconv.FormatUint(uint64(st.Rank), 10),
					ui.ShortAddress(st.Player),
					strconv.FormatUint(st.TotalScore, 10),
					strconv.FormatUint(uint64(st.TotalGames), 10),
				})
			}
			return comp.ShowTable("排行榜", data)
		}

		return formatter.Print(standings)
	},
}

func init() {
	leaderboardCmd.Flags().BoolVar(&leaderboardTable, "table", false, "以表格形式展示")
}
