package cli

import (
	"github.com/spf13/cobra"

	"salesboard/internal/service/pipeline"
)

var (
	goalFile   string
	goalOutput string
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "按本期月份汇总目标并分解到渠道",
	Long: `读取上一次 run 写入的 期数 与 同比数据，结合目标表（--goal-file 或数据库中的 goal 表），
生成 目标分解 表。指定输出目录时同时导出 goal.xlsx。

Example:
  salesboard goal --goal-file 目标.xlsx --output ./out`,
	RunE: runGoal,
}

func init() {
	goalCmd.Flags().StringVar(&goalFile, "goal-file", "",
		"目标文件 csv / xlsx (覆盖 goal_data_path；留空读取数据库 goal 表)")
	goalCmd.Flags().StringVar(&goalOutput, "output", "",
		"goal.xlsx 输出目录 (覆盖 output_dir)")
}

func runGoal(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := pipeline.NewRunner(cfg, st).Goal(cmd.Context(), pipeline.GoalRequest{
		GoalFile:  goalFile,
		OutputDir: goalOutput,
	})
	if err != nil {
		return err
	}

	cmd.Printf("运行编号: %s\n", run.ID)
	cmd.Printf("本期:     %s\n", run.CurrentPeriod)
	cmd.Printf("门店数:   %d\n", run.TotalStores)
	return nil
}
