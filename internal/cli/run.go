package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"salesboard/internal/model"
	"salesboard/internal/service/pipeline"
	"salesboard/internal/service/report"
	"salesboard/internal/store"
	"salesboard/internal/util"
)

var (
	runInput        string
	runSupplemental string
	runOutput       string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "生成对比 / 同比 / 本期报表",
	Long: `加载主数据（及可选的补充数据），识别时段角色，聚合渠道，生成报表并整表写入 SQLite。
指定输出目录时同时导出 result.xlsx。

Example:
  salesboard run --input 多时段详细渠道查询.csv
  salesboard run --input sales.xlsx --supplemental 补充.csv --output ./out`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runInput, "input", "",
		"主数据文件 (覆盖 input_file_path)")
	runCmd.Flags().StringVar(&runSupplemental, "supplemental", "",
		"补充数据文件 (覆盖 supplemental_data_path)")
	runCmd.Flags().StringVar(&runOutput, "output", "",
		"result.xlsx 输出目录 (覆盖 output_dir)")
}

func runRun(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := pipeline.NewRunner(cfg, st)
	run, err := runner.Run(ctx, pipeline.RunRequest{
		InputFile:        runInput,
		SupplementalFile: runSupplemental,
		OutputDir:        runOutput,
	})
	if err != nil {
		return err
	}

	printRun(cmd, run)
	return printSummary(cmd, st)
}

func printRun(cmd *cobra.Command, run *model.RunLog) {
	cmd.Printf("运行编号: %s\n", run.ID)
	cmd.Printf("本期:     %s\n", run.CurrentPeriod)
	cmd.Printf("门店数:   %d (存量 %d)\n", run.TotalStores, run.RetainedStores)
	cmd.Printf("写入表:   %d\n", run.TablesWritten)
}

// printSummary 打印汇总渠道本期 / 同期流水与整体同比
func printSummary(cmd *cobra.Command, st *store.Store) error {
	yoy, err := st.ReadTable(report.TableYearOverYear)
	if err != nil {
		return err
	}
	revenue := cfg.Taxonomy.Column(cfg.Taxonomy.SummaryChannel, cfg.Taxonomy.RevenueMetric)
	curIdx := yoy.Index(model.RoleCurrent.Prefix() + revenue)
	yoyIdx := yoy.Index(model.RoleYearOverYear.Prefix() + revenue)

	var current, previous float64
	for _, row := range yoy.Rows {
		current += yoy.Float(row, curIdx)
		previous += yoy.Float(row, yoyIdx)
	}
	rate := report.GrowthRate(current, previous)

	cmd.Printf("本期%s: %s\n", revenue, util.FormatAmount(current))
	cmd.Printf("同期%s: %s\n", revenue, util.FormatAmount(previous))
	cmd.Printf("同比:     %s (%s)\n", util.FormatPercent(rate), report.Direction(rate, cfg.Report.UndefinedGrowthAsFlat))
	return nil
}
