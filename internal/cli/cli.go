// Package cli 命令行入口：run / goal / serve / sample
package cli

import (
	"github.com/spf13/cobra"

	"salesboard/internal/config"
	"salesboard/internal/logging"
	"salesboard/internal/store"
)

var (
	// 全局参数
	cfgFile  string
	dbPath   string
	logLevel string

	// 全局配置
	cfg *config.AppConfig

	rootCmd = &cobra.Command{
		Use:   "salesboard",
		Short: "门店多时段渠道报表",
		Long: `salesboard 读取多时段门店渠道明细（csv / xlsx），识别本期、环比期、同期，
按渠道口径聚合后生成对比数据、同比数据（含存量版）与本期明细，写入 SQLite，
并可导出 result.xlsx、按月度目标做目标分解。`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute 执行根命令
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"配置文件 (默认: 可执行文件同目录下的 config.toml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "",
		"SQLite 数据库路径 (覆盖 db_path)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"日志级别 (debug, info, warn, error)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(goalCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sampleCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.LoadConfig(cfgFile)
	if err != nil {
		return err
	}

	// 命令行参数覆盖配置
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		return err
	}
	return logging.Init(cfg.LoggingConfig())
}

func openStore() (*store.Store, error) {
	return store.New(cfg.DBPath)
}
