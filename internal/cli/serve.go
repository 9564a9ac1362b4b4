package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"salesboard/internal/server"
	"salesboard/internal/service/pipeline"
)

var (
	servePort int
	serveDev  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动只读报表 API",
	Long: `启动 HTTP 服务，提供报表输出表查询与运行触发：
  GET  /api/health
  GET  /api/periods
  GET  /api/tables
  GET  /api/tables/:name
  GET  /api/runs
  POST /api/runs
  POST /api/goal`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0,
		"服务端口 (覆盖 server.port)")
	serveCmd.Flags().BoolVar(&serveDev, "dev", false,
		"开发模式")
}

func runServe(cmd *cobra.Command, args []string) error {
	if servePort > 0 {
		cfg.Server.Port = servePort
	}
	if serveDev {
		cfg.Server.DevMode = true
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	srv := server.NewServer(cfg, st, pipeline.NewRunner(cfg, st))
	return srv.Run(fmt.Sprintf(":%d", cfg.Server.Port))
}
