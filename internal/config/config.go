package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/pelletier/go-toml/v2"

	"salesboard/internal/logging"
	"salesboard/internal/model"
	"salesboard/internal/service/report"
)

// AppConfig 应用配置
type AppConfig struct {
	DBPath               string `toml:"db_path"`
	InputFilePath        string `toml:"input_file_path"`
	SalesDataPath        string `toml:"sales_data_path"` // input_file_path 的旧名
	SupplementalDataPath string `toml:"supplemental_data_path"`
	GoalDataPath         string `toml:"goal_data_path"`
	OutputDir            string `toml:"output_dir"`

	Columns   model.ColumnNames     `toml:"columns"`
	Taxonomy  model.ChannelTaxonomy `toml:"taxonomy"`
	Order     model.OrderSpec       `toml:"order"`
	Report    ReportConfig          `toml:"report"`
	Retention RetentionConfig       `toml:"retention"`
	Goal      GoalConfig            `toml:"goal"`
	Log       LogConfig             `toml:"log"`
	Server    ServerConfig          `toml:"server"`
}

// ReportConfig 同比报表口径开关
type ReportConfig struct {
	ExcludeDiscount       bool `toml:"exclude_discount"`
	UndefinedGrowthAsFlat bool `toml:"undefined_growth_as_flat"`
}

// RetentionConfig 存量版配置
type RetentionConfig struct {
	Enabled bool  `toml:"enabled"`
	Years   []int `toml:"years"`
}

// GoalConfig 目标分解配置
type GoalConfig struct {
	Table   string           `toml:"table"` // 数据库中的目标表
	Metrics []string         `toml:"metrics"`
	Pools   []model.GoalPool `toml:"pools"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `toml:"level"`
	Pretty bool   `toml:"pretty"`
	File   string `toml:"file"` // 为空时只输出到控制台
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		DBPath:    "salesboard.db",
		OutputDir: "",
		Columns: model.ColumnNames{
			Store:      "门店编号",
			Period:     "查询时段",
			Date:       "日期",
			DateMarker: "日期",
		},
		Taxonomy: model.ChannelTaxonomy{
			Metrics:           []string{"流水", "实收", "优惠", "订单数"},
			RevenueMetric:     "流水",
			DiscountMetric:    "优惠",
			ActivityDayMetric: "营业天数",
			ActiveStoreMetric: "营业门店",
			SummaryChannel:    "汇总",
			MergeSuffix:       "_tg",
			Composites: []model.Composite{
				{Name: "甜啦啦小程序", Sources: []string{"甜啦啦小程序-储值业务"}, DropSources: true},
				{Name: "美团大众点评团购", Sources: []string{"线上新增美团团购"}, DropSources: true},
				{Name: "抖音团购", Sources: []string{"线上新增抖音团购"}, DropSources: true},
				{Name: "快手团购", Sources: []string{"线上新增快手团购"}, DropSources: true},
				{Name: "汇总", Sources: []string{"新增汇总"}, DropSources: true},
				{Name: "线上外卖", Sources: []string{"美团外卖", "饿了么外卖"}},
				// 目标分解渠道池
				{Name: "pos小程序", Sources: []string{"pos", "甜啦啦小程序"}},
				{Name: "美团团购", Sources: []string{"美团大众点评团购", "美团/大众点评团购", "美团/大众点评小程序"}},
				{Name: "抖音", Sources: []string{"抖音团购", "抖音小程序"}},
			},
		},
		Order: model.OrderSpec{
			Channels: []string{
				"汇总", "线上外卖", "pos小程序", "美团团购", "抖音", "pos", "甜啦啦小程序", "美团外卖", "饿了么外卖", "快手团购", "抖音团购",
				"美团/大众点评团购", "美团/大众点评小程序", "抖音小程序",
			},
			Metrics: []string{"营业天数", "流水", "实收", "优惠", "订单数"},
			Periods: []string{"本期", "环比期", "同期"},
		},
		Report: ReportConfig{
			ExcludeDiscount: true,
		},
		Retention: RetentionConfig{
			Enabled: true,
		},
		Goal: GoalConfig{
			Table:   "goal",
			Metrics: []string{"流水", "实收", "订单数"},
			Pools: []model.GoalPool{
				{Name: "全渠道池", Target: "全渠道目标", MonthPrefix: "全渠道", Channels: []string{"pos小程序", "美团团购", "抖音"}},
				{Name: "外卖池", Target: "外卖目标", MonthPrefix: "外卖渠道", Channels: []string{"线上外卖"}},
			},
		},
		Log: LogConfig{
			Level:  "info",
			Pretty: true,
		},
		Server: ServerConfig{
			Port:    20261,
			DevMode: false,
		},
	}
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// DefaultPath 默认配置文件路径：可执行文件同目录下的 config.toml
func DefaultPath() string {
	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		exeDir = "."
	}
	return filepath.Join(exeDir, "config.toml")
}

// LoadConfig 从指定 TOML 文件加载配置，path 为空时使用 DefaultPath
// 文件不存在时使用默认配置
func LoadConfig(path string) (*AppConfig, error) {
	if path == "" {
		path = DefaultPath()
	}
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		logging.Debug().Str("path", path).Msg("配置文件不存在，使用默认配置")
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	applyEnv(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// 环境变量覆盖（用于容器 / 本地运行）
func applyEnv(config *AppConfig) {
	if v := os.Getenv("SALESBOARD_DB_PATH"); v != "" {
		config.DBPath = v
	}
	if v := os.Getenv("SALESBOARD_INPUT_FILE"); v != "" {
		config.InputFilePath = v
	}
	if v := os.Getenv("SALESBOARD_LOG_LEVEL"); v != "" {
		config.Log.Level = v
	}
}

// SaveConfig 保存配置到指定路径
func SaveConfig(config *AppConfig, path string) error {
	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ErrInvalidConfig 配置校验失败
var ErrInvalidConfig = errors.New("invalid config")

// Validate 校验配置
func (c *AppConfig) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if c.Columns.Store == "" || c.Columns.Period == "" {
		invalid("columns.store and columns.period are required")
	}
	if len(c.Taxonomy.Metrics) == 0 {
		invalid("taxonomy.metrics is empty")
	}
	if c.Taxonomy.RevenueMetric == "" || c.Taxonomy.SummaryChannel == "" {
		invalid("taxonomy.revenue_metric and taxonomy.summary_channel are required")
	}
	if len(c.Order.Channels) == 0 || len(c.Order.Metrics) == 0 || len(c.Order.Periods) == 0 {
		invalid("order priority lists must not be empty")
	}

	feeds := make(map[string]string)
	for _, comp := range c.Taxonomy.Composites {
		if comp.Name == "" || len(comp.Sources) == 0 {
			invalid("taxonomy composite %q needs a name and sources", comp.Name)
			continue
		}
		for _, src := range comp.Sources {
			if prev, ok := feeds[src]; ok && prev != comp.Name {
				invalid("source channel %q feeds both %q and %q", src, prev, comp.Name)
				continue
			}
			feeds[src] = comp.Name
		}
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		invalid("log.level: %v", err)
	}

	if n := len(c.Retention.Years); n != 0 && n != 2 {
		invalid("retention.years must list exactly 2 years, got %d", n)
	}

	for _, pool := range c.Goal.Pools {
		if pool.Name == "" || pool.Target == "" || pool.MonthPrefix == "" {
			invalid("goal pool %q needs name, target and month_prefix", pool.Name)
		}
		if len(pool.Channels) == 0 {
			invalid("goal pool %q has no channels", pool.Name)
		}
		for _, ch := range pool.Channels {
			if !c.knownChannel(ch) {
				invalid("goal pool %q channel %q is neither a composite nor in order.channels", pool.Name, ch)
			}
		}
	}

	return errors.Join(errs...)
}

// knownChannel 渠道是组合渠道或出现在排序渠道列表中
func (c *AppConfig) knownChannel(channel string) bool {
	if slices.Contains(c.Order.Channels, channel) {
		return true
	}
	for _, comp := range c.Taxonomy.Composites {
		if comp.Name == channel {
			return true
		}
	}
	return false
}

// SalesPath 主数据文件路径，input_file_path 优先
func (c *AppConfig) SalesPath() string {
	if c.InputFilePath != "" {
		return c.InputFilePath
	}
	return c.SalesDataPath
}

// ReportOptions 报表流水线参数
func (c *AppConfig) ReportOptions() report.Options {
	return report.Options{
		Columns:  c.Columns,
		Taxonomy: c.Taxonomy,
		Order:    c.Order,
		Derive: report.DeriveOptions{
			ExcludeDiscount:       c.Report.ExcludeDiscount,
			UndefinedGrowthAsFlat: c.Report.UndefinedGrowthAsFlat,
		},
		Retention: report.RetentionOptions{
			Enabled: c.Retention.Enabled,
			Years:   c.Retention.Years,
		},
	}
}

// LoggingConfig 日志参数
func (c *AppConfig) LoggingConfig() logging.Config {
	return logging.Config{
		Level:  c.Log.Level,
		Pretty: c.Log.Pretty,
		File:   c.Log.File,
	}
}
