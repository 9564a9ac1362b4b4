package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != "salesboard.db" || cfg.Columns.Store != "门店编号" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if len(cfg.Goal.Pools) != 2 {
		t.Fatalf("unexpected goal pools: %+v", cfg.Goal.Pools)
	}
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
db_path = "out/report.db"
sales_data_path = "多时段详细渠道查询.csv"
supplemental_data_path = "补充.csv"

[report]
exclude_discount = false
undefined_growth_as_flat = true

[retention]
enabled = true
years = [2025, 2024]

[taxonomy]
metrics = ["流水", "订单数"]
revenue_metric = "流水"
summary_channel = "汇总"
merge_suffix = "_tg"

[[taxonomy.composites]]
name = "汇总"
sources = ["新增汇总"]
drop_sources = true

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != "out/report.db" {
		t.Fatalf("unexpected db_path: %s", cfg.DBPath)
	}
	if cfg.SalesPath() != "多时段详细渠道查询.csv" {
		t.Fatalf("sales_data_path alias not applied: %s", cfg.SalesPath())
	}
	if len(cfg.Taxonomy.Composites) != 1 || !cfg.Taxonomy.Composites[0].DropSources {
		t.Fatalf("unexpected composites: %+v", cfg.Taxonomy.Composites)
	}
	// 未出现的表保留默认值
	if len(cfg.Order.Channels) == 0 || cfg.Columns.Period != "查询时段" {
		t.Fatalf("defaults lost: %+v", cfg.Order)
	}

	opts := cfg.ReportOptions()
	if opts.Derive.ExcludeDiscount || !opts.Derive.UndefinedGrowthAsFlat {
		t.Fatalf("unexpected derive options: %+v", opts.Derive)
	}
	if len(opts.Retention.Years) != 2 || opts.Retention.Years[0] != 2025 {
		t.Fatalf("unexpected retention: %+v", opts.Retention)
	}
	if cfg.LoggingConfig().Level != "debug" {
		t.Fatalf("unexpected log level: %s", cfg.LoggingConfig().Level)
	}
}

func TestLoadConfig_InputPathWins(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SalesDataPath = "old.csv"
	cfg.InputFilePath = "new.csv"
	if cfg.SalesPath() != "new.csv" {
		t.Fatalf("input_file_path must take precedence")
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("SALESBOARD_DB_PATH", "env.db")
	t.Setenv("SALESBOARD_LOG_LEVEL", "warn")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != "env.db" || cfg.Log.Level != "warn" {
		t.Fatalf("env override not applied: %s %s", cfg.DBPath, cfg.Log.Level)
	}
}

func TestLoadConfig_BadToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("db_path = ["), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config must be valid: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(c *AppConfig)
	}{
		{"empty metrics", func(c *AppConfig) { c.Taxonomy.Metrics = nil }},
		{"empty channel order", func(c *AppConfig) { c.Order.Channels = nil }},
		{"empty period order", func(c *AppConfig) { c.Order.Periods = nil }},
		{"source feeds two composites", func(c *AppConfig) {
			c.Taxonomy.Composites[len(c.Taxonomy.Composites)-1].Sources = []string{"美团外卖", "新增汇总"}
		}},
		{"pool without channels", func(c *AppConfig) { c.Goal.Pools[0].Channels = nil }},
		{"pool with unknown channel", func(c *AppConfig) { c.Goal.Pools[0].Channels = []string{"pos", "美团点评"} }},
		{"single retention year", func(c *AppConfig) { c.Retention.Years = []int{2025} }},
		{"unknown log level", func(c *AppConfig) { c.Log.Level = "loud" }},
	}
	for _, tt := range tests {
		c := DefaultConfig()
		tt.mutate(c)
		err := c.Validate()
		if !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("%s: want ErrInvalidConfig, got %v", tt.name, err)
		}
	}
}

func TestDefaultConfig_GoalPoolsUseComposites(t *testing.T) {
	t.Parallel()

	c := DefaultConfig()
	composites := map[string]bool{}
	for _, comp := range c.Taxonomy.Composites {
		composites[comp.Name] = true
	}
	for _, pool := range c.Goal.Pools {
		for _, ch := range pool.Channels {
			if !composites[ch] {
				t.Fatalf("pool %s channel %s is not produced by any composite", pool.Name, ch)
			}
		}
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()
	cfg.OutputDir = "exports"
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.OutputDir != "exports" || len(got.Taxonomy.Composites) != len(cfg.Taxonomy.Composites) {
		t.Fatalf("unexpected reload: %+v", got)
	}
}
