package model

// ColumnNames 输入/输出中的关键列名
type ColumnNames struct {
	Store      string `toml:"store"`       // 门店编号
	Period     string `toml:"period"`      // 查询时段
	Date       string `toml:"date"`        // 日期（可选）
	DateMarker string `toml:"date_marker"` // 含该标记的列视为日期列
}

// Composite 组合渠道：由若干来源子渠道求和得到
type Composite struct {
	Name        string   `toml:"name"`
	Sources     []string `toml:"sources"`
	DropSources bool     `toml:"drop_sources"` // 聚合后删除来源列（合并补充数据用）
}

// ChannelTaxonomy 渠道口径配置
type ChannelTaxonomy struct {
	Metrics           []string    `toml:"metrics"`
	RevenueMetric     string      `toml:"revenue_metric"`
	DiscountMetric    string      `toml:"discount_metric"`
	ActivityDayMetric string      `toml:"activity_day_metric"`
	ActiveStoreMetric string      `toml:"active_store_metric"`
	SummaryChannel    string      `toml:"summary_channel"`
	MergeSuffix       string      `toml:"merge_suffix"`
	Composites        []Composite `toml:"composites"`
}

// Column 渠道指标列名 "<渠道>_<指标>"
func (t ChannelTaxonomy) Column(channel, metric string) string {
	return channel + "_" + metric
}

// OrderSpec 三级列排序优先级
type OrderSpec struct {
	Channels []string `toml:"channels"`
	Metrics  []string `toml:"metrics"`
	Periods  []string `toml:"periods"`
}

// GoalPool 目标分配池
type GoalPool struct {
	Name        string   `toml:"name"`         // 池系数列，如 全渠道池
	Target      string   `toml:"target"`       // 汇总目标列，如 全渠道目标
	MonthPrefix string   `toml:"month_prefix"` // 月度目标列前缀，如 全渠道 -> 全渠道202503
	Channels    []string `toml:"channels"`
}
