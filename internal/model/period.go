package model

// PeriodRole 查询时段的语义角色
type PeriodRole string

const (
	RoleCurrent      PeriodRole = "本期"   // 开始日期最大
	RolePrior        PeriodRole = "环比期" // 其次
	RoleYearOverYear PeriodRole = "同期"   // 再次
)

// String 返回角色名（即宽表列名前缀）
func (r PeriodRole) String() string {
	return string(r)
}

// Prefix 宽表列名前缀，形如 "本期_"
func (r PeriodRole) Prefix() string {
	return string(r) + "_"
}
