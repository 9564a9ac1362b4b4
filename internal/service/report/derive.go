package report

import (
	"math"
	"slices"
	"strings"

	"salesboard/internal/model"
)

// 同比派生列
const (
	ColumnRetained        = "是否存量"
	ColumnGrowthRate      = "同比增长率"
	ColumnGrowthDirection = "同比趋势"

	RetainedYes = "是"
	RetainedNo  = "否"
)

// GrowthDirection 同比趋势
type GrowthDirection string

const (
	GrowthUp          GrowthDirection = "增长"
	GrowthDown        GrowthDirection = "下降"
	GrowthFlat        GrowthDirection = "持平"
	GrowthUnavailable GrowthDirection = "无法计算"
)

// DeriveOptions 同比派生的口径开关
type DeriveOptions struct {
	ExcludeDiscount       bool // 同比表不输出优惠类指标
	UndefinedGrowthAsFlat bool // 增长率无法计算时归入持平，否则单列为无法计算
}

// GrowthRate 同比增长率；同期为 0 时返回 NaN
func GrowthRate(current, yoy float64) float64 {
	if yoy == 0 {
		return math.NaN()
	}
	return (current - yoy) / yoy
}

// Direction 增长率对应的趋势
func Direction(rate float64, undefinedAsFlat bool) GrowthDirection {
	switch {
	case math.IsNaN(rate):
		if undefinedAsFlat {
			return GrowthFlat
		}
		return GrowthUnavailable
	case rate > 0:
		return GrowthUp
	case rate < 0:
		return GrowthDown
	}
	return GrowthFlat
}

// Retained 存量判定：本期与同期汇总流水之积非 0
//
// 两期均为负值也会判为存量，沿用乘积口径。
func Retained(current, yoy float64) bool {
	return current*yoy != 0
}

// Derive 基于已排序的对比宽表生成同比表
//
// 只保留本期与同期两段（环比期列整体剔除），为每个渠道追加营业门店标记，
// 并计算是否存量、同比增长率与同比趋势，最后按同一套优先级重排。
func Derive(full *model.WideTable, tax model.ChannelTaxonomy, spec model.OrderSpec, names model.ColumnNames, opts DeriveOptions) *model.WideTable {
	priorPrefix := model.RolePrior.Prefix()
	discount := "_" + tax.DiscountMetric
	out := full.Project(func(col string) bool {
		if strings.HasPrefix(col, priorPrefix) {
			return false
		}
		if opts.ExcludeDiscount && tax.DiscountMetric != "" && strings.Contains(col, discount) {
			return false
		}
		return true
	})

	roles := []model.PeriodRole{model.RoleCurrent, model.RoleYearOverYear}
	for _, ch := range spec.Channels {
		for _, role := range roles {
			revenue := role.Prefix() + tax.Column(ch, tax.RevenueMetric)
			if !out.HasColumn(revenue) {
				continue
			}
			flag := role.Prefix() + tax.Column(ch, tax.ActiveStoreMetric)
			out.AddColumn(flag)
			for _, r := range out.Rows {
				if r.Value(revenue) > 0 {
					r.Num[flag] = 1
				} else {
					r.Num[flag] = 0
				}
			}
		}
	}

	currentCol := model.RoleCurrent.Prefix() + tax.Column(tax.SummaryChannel, tax.RevenueMetric)
	yoyCol := model.RoleYearOverYear.Prefix() + tax.Column(tax.SummaryChannel, tax.RevenueMetric)

	out.AddTextColumn(ColumnRetained)
	out.AddColumn(ColumnGrowthRate)
	out.AddTextColumn(ColumnGrowthDirection)
	for _, r := range out.Rows {
		current, yoy := r.Value(currentCol), r.Value(yoyCol)

		r.Text[ColumnRetained] = RetainedNo
		if Retained(current, yoy) {
			r.Text[ColumnRetained] = RetainedYes
		}

		rate := GrowthRate(current, yoy)
		r.Num[ColumnGrowthRate] = rate
		r.Text[ColumnGrowthDirection] = string(Direction(rate, opts.UndefinedGrowthAsFlat))
	}

	OrderWide(out, derivedSpec(tax, spec, opts), names, tax.ActivityDayMetric)
	return out
}

// derivedSpec 同比表的排序口径：营业门店作为首个指标，时段只保留本期与同期
func derivedSpec(tax model.ChannelTaxonomy, spec model.OrderSpec, opts DeriveOptions) model.OrderSpec {
	metrics := []string{tax.ActiveStoreMetric}
	for _, m := range spec.Metrics {
		if opts.ExcludeDiscount && m == tax.DiscountMetric {
			continue
		}
		metrics = append(metrics, m)
	}

	periods := slices.DeleteFunc(slices.Clone(spec.Periods), func(p string) bool {
		return p == string(model.RolePrior)
	})

	return model.OrderSpec{
		Channels: spec.Channels,
		Metrics:  metrics,
		Periods:  periods,
	}
}
