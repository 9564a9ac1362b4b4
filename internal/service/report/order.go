package report

import (
	"slices"
	"strings"

	"salesboard/internal/model"
)

// OrderRule 列排序规则：列名包含 Pattern 即命中（子串匹配，不是全等）
//
// 子串匹配会让名称互为前后缀的渠道同时命中，这是报表依赖的既有口径。
type OrderRule struct {
	Channel string
	Metric  string
	Period  string // 明细排序时为空
	Pattern string
}

// WideRules 对比宽表的规则表：渠道为一级、指标为二级、时段为三级
func WideRules(spec model.OrderSpec) []OrderRule {
	rules := make([]OrderRule, 0, len(spec.Channels)*len(spec.Metrics)*len(spec.Periods))
	for _, ch := range spec.Channels {
		for _, m := range spec.Metrics {
			for _, p := range spec.Periods {
				rules = append(rules, OrderRule{
					Channel: ch,
					Metric:  m,
					Period:  p,
					Pattern: p + "_" + ch + "_" + m,
				})
			}
		}
	}
	return rules
}

// DetailRules 本期明细的规则表：渠道为一级、指标为二级，不区分时段
//
// skipMetric（营业天数）不参与：明细行是逐日数据，没有汇总的营业天数。
func DetailRules(spec model.OrderSpec, skipMetric string) []OrderRule {
	var rules []OrderRule
	for _, ch := range spec.Channels {
		for _, m := range spec.Metrics {
			if m == skipMetric {
				continue
			}
			rules = append(rules, OrderRule{
				Channel: ch,
				Metric:  m,
				Pattern: ch + "_" + m,
			})
		}
	}
	return rules
}

// applyRules 依次按规则收集命中的列；同一规则内保持原到达顺序，每列只放在第一次命中的位置
func applyRules(columns []string, rules []OrderRule) []string {
	placed := make(map[string]bool, len(columns))
	var out []string
	for _, rule := range rules {
		for _, col := range columns {
			if placed[col] || !strings.Contains(col, rule.Pattern) {
				continue
			}
			placed[col] = true
			out = append(out, col)
		}
	}
	return out
}

// OrderWideColumns 计算对比宽表的列顺序
//
// 规则命中的列在前（剔除日期列），门店编号置首；
// 其余未命中的列按原顺序追加，但营业天数列与日期列不追加。
func OrderWideColumns(columns []string, spec model.OrderSpec, names model.ColumnNames, activityDay string) []string {
	matched := applyRules(columns, WideRules(spec))

	sorted := make([]string, 0, len(columns))
	sorted = append(sorted, names.Store)
	for _, col := range matched {
		if isDateColumn(col, names) || col == names.Store {
			continue
		}
		sorted = append(sorted, col)
	}

	return appendUnmatched(sorted, columns, names, activityDay)
}

// OrderDetailColumns 计算本期明细的列顺序：门店编号、日期（如有）在前，随后渠道 × 指标
func OrderDetailColumns(columns []string, spec model.OrderSpec, names model.ColumnNames, activityDay string) []string {
	matched := applyRules(columns, DetailRules(spec, activityDay))

	sorted := make([]string, 0, len(columns))
	sorted = append(sorted, names.Store)
	if names.Date != "" && slices.Contains(columns, names.Date) {
		sorted = append(sorted, names.Date)
	}
	for _, col := range matched {
		if col == names.Store || col == names.Date {
			continue
		}
		sorted = append(sorted, col)
	}

	sorted = appendUnmatched(sorted, columns, names, activityDay)
	return slices.DeleteFunc(sorted, func(col string) bool {
		return col == names.Period
	})
}

func appendUnmatched(sorted, columns []string, names model.ColumnNames, activityDay string) []string {
	placed := make(map[string]bool, len(sorted))
	for _, col := range sorted {
		placed[col] = true
	}
	for _, col := range columns {
		if placed[col] || isDateColumn(col, names) {
			continue
		}
		if activityDay != "" && strings.Contains(col, activityDay) {
			continue
		}
		placed[col] = true
		sorted = append(sorted, col)
	}
	return sorted
}

func isDateColumn(col string, names model.ColumnNames) bool {
	if names.DateMarker != "" && strings.Contains(col, names.DateMarker) {
		return true
	}
	return names.Date != "" && col == names.Date
}

// OrderWide 按对比宽表规则原地重排宽表列
func OrderWide(t *model.WideTable, spec model.OrderSpec, names model.ColumnNames, activityDay string) {
	t.SetOrder(OrderWideColumns(t.Header(), spec, names, activityDay))
}
