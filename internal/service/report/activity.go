package report

import (
	"strings"

	"salesboard/internal/model"
)

// FlagOperatingDays 为每个流水列派生营业天数列：流水 > 0 记 1，否则记 0
//
// 列名取流水标记之前的部分加营业天数指标名，如 "pos_流水" -> "pos_营业天数"。
// 逐行独立计算，透视时求和即为营业天数。
func FlagOperatingDays(ds *model.Dataset, tax model.ChannelTaxonomy) []string {
	var added []string
	// 先取快照，避免遍历中追加的新列被再次匹配
	columns := append([]string(nil), ds.Columns...)
	for _, col := range columns {
		idx := strings.Index(col, tax.RevenueMetric)
		if idx < 0 {
			continue
		}
		flag := col[:idx] + tax.ActivityDayMetric
		if flag == col {
			continue
		}
		ds.AddColumn(flag)
		added = append(added, flag)

		for _, r := range ds.Records {
			if r.Value(col) > 0 {
				r.Metrics[flag] = 1
			} else {
				r.Metrics[flag] = 0
			}
		}
	}
	return added
}
