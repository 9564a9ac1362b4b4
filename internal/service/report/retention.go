package report

import (
	"strconv"

	"salesboard/internal/logging"
	"salesboard/internal/model"
)

// RetentionStats 存量筛选统计
type RetentionStats struct {
	Years          [2]int
	StoreMonths    int // 保留的 (门店, 月份) 组合数
	KeptRecords    int
	DroppedRecords int
	UndatedRecords int // 缺少合法日期而无法归月的明细
}

type storeMonth struct {
	store string
	month int
}

// FilterRetained 按月存量筛选
//
// 以汇总渠道流水为准，某门店某月在 years 两个年份中的月合计之积非 0 时该 (门店, 月份) 视为存量，
// 只保留属于这两个年份且 (门店, 月份) 为存量的明细。返回新的数据集，不修改入参。
func FilterRetained(ds *model.Dataset, tax model.ChannelTaxonomy, years [2]int) (*model.Dataset, RetentionStats) {
	stats := RetentionStats{Years: years}
	revenue := tax.Column(tax.SummaryChannel, tax.RevenueMetric)

	totals := [2]map[storeMonth]float64{{}, {}}
	for _, r := range ds.Records {
		year, month, ok := splitDate(r.Date)
		if !ok {
			continue
		}
		for i, y := range years {
			if year == y {
				totals[i][storeMonth{store: r.StoreID, month: month}] += r.Value(revenue)
			}
		}
	}

	retained := make(map[storeMonth]bool)
	for key, a := range totals[0] {
		if a*totals[1][key] != 0 {
			retained[key] = true
		}
	}
	stats.StoreMonths = len(retained)

	out := ds.Filter(func(r *model.Record) bool {
		year, month, ok := splitDate(r.Date)
		if !ok {
			stats.UndatedRecords++
			return false
		}
		if year != years[0] && year != years[1] {
			return false
		}
		return retained[storeMonth{store: r.StoreID, month: month}]
	})
	stats.KeptRecords = len(out.Records)
	stats.DroppedRecords = len(ds.Records) - stats.KeptRecords

	logging.Info().
		Ints("years", years[:]).
		Int("store_months", stats.StoreMonths).
		Int("kept", stats.KeptRecords).
		Int("dropped", stats.DroppedRecords).
		Int("undated", stats.UndatedRecords).
		Msg("存量筛选完成")
	return out, stats
}

// splitDate 解析 YYYYMMDD
func splitDate(date string) (year, month int, ok bool) {
	if len(date) != 8 {
		return 0, 0, false
	}
	n, err := strconv.Atoi(date)
	if err != nil || n <= 0 {
		return 0, 0, false
	}
	year, month = n/10000, n/100%100
	if month < 1 || month > 12 {
		return 0, 0, false
	}
	return year, month, true
}
