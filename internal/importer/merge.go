package importer

import (
	"fmt"

	"salesboard/internal/logging"
	"salesboard/internal/model"
)

type mergeKey struct {
	period, store, date string
}

func keyOf(r *model.Record) mergeKey {
	return mergeKey{period: r.Period, store: r.StoreID, date: r.Date}
}

// MergeSupplemental 按 (查询时段, 门店编号, 日期) 外连接主数据与补充数据
//
// 补充数据中与主数据同名的列加 suffix 后保留（由清理步骤删除），其余列直接并入。
// 补充数据同一键出现多次时先累加。两边都只存在于一侧的行均保留，缺失列按 0 计。
func MergeSupplemental(main, supp *model.Dataset, suffix string) (*model.Dataset, error) {
	if main.HasDate != supp.HasDate {
		return nil, fmt.Errorf("%w: both inputs must carry the date column to be merged", ErrMissingColumn)
	}

	out := main.Clone()

	rename := make(map[string]string, len(supp.Columns))
	for _, col := range supp.Columns {
		name := col
		if main.HasColumn(col) {
			name = col + suffix
		}
		rename[col] = name
		out.AddColumn(name)
	}

	suppByKey := make(map[mergeKey]*model.Record, len(supp.Records))
	var suppOrder []mergeKey
	for _, r := range supp.Records {
		k := keyOf(r)
		agg, ok := suppByKey[k]
		if !ok {
			agg = &model.Record{StoreID: r.StoreID, Period: r.Period, Date: r.Date, Metrics: make(map[string]float64)}
			suppByKey[k] = agg
			suppOrder = append(suppOrder, k)
		}
		for col, v := range r.Metrics {
			agg.Metrics[rename[col]] += v
		}
	}

	matched := make(map[mergeKey]bool, len(suppByKey))
	for _, r := range out.Records {
		k := keyOf(r)
		s, ok := suppByKey[k]
		if !ok {
			continue
		}
		matched[k] = true
		for col, v := range s.Metrics {
			r.Metrics[col] = v
		}
	}

	onlySupp := 0
	for _, k := range suppOrder {
		if matched[k] {
			continue
		}
		out.Records = append(out.Records, suppByKey[k])
		onlySupp++
	}

	logging.Info().
		Int("main", len(main.Records)).
		Int("supplemental", len(supp.Records)).
		Int("matched", len(matched)).
		Int("supplemental_only", onlySupp).
		Msg("补充数据合并完成")
	return out, nil
}
