package report

import (
	"strings"

	"salesboard/internal/logging"
	"salesboard/internal/model"
)

// AggregateResult 渠道聚合统计
type AggregateResult struct {
	Created []string // 新建的组合渠道列
	Missing []string // 配置了但输入中不存在的来源列
}

// Aggregate 按渠道口径把来源子渠道指标累加到组合渠道列
//
// 组合渠道按配置顺序处理，前一项的组合渠道可作为后一项的来源。
// 组合列已存在时在其原值上累加；缺失的来源列视为 0 且不会被创建。
// 同一批数据只能聚合一次，否则会重复累加。
func Aggregate(ds *model.Dataset, tax model.ChannelTaxonomy) AggregateResult {
	var res AggregateResult

	for _, comp := range tax.Composites {
		for _, metric := range tax.Metrics {
			target := tax.Column(comp.Name, metric)

			var sources []string
			for _, src := range comp.Sources {
				col := tax.Column(src, metric)
				if !ds.HasColumn(col) {
					res.Missing = append(res.Missing, col)
					logging.Warn().
						Str("composite", target).
						Str("column", col).
						Msg("来源列不存在，按 0 计入")
					continue
				}
				sources = append(sources, col)
			}
			if len(sources) == 0 {
				continue
			}

			if !ds.HasColumn(target) {
				ds.AddColumn(target)
				res.Created = append(res.Created, target)
			}

			for _, r := range ds.Records {
				sum := r.Value(target)
				for _, col := range sources {
					sum += r.Value(col)
				}
				r.Metrics[target] = sum
			}
		}
	}

	logging.Debug().
		Strs("created", res.Created).
		Int("missing", len(res.Missing)).
		Msg("渠道聚合完成")
	return res
}

// Cleanup 删除合并冗余列：带合并后缀的列，以及标记 drop_sources 的来源列
func Cleanup(ds *model.Dataset, tax model.ChannelTaxonomy) []string {
	drop := make(map[string]struct{})
	for _, comp := range tax.Composites {
		if !comp.DropSources {
			continue
		}
		for _, src := range comp.Sources {
			for _, metric := range tax.Metrics {
				drop[tax.Column(src, metric)] = struct{}{}
			}
		}
	}

	dropped := ds.DropColumns(func(col string) bool {
		if tax.MergeSuffix != "" && strings.HasSuffix(col, tax.MergeSuffix) {
			return true
		}
		_, ok := drop[col]
		return ok
	})
	if len(dropped) > 0 {
		logging.Debug().Strs("columns", dropped).Msg("删除冗余列")
	}
	return dropped
}
