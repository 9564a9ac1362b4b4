package report

import (
	"sort"

	"salesboard/internal/model"
	"salesboard/internal/parser"
)

// BuildDetail 本期明细：本期逐日数据，列为 门店编号、日期、渠道 × 指标，按 (日期, 门店) 升序
func BuildDetail(name string, ds *model.Dataset, a *parser.PeriodAssignment, tax model.ChannelTaxonomy, spec model.OrderSpec, names model.ColumnNames) *model.Sheet {
	candidates := []string{names.Store}
	if ds.HasDate && names.Date != "" {
		candidates = append(candidates, names.Date)
	}
	candidates = append(candidates, names.Period)
	candidates = append(candidates, ds.Columns...)

	header := OrderDetailColumns(candidates, spec, names, tax.ActivityDayMetric)

	var records []*model.Record
	for _, r := range ds.Records {
		if r.Period == a.Current.Raw {
			records = append(records, r)
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Date != records[j].Date {
			return records[i].Date < records[j].Date
		}
		return records[i].StoreID < records[j].StoreID
	})

	s := &model.Sheet{Name: name}
	for _, col := range header {
		s.Columns = append(s.Columns, model.Column{
			Name: col,
			Text: col == names.Store || col == names.Date,
		})
	}
	for _, r := range records {
		row := make([]any, 0, len(header))
		for _, col := range header {
			switch col {
			case names.Store:
				row = append(row, r.StoreID)
			case names.Date:
				row = append(row, r.Date)
			default:
				row = append(row, r.Value(col))
			}
		}
		s.Rows = append(s.Rows, row)
	}
	return s
}
