package report

import (
	"fmt"
	"sort"

	"salesboard/internal/model"
	"salesboard/internal/parser"
)

// Pivot 按 (门店, 时段角色) 分组对全部指标列求和，展开为每门店一行的宽表
//
// 列名为 "<角色>_<原列名>"，只生成输入中实际出现过的 (角色, 列) 组合；
// 门店在某时段无数据时对应单元格为 0。行按门店编号升序。
func Pivot(ds *model.Dataset, a *parser.PeriodAssignment, keyColumn string) (*model.WideTable, error) {
	roles := a.Roles()

	type cellKey struct {
		role   model.PeriodRole
		column string
	}
	present := make(map[cellKey]bool)
	sums := make(map[string]map[string]float64)

	for _, r := range ds.Records {
		role, ok := roles[r.Period]
		if !ok {
			return nil, fmt.Errorf("record of store %s has unassigned period %q", r.StoreID, r.Period)
		}
		row, ok := sums[r.StoreID]
		if !ok {
			row = make(map[string]float64)
			sums[r.StoreID] = row
		}
		for col, v := range r.Metrics {
			present[cellKey{role: role, column: col}] = true
			row[role.Prefix()+col] += v
		}
	}

	wide := model.NewWideTable(keyColumn)
	for _, col := range ds.Columns {
		for _, p := range a.Pairs() {
			if present[cellKey{role: p.Role, column: col}] {
				wide.AddColumn(p.Role.Prefix() + col)
			}
		}
	}

	stores := make([]string, 0, len(sums))
	for store := range sums {
		stores = append(stores, store)
	}
	sort.Strings(stores)

	for _, store := range stores {
		row := wide.NewRow(store)
		for _, col := range wide.Columns {
			row.Num[col] = sums[store][col]
		}
	}
	return wide, nil
}
