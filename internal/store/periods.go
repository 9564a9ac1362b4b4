package store

import (
	"fmt"

	"salesboard/internal/parser"
)

// PeriodRow 期数表中的一行
type PeriodRow struct {
	Raw  string `json:"raw"`
	Role string `json:"role"`
}

// ListPeriods 读取期数表（原始时段 -> 标准时段），表不存在时返回 ErrTableNotFound
func (s *Store) ListPeriods(table string) ([]PeriodRow, error) {
	sheet, err := s.ReadTable(table)
	if err != nil {
		return nil, err
	}
	rawIdx, roleIdx := sheet.Index(parser.ColumnRawPeriod), sheet.Index(parser.ColumnRolePeriod)
	if rawIdx < 0 || roleIdx < 0 {
		return nil, fmt.Errorf("table %s lacks %s/%s columns", table, parser.ColumnRawPeriod, parser.ColumnRolePeriod)
	}

	out := make([]PeriodRow, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		out = append(out, PeriodRow{
			Raw:  sheet.Text(row, rawIdx),
			Role: sheet.Text(row, roleIdx),
		})
	}
	return out, nil
}
