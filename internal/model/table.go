package model

import "slices"

// WideRow 宽表中的一行（一个门店）
type WideRow struct {
	Key  string
	Num  map[string]float64
	Text map[string]string
}

// WideTable 门店宽表
//
// Columns 不含主键列；文本列（如是否存量、同比趋势）单独登记。
type WideTable struct {
	KeyColumn string
	Columns   []string
	Rows      []*WideRow

	text map[string]bool
}

// NewWideTable 创建宽表
func NewWideTable(keyColumn string) *WideTable {
	return &WideTable{
		KeyColumn: keyColumn,
		text:      make(map[string]bool),
	}
}

// NewRow 追加一行
func (t *WideTable) NewRow(key string) *WideRow {
	row := &WideRow{
		Key:  key,
		Num:  make(map[string]float64),
		Text: make(map[string]string),
	}
	t.Rows = append(t.Rows, row)
	return row
}

// HasColumn 判断列是否存在
func (t *WideTable) HasColumn(column string) bool {
	return slices.Contains(t.Columns, column)
}

// IsText 判断是否文本列
func (t *WideTable) IsText(column string) bool {
	return t.text[column]
}

// AddColumn 追加数值列
func (t *WideTable) AddColumn(column string) {
	if !t.HasColumn(column) {
		t.Columns = append(t.Columns, column)
	}
}

// AddTextColumn 追加文本列
func (t *WideTable) AddTextColumn(column string) {
	t.AddColumn(column)
	t.text[column] = true
}

// Header 完整表头（主键列在首位）
func (t *WideTable) Header() []string {
	return append([]string{t.KeyColumn}, t.Columns...)
}

// SetOrder 按给定表头重排列；未出现在 header 中的列被丢弃
func (t *WideTable) SetOrder(header []string) {
	ordered := make([]string, 0, len(header))
	for _, col := range header {
		if col == t.KeyColumn || !t.HasColumn(col) || slices.Contains(ordered, col) {
			continue
		}
		ordered = append(ordered, col)
	}
	t.Columns = ordered
}

// Value 数值单元格，缺失为 0
func (r *WideRow) Value(column string) float64 {
	return r.Num[column]
}

// Project 复制出只保留部分列的新宽表
func (t *WideTable) Project(keep func(column string) bool) *WideTable {
	out := NewWideTable(t.KeyColumn)
	for _, col := range t.Columns {
		if !keep(col) {
			continue
		}
		if t.IsText(col) {
			out.AddTextColumn(col)
		} else {
			out.AddColumn(col)
		}
	}

	for _, r := range t.Rows {
		nr := out.NewRow(r.Key)
		for _, col := range out.Columns {
			if out.IsText(col) {
				if v, ok := r.Text[col]; ok {
					nr.Text[col] = v
				}
				continue
			}
			if v, ok := r.Num[col]; ok {
				nr.Num[col] = v
			}
		}
	}
	return out
}

// ToSheet 转为可持久化的二维表；缺失数值填 0
func (t *WideTable) ToSheet(name string) *Sheet {
	s := &Sheet{Name: name}
	s.Columns = append(s.Columns, Column{Name: t.KeyColumn, Text: true})
	for _, col := range t.Columns {
		s.Columns = append(s.Columns, Column{Name: col, Text: t.IsText(col)})
	}

	for _, r := range t.Rows {
		row := make([]any, 0, len(s.Columns))
		row = append(row, r.Key)
		for _, col := range t.Columns {
			if t.IsText(col) {
				row = append(row, r.Text[col])
				continue
			}
			row = append(row, r.Num[col])
		}
		s.Rows = append(s.Rows, row)
	}
	return s
}
