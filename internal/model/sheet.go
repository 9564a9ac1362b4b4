package model

import (
	"math"
	"strconv"
	"strings"
)

// Column 输出表的列定义
type Column struct {
	Name string
	Text bool
}

// Sheet 命名的二维输出表（SQLite 表 / Excel 工作表）
//
// 数值单元格为 float64，NaN 表示未定义；文本单元格为 string；nil 表示空。
type Sheet struct {
	Name    string
	Columns []Column
	Rows    [][]any
}

// ColumnNames 列名列表
func (s *Sheet) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// Index 列下标，不存在返回 -1
func (s *Sheet) Index(name string) int {
	for i, c := range s.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Text 读取文本单元格
func (s *Sheet) Text(row []any, idx int) string {
	if idx < 0 || idx >= len(row) || row[idx] == nil {
		return ""
	}
	switch v := row[idx].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	}
	return ""
}

// Float 读取数值单元格；空值、无法解析与 NaN 均按 0 处理
func (s *Sheet) Float(row []any, idx int) float64 {
	if idx < 0 || idx >= len(row) || row[idx] == nil {
		return 0
	}
	var f float64
	switch v := row[idx].(type) {
	case float64:
		f = v
	case int64:
		f = float64(v)
	case int:
		f = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		f = parsed
	case []byte:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(string(v)), 64)
		if err != nil {
			return 0
		}
		f = parsed
	}
	if math.IsNaN(f) {
		return 0
	}
	return f
}
