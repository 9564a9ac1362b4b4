package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// NormalizeColumnName 规范化列名：去除首尾空白、BOM 与内部空白
func NormalizeColumnName(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	name = strings.TrimSpace(name)
	return whitespaceRe.ReplaceAllString(name, "")
}

// ContainsAny 检查字符串是否包含任意一个关键词
func ContainsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// ParseNumber 解析单元格数值，允许千分位逗号；空串返回 found=false
func ParseNumber(text string) (value float64, found bool, err error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false, nil
	}
	text = strings.ReplaceAll(text, ",", "")
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}

// MonthsInRange 列出 [start, end] 内所有月初所在的月份（YYYYMM）
//
// 起始日不是 1 号时，该月不计入（与按月初取区间的口径一致）。
func MonthsInRange(start, end int) []string {
	y, m, d := start/10000, start/100%100, start%100
	if d > 1 {
		m++
		if m > 12 {
			m = 1
			y++
		}
	}

	var months []string
	for y*10000+m*100+1 <= end {
		months = append(months, strconv.Itoa(y*100+m))
		m++
		if m > 12 {
			m = 1
			y++
		}
	}
	return months
}
