package util

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatPercent 格式化百分比，未定义（NaN）时返回 "N/A"
func FormatPercent(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "N/A"
	}
	sign := ""
	if value > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, value*100)
}

// FormatAmount 格式化金额：保留两位小数并加千分位
func FormatAmount(value float64) string {
	s := strconv.FormatFloat(math.Abs(value), 'f', 2, 64)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if value < 0 {
		b.WriteByte('-')
	}
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}
