package parser

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedPeriodLabel 查询时段缺少 "~" 分隔符或起止日期不是 8 位数字
	ErrMalformedPeriodLabel = errors.New("malformed period label")
	// ErrUnsupportedPeriodCardinality 去重后的查询时段既不是 2 个也不是 3 个
	ErrUnsupportedPeriodCardinality = errors.New("unsupported period cardinality")
)

// PeriodLabelError 时段解析失败
type PeriodLabelError struct {
	Label  string
	Reason string
}

func (e *PeriodLabelError) Error() string {
	return fmt.Sprintf("malformed period label %q: %s", e.Label, e.Reason)
}

func (e *PeriodLabelError) Unwrap() error {
	return ErrMalformedPeriodLabel
}

// CardinalityError 时段数量不受支持
type CardinalityError struct {
	Count  int
	Labels []string
}

func (e *CardinalityError) Error() string {
	return fmt.Sprintf("unsupported period cardinality: got %d distinct labels %v, want 2 or 3", e.Count, e.Labels)
}

func (e *CardinalityError) Unwrap() error {
	return ErrUnsupportedPeriodCardinality
}

// AssignmentKind 时段分配形态
type AssignmentKind int

const (
	ThreeWay AssignmentKind = iota + 1 // 本期 / 环比期 / 同期
	TwoWay                             // 本期 / 同期
)

func (k AssignmentKind) String() string {
	switch k {
	case ThreeWay:
		return "three-way"
	case TwoWay:
		return "two-way"
	}
	return "unknown"
}

// PeriodLabel 原始时段标签，如 "20250301~20250331"
type PeriodLabel struct {
	Raw   string
	Start int
	End   int
}

// StartYear 开始日期所在年份
func (p PeriodLabel) StartYear() int {
	return p.Start / 10000
}
