package parser

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"salesboard/internal/model"
)

var periodBoundRe = regexp.MustCompile(`^\d{8}$`)

// ParsePeriodLabel 解析 "起始~结束" 形式的时段标签
func ParsePeriodLabel(raw string) (PeriodLabel, error) {
	text := strings.TrimSpace(raw)
	startText, endText, found := strings.Cut(text, "~")
	if !found {
		return PeriodLabel{}, &PeriodLabelError{Label: raw, Reason: "missing '~' separator"}
	}
	startText = strings.TrimSpace(startText)
	endText = strings.TrimSpace(endText)
	if !periodBoundRe.MatchString(startText) || !periodBoundRe.MatchString(endText) {
		return PeriodLabel{}, &PeriodLabelError{Label: raw, Reason: "bounds must be 8-digit dates"}
	}

	start, _ := strconv.Atoi(startText)
	end, _ := strconv.Atoi(endText)
	return PeriodLabel{Raw: raw, Start: start, End: end}, nil
}

// PeriodAssignment 时段角色分配结果
//
// Kind 为 TwoWay 时 Prior 为零值。
type PeriodAssignment struct {
	Kind         AssignmentKind
	Current      PeriodLabel
	Prior        PeriodLabel
	YearOverYear PeriodLabel
}

// RolePair 原始时段与标准时段的对应关系（用于期数表）
type RolePair struct {
	Label PeriodLabel
	Role  model.PeriodRole
}

// ClassifyPeriods 按开始日期倒序为去重后的时段分配语义角色
//
// 分配是全局的（不按门店），3 个时段依次为本期、环比期、同期；2 个时段为本期、同期。
func ClassifyPeriods(labels []string) (*PeriodAssignment, error) {
	seen := make(map[string]struct{}, len(labels))
	var parsed []PeriodLabel
	var distinct []string
	for _, raw := range labels {
		if _, ok := seen[raw]; ok {
			continue
		}
		seen[raw] = struct{}{}
		p, err := ParsePeriodLabel(raw)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, p)
		distinct = append(distinct, raw)
	}

	sort.SliceStable(parsed, func(i, j int) bool {
		return parsed[i].Start > parsed[j].Start
	})

	switch len(parsed) {
	case 3:
		return &PeriodAssignment{
			Kind:         ThreeWay,
			Current:      parsed[0],
			Prior:        parsed[1],
			YearOverYear: parsed[2],
		}, nil
	case 2:
		return &PeriodAssignment{
			Kind:         TwoWay,
			Current:      parsed[0],
			YearOverYear: parsed[1],
		}, nil
	}
	return nil, &CardinalityError{Count: len(parsed), Labels: distinct}
}

// HasPrior 是否包含环比期
func (a *PeriodAssignment) HasPrior() bool {
	return a.Kind == ThreeWay
}

// Pairs 按 本期、环比期、同期 顺序列出分配结果
func (a *PeriodAssignment) Pairs() []RolePair {
	pairs := []RolePair{{Label: a.Current, Role: model.RoleCurrent}}
	if a.HasPrior() {
		pairs = append(pairs, RolePair{Label: a.Prior, Role: model.RolePrior})
	}
	return append(pairs, RolePair{Label: a.YearOverYear, Role: model.RoleYearOverYear})
}

// Roles 原始时段 -> 语义角色
func (a *PeriodAssignment) Roles() map[string]model.PeriodRole {
	m := make(map[string]model.PeriodRole, 3)
	for _, p := range a.Pairs() {
		m[p.Label.Raw] = p.Role
	}
	return m
}

// RoleOf 查询单个原始时段的角色
func (a *PeriodAssignment) RoleOf(raw string) (model.PeriodRole, bool) {
	role, ok := a.Roles()[raw]
	return role, ok
}

// 期数表列名
const (
	ColumnRawPeriod  = "原始时段"
	ColumnRolePeriod = "标准时段"
)

// Sheet 期数表：原始时段、标准时段
func (a *PeriodAssignment) Sheet(name string) *model.Sheet {
	s := &model.Sheet{
		Name: name,
		Columns: []model.Column{
			{Name: ColumnRawPeriod, Text: true},
			{Name: ColumnRolePeriod, Text: true},
		},
	}
	for _, p := range a.Pairs() {
		s.Rows = append(s.Rows, []any{p.Label.Raw, string(p.Role)})
	}
	return s
}
