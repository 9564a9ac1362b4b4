package report

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"salesboard/internal/logging"
	"salesboard/internal/model"
	"salesboard/internal/parser"
)

// 输出表名
const (
	TablePeriods      = "期数"
	TableDetail       = "本期数据"
	TableComparison   = "对比数据"
	TableYearOverYear = "同比数据"
	TableRetained     = "同比数据(存量)"
)

// RetentionOptions 存量版报表配置
type RetentionOptions struct {
	Enabled bool
	Years   []int // 为空时取本期与同期的开始年份
}

// Options 流水线配置，每次运行显式传入
type Options struct {
	Columns   model.ColumnNames
	Taxonomy  model.ChannelTaxonomy
	Order     model.OrderSpec
	Derive    DeriveOptions
	Retention RetentionOptions
}

// Report 一次分析的产出
type Report struct {
	Assignment   *parser.PeriodAssignment
	Comparison   *model.WideTable // 对比数据：全部时段
	YearOverYear *model.WideTable // 同比数据：本期与同期及派生指标
	Detail       *model.Sheet     // 本期数据
}

// Result 一次完整运行的产出
type Result struct {
	Records   int
	Stores    int
	Full      *Report
	Retained  *Report // 未启用存量版时为 nil
	Retention *RetentionStats
}

// Engine 门店渠道报表流水线
type Engine struct {
	opts Options
}

// NewEngine 创建流水线
func NewEngine(opts Options) *Engine {
	return &Engine{opts: opts}
}

// Prepare 合并口径：渠道聚合后清理冗余列。返回副本，入参不变
func (e *Engine) Prepare(ds *model.Dataset) *model.Dataset {
	out := ds.Clone()
	Aggregate(out, e.opts.Taxonomy)
	Cleanup(out, e.opts.Taxonomy)
	return out
}

// Analyze 营业天数 -> 时段识别 -> 透视 -> 排序 -> 同比派生。在副本上进行
func (e *Engine) Analyze(ds *model.Dataset) (*Report, error) {
	work := ds.Clone()
	FlagOperatingDays(work, e.opts.Taxonomy)

	assignment, err := parser.ClassifyPeriods(work.Labels())
	if err != nil {
		return nil, err
	}

	comparison, err := Pivot(work, assignment, e.opts.Columns.Store)
	if err != nil {
		return nil, err
	}
	OrderWide(comparison, e.opts.Order, e.opts.Columns, e.opts.Taxonomy.ActivityDayMetric)

	yoy := Derive(comparison, e.opts.Taxonomy, e.opts.Order, e.opts.Columns, e.opts.Derive)
	detail := BuildDetail(TableDetail, work, assignment, e.opts.Taxonomy, e.opts.Order, e.opts.Columns)

	return &Report{
		Assignment:   assignment,
		Comparison:   comparison,
		YearOverYear: yoy,
		Detail:       detail,
	}, nil
}

// Run 执行完整流水线；存量版与完整版在各自副本上并行计算
//
// 存量筛选没有保留任何明细（或数据缺少日期列）时，存量版为与完整版同表头的空表。
func (e *Engine) Run(ctx context.Context, ds *model.Dataset) (*Result, error) {
	base := e.Prepare(ds)

	// 提前识别时段，失败时直接终止，并用于推断存量年份
	assignment, err := parser.ClassifyPeriods(base.Labels())
	if err != nil {
		return nil, err
	}

	var years [2]int
	if e.opts.Retention.Enabled {
		if years, err = e.retentionYears(assignment); err != nil {
			return nil, err
		}
	}

	res := &Result{Records: len(base.Records)}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		full, err := e.Analyze(base)
		if err != nil {
			return err
		}
		res.Full = full
		res.Stores = len(full.Comparison.Rows)
		return nil
	})

	if e.opts.Retention.Enabled && base.HasDate {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			filtered, stats := FilterRetained(base, e.opts.Taxonomy, years)
			res.Retention = &stats
			if len(filtered.Records) == 0 {
				return nil
			}
			retained, err := e.Analyze(filtered)
			if err != nil {
				return fmt.Errorf("retained variant: %w", err)
			}
			res.Retained = retained
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if e.opts.Retention.Enabled && res.Retained == nil {
		if !base.HasDate {
			logging.Warn().Msg("数据缺少日期列，存量版输出空表")
		} else {
			logging.Warn().Ints("years", years[:]).Msg("没有存量门店，存量版输出空表")
		}
		res.Retained = emptyReport(res.Full)
	}

	logging.Info().
		Int("records", res.Records).
		Int("stores", res.Stores).
		Str("current", assignment.Current.Raw).
		Str("yoy", assignment.YearOverYear.Raw).
		Str("kind", assignment.Kind.String()).
		Msg("报表计算完成")
	return res, nil
}

// emptyReport 与 full 表头一致、没有数据行的报表
func emptyReport(full *Report) *Report {
	all := func(string) bool { return true }
	comparison := full.Comparison.Project(all)
	comparison.Rows = nil
	yoy := full.YearOverYear.Project(all)
	yoy.Rows = nil
	return &Report{
		Assignment:   full.Assignment,
		Comparison:   comparison,
		YearOverYear: yoy,
		Detail:       &model.Sheet{Name: full.Detail.Name, Columns: full.Detail.Columns},
	}
}

func (e *Engine) retentionYears(a *parser.PeriodAssignment) ([2]int, error) {
	switch len(e.opts.Retention.Years) {
	case 0:
		return [2]int{a.Current.StartYear(), a.YearOverYear.StartYear()}, nil
	case 2:
		return [2]int{e.opts.Retention.Years[0], e.opts.Retention.Years[1]}, nil
	}
	return [2]int{}, fmt.Errorf("retention years must list exactly 2 years, got %v", e.opts.Retention.Years)
}

// Sheets 需要持久化的全部输出表
func (r *Result) Sheets() []*model.Sheet {
	sheets := []*model.Sheet{
		r.Full.Assignment.Sheet(TablePeriods),
		r.Full.Detail,
		r.Full.Comparison.ToSheet(TableComparison),
		r.Full.YearOverYear.ToSheet(TableYearOverYear),
	}
	if r.Retained != nil {
		sheets = append(sheets, r.Retained.YearOverYear.ToSheet(TableRetained))
	}
	return sheets
}
