// Package goal 按本期覆盖的月份汇总门店目标，并按渠道拆分到目标池
package goal

import (
	"errors"
	"fmt"

	"salesboard/internal/logging"
	"salesboard/internal/model"
	"salesboard/internal/parser"
)

// TableGoal 目标分解输出表名
const TableGoal = "目标分解"

// ErrMissingColumn 目标表或销售表缺少必需列
var ErrMissingColumn = errors.New("missing required column")

// ErrNoCurrentPeriod 期数表中没有本期
var ErrNoCurrentPeriod = errors.New("current period not found")

// Options 目标分解参数
type Options struct {
	StoreColumn string
	Metrics     []string
	Pools       []model.GoalPool
}

// CurrentPeriod 从期数表中取出本期时段
func CurrentPeriod(periods *model.Sheet) (parser.PeriodLabel, error) {
	rawIdx := periods.Index(parser.ColumnRawPeriod)
	roleIdx := periods.Index(parser.ColumnRolePeriod)
	if rawIdx < 0 || roleIdx < 0 {
		return parser.PeriodLabel{}, fmt.Errorf("%w: %s/%s", ErrMissingColumn, parser.ColumnRawPeriod, parser.ColumnRolePeriod)
	}
	for _, row := range periods.Rows {
		if periods.Text(row, roleIdx) == string(model.RoleCurrent) {
			return parser.ParsePeriodLabel(periods.Text(row, rawIdx))
		}
	}
	return parser.PeriodLabel{}, ErrNoCurrentPeriod
}

type storeGoal struct {
	targets map[string]float64 // 池 -> 月度目标合计
	pools   map[string]float64 // 池 -> 池系数
}

// Apportion 目标分解
//
// 目标表每个池需要一列池系数（如 全渠道池）和按月的目标列（如 全渠道202503）。
// 汇总目标为本期覆盖月份的目标之和；渠道分解值为 本期_<渠道>_<指标> 乘以池系数。
// 以销售表门店为准左连接目标表，无目标的门店按 0 计。
func Apportion(sales, goals *model.Sheet, current parser.PeriodLabel, opts Options) (*model.Sheet, error) {
	months := parser.MonthsInRange(current.Start, current.End)

	salesStore := sales.Index(opts.StoreColumn)
	if salesStore < 0 {
		return nil, fmt.Errorf("%w: %s in %s", ErrMissingColumn, opts.StoreColumn, sales.Name)
	}
	goalStore := goals.Index(opts.StoreColumn)
	if goalStore < 0 {
		return nil, fmt.Errorf("%w: %s in %s", ErrMissingColumn, opts.StoreColumn, goals.Name)
	}
	poolIdx := make(map[string]int, len(opts.Pools))
	for _, pool := range opts.Pools {
		idx := goals.Index(pool.Name)
		if idx < 0 {
			return nil, fmt.Errorf("%w: %s in %s", ErrMissingColumn, pool.Name, goals.Name)
		}
		poolIdx[pool.Name] = idx
	}

	byStore := make(map[string]*storeGoal, len(goals.Rows))
	for _, row := range goals.Rows {
		id := goals.Text(row, goalStore)
		g, ok := byStore[id]
		if !ok {
			g = &storeGoal{targets: map[string]float64{}, pools: map[string]float64{}}
			byStore[id] = g
		}
		for _, pool := range opts.Pools {
			for _, month := range months {
				g.targets[pool.Name] += goals.Float(row, goals.Index(pool.MonthPrefix+month))
			}
			g.pools[pool.Name] = goals.Float(row, poolIdx[pool.Name])
		}
	}

	out := &model.Sheet{
		Name:    TableGoal,
		Columns: []model.Column{{Name: opts.StoreColumn, Text: true}},
	}
	type source struct {
		pool   string
		target bool // 汇总目标列
		idx    int  // 销售表中的本期渠道列
	}
	var sources []source
	for _, pool := range opts.Pools {
		out.Columns = append(out.Columns, model.Column{Name: pool.Target})
		sources = append(sources, source{pool: pool.Name, target: true})
		for _, ch := range pool.Channels {
			for _, metric := range opts.Metrics {
				src := model.RoleCurrent.Prefix() + ch + "_" + metric
				idx := sales.Index(src)
				if idx < 0 {
					logging.Warn().Str("column", src).Str("pool", pool.Name).Msg("销售表缺少渠道列，按 0 计")
				}
				out.Columns = append(out.Columns, model.Column{Name: pool.Name + "_" + ch + "_" + metric})
				sources = append(sources, source{pool: pool.Name, idx: idx})
			}
		}
	}

	unmatched := 0
	for _, row := range sales.Rows {
		id := sales.Text(row, salesStore)
		g, ok := byStore[id]
		if !ok {
			unmatched++
			g = &storeGoal{}
		}
		cells := make([]any, 0, len(out.Columns))
		cells = append(cells, id)
		for _, src := range sources {
			if src.target {
				cells = append(cells, g.targets[src.pool])
				continue
			}
			cells = append(cells, sales.Float(row, src.idx)*g.pools[src.pool])
		}
		out.Rows = append(out.Rows, cells)
	}

	logging.Info().
		Str("current", current.Raw).
		Strs("months", months).
		Int("stores", len(out.Rows)).
		Int("without_goal", unmatched).
		Msg("目标分解完成")
	return out, nil
}
