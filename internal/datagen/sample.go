// Package datagen 生成多时段门店渠道明细样例数据
package datagen

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"salesboard/internal/model"
)

// 日期格式
const dateLayout = "20060102"

// Options 样例数据参数
type Options struct {
	Stores   int
	Month    time.Time // 本期所在月份，取月初
	Seed     uint64    // 0 表示随机
	Channels []string
	// NewStoreRatio 去年同期尚未开业的门店比例
	NewStoreRatio float64
}

// DefaultOptions 默认参数：20 家门店，本期为上个月
func DefaultOptions() Options {
	now := time.Now()
	return Options{
		Stores:        20,
		Month:         time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local).AddDate(0, -1, 0),
		Channels:      []string{"pos", "甜啦啦小程序", "美团外卖", "饿了么外卖", "抖音团购"},
		NewStoreRatio: 0.2,
	}
}

// Period 一个查询时段
type Period struct {
	Start time.Time
	End   time.Time
}

// Label 原始时段标签 "YYYYMMDD~YYYYMMDD"
func (p Period) Label() string {
	return p.Start.Format(dateLayout) + "~" + p.End.Format(dateLayout)
}

// Periods 本期、环比期、同期（均为整月）
func Periods(month time.Time) []Period {
	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.Local)
	whole := func(s time.Time) Period {
		return Period{Start: s, End: s.AddDate(0, 1, -1)}
	}
	return []Period{
		whole(start),
		whole(start.AddDate(0, -1, 0)),
		whole(start.AddDate(-1, 0, 0)),
	}
}

// Generator 样例数据生成器
type Generator struct {
	faker *gofakeit.Faker
	opts  Options
}

// NewGenerator 创建生成器；Seed 相同则输出相同
func NewGenerator(opts Options) *Generator {
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Generator{
		faker: gofakeit.New(seed),
		opts:  opts,
	}
}

// Rows 生成带表头的二维表
func (g *Generator) Rows(names model.ColumnNames, tax model.ChannelTaxonomy) [][]string {
	metrics := []string{"流水", "实收", "优惠", "订单数"}
	channels := append([]string{tax.SummaryChannel}, g.opts.Channels...)

	header := []string{names.Store, "门店名称", names.Period, names.Date}
	for _, ch := range channels {
		for _, m := range metrics {
			header = append(header, tax.Column(ch, m))
		}
	}
	rows := [][]string{header}

	periods := Periods(g.opts.Month)
	for i := 0; i < g.opts.Stores; i++ {
		id := fmt.Sprintf("S%04d", i+1)
		name := g.faker.Company()
		isNew := g.faker.Float64Range(0, 1) < g.opts.NewStoreRatio

		for pi, p := range periods {
			yoy := pi == len(periods)-1
			for day := p.Start; !day.After(p.End); day = day.AddDate(0, 0, 1) {
				closed := (yoy && isNew) || g.faker.Float64Range(0, 1) < 0.03
				row := []string{id, name, p.Label(), day.Format(dateLayout)}
				row = append(row, g.day(len(g.opts.Channels), closed)...)
				rows = append(rows, row)
			}
		}
	}
	return rows
}

// day 一天的各渠道指标，首组为汇总
func (g *Generator) day(channels int, closed bool) []string {
	type values struct{ revenue, received, discount, orders float64 }
	per := make([]values, channels)
	var total values

	for i := range per {
		if closed || !g.faker.Bool() {
			continue
		}
		revenue := round2(g.faker.Float64Range(100, 3000))
		received := round2(revenue * g.faker.Float64Range(0.8, 0.95))
		v := values{
			revenue:  revenue,
			received: received,
			discount: round2(revenue - received),
			orders:   float64(g.faker.IntRange(5, 120)),
		}
		per[i] = v
		total.revenue += v.revenue
		total.received += v.received
		total.discount += v.discount
		total.orders += v.orders
	}

	out := make([]string, 0, (channels+1)*4)
	format := func(v values, blank bool) {
		if blank {
			out = append(out, "", "", "", "")
			return
		}
		out = append(out,
			formatNumber(v.revenue), formatNumber(v.received),
			formatNumber(v.discount), formatNumber(v.orders))
	}
	format(total, false)
	for _, v := range per {
		format(v, v.revenue == 0)
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(round2(v), 'f', -1, 64)
}

// WriteCSV 生成样例并写入 CSV（UTF-8 带 BOM，便于 Excel 打开）
func (g *Generator) WriteCSV(path string, names model.ColumnNames, tax model.ChannelTaxonomy) (int, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString("\ufeff"); err != nil {
		return 0, err
	}
	rows := g.Rows(names, tax)
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return len(rows) - 1, nil
}
