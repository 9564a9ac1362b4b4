package goal

import (
	"errors"
	"testing"

	"salesboard/internal/model"
	"salesboard/internal/parser"
)

func testOptions() Options {
	return Options{
		StoreColumn: "门店编号",
		Metrics:     []string{"流水", "订单数"},
		Pools: []model.GoalPool{
			{Name: "全渠道池", Target: "全渠道目标", MonthPrefix: "全渠道", Channels: []string{"pos小程序"}},
			{Name: "外卖池", Target: "外卖目标", MonthPrefix: "外卖渠道", Channels: []string{"线上外卖"}},
		},
	}
}

func salesSheet() *model.Sheet {
	return &model.Sheet{
		Name: "同比数据",
		Columns: []model.Column{
			{Name: "门店编号", Text: true},
			{Name: "本期_pos小程序_流水"},
			{Name: "本期_pos小程序_订单数"},
			{Name: "本期_线上外卖_流水"},
		},
		Rows: [][]any{
			{"A", 100.0, 10.0, 40.0},
			{"B", 50.0, 5.0, 20.0},
		},
	}
}

func goalSheet() *model.Sheet {
	return &model.Sheet{
		Name: "goal",
		Columns: []model.Column{
			{Name: "门店编号", Text: true},
			{Name: "全渠道池"},
			{Name: "外卖池"},
			{Name: "全渠道202502"},
			{Name: "全渠道202503"},
			{Name: "全渠道202504"},
			{Name: "外卖渠道202503"},
		},
		Rows: [][]any{
			{"A", 0.5, 0.2, 7.0, 1000.0, 2000.0, 300.0},
		},
	}
}

func TestApportion(t *testing.T) {
	t.Parallel()

	current, err := parser.ParsePeriodLabel("20250301~20250430")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	out, err := Apportion(salesSheet(), goalSheet(), current, testOptions())
	if err != nil {
		t.Fatalf("apportion: %v", err)
	}

	want := []string{
		"门店编号",
		"全渠道目标", "全渠道池_pos小程序_流水", "全渠道池_pos小程序_订单数",
		"外卖目标", "外卖池_线上外卖_流水", "外卖池_线上外卖_订单数",
	}
	got := out.ColumnNames()
	if len(got) != len(want) {
		t.Fatalf("unexpected columns: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("column %d want=%s got=%s", i, want[i], got[i])
		}
	}

	a := out.Rows[0]
	// 3、4 月目标之和；2 月不在本期内
	if out.Float(a, 1) != 3000 || out.Float(a, 4) != 300 {
		t.Fatalf("unexpected targets: %v", a)
	}
	if out.Float(a, 2) != 50 || out.Float(a, 3) != 5 || out.Float(a, 5) != 8 {
		t.Fatalf("unexpected apportioned values: %v", a)
	}
	// 销售表没有 本期_线上外卖_订单数
	if out.Float(a, 6) != 0 {
		t.Fatalf("missing source column must count as 0: %v", a)
	}

	b := out.Rows[1]
	if out.Text(b, 0) != "B" || out.Float(b, 1) != 0 || out.Float(b, 2) != 0 {
		t.Fatalf("store without goal must be zero: %v", b)
	}
}

func TestApportion_MissingPoolColumn(t *testing.T) {
	t.Parallel()

	goals := goalSheet()
	goals.Columns[2].Name = "外卖"
	current, _ := parser.ParsePeriodLabel("20250301~20250331")
	if _, err := Apportion(salesSheet(), goals, current, testOptions()); !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("want ErrMissingColumn, got %v", err)
	}
}

func TestCurrentPeriod(t *testing.T) {
	t.Parallel()

	periods := &model.Sheet{
		Name:    "期数",
		Columns: []model.Column{{Name: "原始时段", Text: true}, {Name: "标准时段", Text: true}},
		Rows: [][]any{
			{"20240301~20240331", "同期"},
			{"20250301~20250331", "本期"},
		},
	}
	p, err := CurrentPeriod(periods)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if p.Start != 20250301 || p.End != 20250331 {
		t.Fatalf("unexpected current: %+v", p)
	}

	periods.Rows = periods.Rows[:1]
	if _, err := CurrentPeriod(periods); !errors.Is(err, ErrNoCurrentPeriod) {
		t.Fatalf("want ErrNoCurrentPeriod, got %v", err)
	}
}
