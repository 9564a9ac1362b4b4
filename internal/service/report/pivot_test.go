package report

import (
	"testing"

	"salesboard/internal/parser"
)

func TestPivot_SumsWithinStoreAndPeriod(t *testing.T) {
	t.Parallel()

	ds := newDataset([]string{"汇总_流水", "汇总_营业天数"},
		rec("B", labelCurrent, "20250301", map[string]float64{"汇总_流水": 40, "汇总_营业天数": 1}),
		rec("A", labelCurrent, "20250301", map[string]float64{"汇总_流水": 10, "汇总_营业天数": 1}),
		rec("A", labelCurrent, "20250302", map[string]float64{"汇总_流水": 15, "汇总_营业天数": 1}),
		rec("A", labelYoY, "20240301", map[string]float64{"汇总_流水": 8, "汇总_营业天数": 1}),
	)
	a, err := parser.ClassifyPeriods(ds.Labels())
	if err != nil {
		t.Fatalf("classify: %v", err)
	}

	wide, err := Pivot(ds, a, "门店编号")
	if err != nil {
		t.Fatalf("pivot: %v", err)
	}

	if len(wide.Rows) != 2 || wide.Rows[0].Key != "A" || wide.Rows[1].Key != "B" {
		t.Fatalf("unexpected rows: %+v", wide.Rows)
	}
	want := []string{"本期_汇总_流水", "同期_汇总_流水", "本期_汇总_营业天数", "同期_汇总_营业天数"}
	if len(wide.Columns) != len(want) {
		t.Fatalf("unexpected columns: %v", wide.Columns)
	}
	for i := range want {
		if wide.Columns[i] != want[i] {
			t.Fatalf("unexpected columns: %v", wide.Columns)
		}
	}

	if got := wide.Rows[0].Value("本期_汇总_流水"); got != 25 {
		t.Fatalf("pivot must sum: %v", got)
	}
	if got := wide.Rows[0].Value("本期_汇总_营业天数"); got != 2 {
		t.Fatalf("operating days must be counted: %v", got)
	}
	if v, ok := wide.Rows[1].Num["同期_汇总_流水"]; !ok || v != 0 {
		t.Fatalf("missing store-period must be filled with 0: %v %v", v, ok)
	}
}

func TestPivot_UnassignedPeriod(t *testing.T) {
	t.Parallel()

	ds := newDataset([]string{"汇总_流水"},
		rec("A", labelCurrent, "", map[string]float64{"汇总_流水": 1}),
		rec("A", labelYoY, "", map[string]float64{"汇总_流水": 1}),
	)
	a, err := parser.ClassifyPeriods(ds.Labels())
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	ds.Records = append(ds.Records, rec("A", labelPrior, "", map[string]float64{"汇总_流水": 1}))

	if _, err := Pivot(ds, a, "门店编号"); err == nil {
		t.Fatalf("expected error for unassigned period")
	}
}
