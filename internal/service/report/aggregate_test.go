package report

import (
	"slices"
	"testing"
)

func TestAggregate_SumsSources(t *testing.T) {
	t.Parallel()

	ds := newDataset([]string{"美团外卖_流水", "饿了么外卖_流水"},
		rec("A", labelCurrent, "20250301", map[string]float64{"美团外卖_流水": 10, "饿了么外卖_流水": 5}),
		rec("A", labelCurrent, "20250302", map[string]float64{"美团外卖_流水": 3}),
	)

	res := Aggregate(ds, testTaxonomy())

	if !slices.Contains(res.Created, "线上外卖_流水") {
		t.Fatalf("composite column not created: %v", res.Created)
	}
	if got := ds.Records[0].Value("线上外卖_流水"); got != 15 {
		t.Fatalf("unexpected composite: %v", got)
	}
	// 缺失单元格按 0 计
	if got := ds.Records[1].Value("线上外卖_流水"); got != 3 {
		t.Fatalf("unexpected composite with blank cell: %v", got)
	}
	// 来源列保留
	if !ds.HasColumn("美团外卖_流水") {
		t.Fatalf("source column must not be removed by aggregation")
	}
}

func TestAggregate_MissingSourceIsZero(t *testing.T) {
	t.Parallel()

	ds := newDataset([]string{"美团外卖_流水"},
		rec("A", labelCurrent, "20250301", map[string]float64{"美团外卖_流水": 7}),
	)

	res := Aggregate(ds, testTaxonomy())

	if got := ds.Records[0].Value("线上外卖_流水"); got != 7 {
		t.Fatalf("composite must equal present sources only: %v", got)
	}
	if !slices.Contains(res.Missing, "饿了么外卖_流水") {
		t.Fatalf("missing source not reported: %v", res.Missing)
	}
	if ds.HasColumn("饿了么外卖_流水") {
		t.Fatalf("missing source column must not be created")
	}
	// 没有任何来源列的组合渠道不创建
	if ds.HasColumn("线上外卖_实收") {
		t.Fatalf("composite without sources must not be created")
	}
}

func TestAggregate_AddsOntoExistingComposite(t *testing.T) {
	t.Parallel()

	ds := newDataset([]string{"汇总_流水", "新增汇总_流水"},
		rec("A", labelCurrent, "20250301", map[string]float64{"汇总_流水": 100, "新增汇总_流水": 20}),
		rec("B", labelCurrent, "20250301", map[string]float64{"新增汇总_流水": 8}),
	)

	res := Aggregate(ds, testTaxonomy())

	if slices.Contains(res.Created, "汇总_流水") {
		t.Fatalf("existing composite must not be reported as created")
	}
	if got := ds.Records[0].Value("汇总_流水"); got != 120 {
		t.Fatalf("unexpected summary: %v", got)
	}
	if got := ds.Records[1].Value("汇总_流水"); got != 8 {
		t.Fatalf("unexpected summary for blank base: %v", got)
	}
}

func TestCleanup_DropsMergeHelpers(t *testing.T) {
	t.Parallel()

	ds := newDataset([]string{"汇总_流水", "新增汇总_流水", "新增汇总_订单数", "汇总_流水_tg", "美团外卖_流水"},
		rec("A", labelCurrent, "20250301", map[string]float64{
			"汇总_流水": 1, "新增汇总_流水": 2, "新增汇总_订单数": 3, "汇总_流水_tg": 4, "美团外卖_流水": 5,
		}),
	)
	tax := testTaxonomy()
	Aggregate(ds, tax)
	dropped := Cleanup(ds, tax)

	for _, col := range []string{"新增汇总_流水", "新增汇总_订单数", "汇总_流水_tg"} {
		if !slices.Contains(dropped, col) || ds.HasColumn(col) {
			t.Fatalf("%s should be dropped: %v", col, dropped)
		}
		if ds.Records[0].Has(col) {
			t.Fatalf("%s still present on record", col)
		}
	}
	// 未标记 drop_sources 的来源列保留
	if !ds.HasColumn("美团外卖_流水") {
		t.Fatalf("non-dropping sources must stay")
	}
	if got := ds.Records[0].Value("汇总_流水"); got != 3 {
		t.Fatalf("unexpected summary after cleanup: %v", got)
	}
}
