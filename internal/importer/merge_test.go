package importer

import (
	"errors"
	"testing"

	"salesboard/internal/model"
)

func dataset(hasDate bool, columns []string, records ...*model.Record) *model.Dataset {
	ds := model.NewDataset(hasDate)
	for _, c := range columns {
		ds.AddColumn(c)
	}
	ds.Records = records
	return ds
}

func record(store, period, date string, metrics map[string]float64) *model.Record {
	return &model.Record{StoreID: store, Period: period, Date: date, Metrics: metrics}
}

func TestMergeSupplemental(t *testing.T) {
	t.Parallel()

	const p = "20250301~20250331"
	main := dataset(true, []string{"汇总_流水"},
		record("A", p, "20250301", map[string]float64{"汇总_流水": 100}),
		record("B", p, "20250301", map[string]float64{"汇总_流水": 50}),
	)
	supp := dataset(true, []string{"汇总_流水", "新增汇总_流水"},
		record("A", p, "20250301", map[string]float64{"汇总_流水": 1, "新增汇总_流水": 10}),
		record("A", p, "20250301", map[string]float64{"新增汇总_流水": 5}),
		record("C", p, "20250302", map[string]float64{"新增汇总_流水": 7}),
	)

	out, err := MergeSupplemental(main, supp, "_tg")
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	want := []string{"汇总_流水", "汇总_流水_tg", "新增汇总_流水"}
	if len(out.Columns) != len(want) {
		t.Fatalf("unexpected columns: %v", out.Columns)
	}
	for i, c := range want {
		if out.Columns[i] != c {
			t.Fatalf("column %d want=%s got=%s", i, c, out.Columns[i])
		}
	}
	if len(out.Records) != 3 {
		t.Fatalf("unexpected records: %d", len(out.Records))
	}

	a := out.Records[0]
	if a.Value("汇总_流水") != 100 || a.Value("汇总_流水_tg") != 1 || a.Value("新增汇总_流水") != 15 {
		t.Fatalf("unexpected merged A: %+v", a.Metrics)
	}
	if out.Records[1].Has("新增汇总_流水") {
		t.Fatalf("main-only row must not gain supplemental values")
	}
	c := out.Records[2]
	if c.StoreID != "C" || c.Value("新增汇总_流水") != 7 {
		t.Fatalf("supplemental-only row missing: %+v", c)
	}

	// 主数据不被修改
	if main.HasColumn("新增汇总_流水") || main.Records[0].Has("汇总_流水_tg") {
		t.Fatalf("main dataset modified")
	}
}

func TestMergeSupplemental_DateMismatch(t *testing.T) {
	t.Parallel()

	_, err := MergeSupplemental(dataset(true, nil), dataset(false, nil), "_tg")
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("want ErrMissingColumn, got %v", err)
	}
}
