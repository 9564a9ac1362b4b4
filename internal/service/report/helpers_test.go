package report

import "salesboard/internal/model"

func testNames() model.ColumnNames {
	return model.ColumnNames{
		Store:      "门店编号",
		Period:     "查询时段",
		Date:       "日期",
		DateMarker: "日期",
	}
}

func testTaxonomy() model.ChannelTaxonomy {
	return model.ChannelTaxonomy{
		Metrics:           []string{"流水", "实收", "优惠", "订单数"},
		RevenueMetric:     "流水",
		DiscountMetric:    "优惠",
		ActivityDayMetric: "营业天数",
		ActiveStoreMetric: "营业门店",
		SummaryChannel:    "汇总",
		MergeSuffix:       "_tg",
		Composites: []model.Composite{
			{Name: "汇总", Sources: []string{"新增汇总"}, DropSources: true},
			{Name: "甜啦啦小程序", Sources: []string{"甜啦啦小程序-储值业务"}, DropSources: true},
			{Name: "线上外卖", Sources: []string{"美团外卖", "饿了么外卖"}},
		},
	}
}

func testOrder() model.OrderSpec {
	return model.OrderSpec{
		Channels: []string{"汇总", "线上外卖", "美团外卖", "饿了么外卖", "pos"},
		Metrics:  []string{"营业天数", "流水", "实收", "优惠", "订单数"},
		Periods:  []string{"本期", "环比期", "同期"},
	}
}

func testOptions() Options {
	return Options{
		Columns:   testNames(),
		Taxonomy:  testTaxonomy(),
		Order:     testOrder(),
		Derive:    DeriveOptions{ExcludeDiscount: true},
		Retention: RetentionOptions{Enabled: true},
	}
}

func rec(store, period, date string, metrics map[string]float64) *model.Record {
	return &model.Record{StoreID: store, Period: period, Date: date, Metrics: metrics}
}

func newDataset(columns []string, records ...*model.Record) *model.Dataset {
	ds := model.NewDataset(true)
	for _, col := range columns {
		ds.AddColumn(col)
	}
	ds.Records = records
	return ds
}

const (
	labelCurrent = "20250301~20250331"
	labelPrior   = "20250201~20250228"
	labelYoY     = "20240301~20240331"
)
