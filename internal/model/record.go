package model

// Record 原始明细行：一个门店、一天、一个查询时段
//
// Metrics 以 "<渠道>_<指标>" 为键，缺失键视为 0。
type Record struct {
	StoreID string
	Period  string
	Date    string
	Metrics map[string]float64
}

// Value 取指标值，缺失为 0
func (r *Record) Value(column string) float64 {
	return r.Metrics[column]
}

// Has 判断该行是否带有某列的值
func (r *Record) Has(column string) bool {
	_, ok := r.Metrics[column]
	return ok
}

// Dataset 一次运行加载的完整明细批次
type Dataset struct {
	Columns []string // 指标列（到达顺序）
	HasDate bool
	Records []*Record

	index map[string]struct{}
}

// NewDataset 创建空数据集
func NewDataset(hasDate bool) *Dataset {
	return &Dataset{
		HasDate: hasDate,
		index:   make(map[string]struct{}),
	}
}

// HasColumn 判断指标列是否存在
func (d *Dataset) HasColumn(column string) bool {
	if d.index == nil {
		d.reindex()
	}
	_, ok := d.index[column]
	return ok
}

// AddColumn 追加指标列（已存在则忽略）
func (d *Dataset) AddColumn(column string) {
	if d.HasColumn(column) {
		return
	}
	d.Columns = append(d.Columns, column)
	d.index[column] = struct{}{}
}

// DropColumns 删除满足条件的指标列，返回被删除的列名
func (d *Dataset) DropColumns(match func(column string) bool) []string {
	kept := make([]string, 0, len(d.Columns))
	var dropped []string
	for _, col := range d.Columns {
		if match(col) {
			dropped = append(dropped, col)
			continue
		}
		kept = append(kept, col)
	}
	if len(dropped) == 0 {
		return nil
	}

	d.Columns = kept
	for _, r := range d.Records {
		for _, col := range dropped {
			delete(r.Metrics, col)
		}
	}
	d.reindex()
	return dropped
}

// Labels 去重后的查询时段（到达顺序）
func (d *Dataset) Labels() []string {
	seen := make(map[string]struct{})
	var labels []string
	for _, r := range d.Records {
		if _, ok := seen[r.Period]; ok {
			continue
		}
		seen[r.Period] = struct{}{}
		labels = append(labels, r.Period)
	}
	return labels
}

// Filter 返回仅包含满足条件行的新数据集（行本身被深拷贝）
func (d *Dataset) Filter(keep func(r *Record) bool) *Dataset {
	out := NewDataset(d.HasDate)
	for _, col := range d.Columns {
		out.AddColumn(col)
	}
	for _, r := range d.Records {
		if keep(r) {
			out.Records = append(out.Records, r.clone())
		}
	}
	return out
}

// Clone 深拷贝，每次运行在自己的副本上派生新列
func (d *Dataset) Clone() *Dataset {
	return d.Filter(func(*Record) bool { return true })
}

func (d *Dataset) reindex() {
	d.index = make(map[string]struct{}, len(d.Columns))
	for _, col := range d.Columns {
		d.index[col] = struct{}{}
	}
}

func (r *Record) clone() *Record {
	metrics := make(map[string]float64, len(r.Metrics))
	for k, v := range r.Metrics {
		metrics[k] = v
	}
	return &Record{
		StoreID: r.StoreID,
		Period:  r.Period,
		Date:    r.Date,
		Metrics: metrics,
	}
}
