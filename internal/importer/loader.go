package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"salesboard/internal/logging"
	"salesboard/internal/model"
	"salesboard/internal/parser"
)

// ErrMissingColumn 输入缺少必需的关键列
var ErrMissingColumn = errors.New("missing required column")

// ErrUnsupportedFormat 不支持的文件格式
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ReadRows 读取 csv / xlsx 文件为二维字符串表，第一行为表头
//
// xlsx 只读取第一个工作表。
func ReadRows(path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSV(path)
	case ".xlsx", ".xlsm":
		return readXLSX(path)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheet in %s", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

// LoadFile 加载多时段渠道明细
//
// 门店编号、查询时段（以及可选的日期）按文本读取；其余列若非空单元格全部是数值则作为指标列，
// 空单元格视为缺失，其他文本列忽略。
func LoadFile(path string, names model.ColumnNames) (*model.Dataset, error) {
	rows, err := ReadRows(path)
	if err != nil {
		return nil, err
	}
	ds, err := BuildDataset(rows, names)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	logging.Info().
		Str("file", filepath.Base(path)).
		Int("records", len(ds.Records)).
		Int("columns", len(ds.Columns)).
		Bool("has_date", ds.HasDate).
		Msg("明细加载完成")
	return ds, nil
}

// BuildDataset 由二维表构建数据集
func BuildDataset(rows [][]string, names model.ColumnNames) (*model.Dataset, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, names.Store)
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = parser.NormalizeColumnName(h)
	}
	storeIdx := indexOf(header, names.Store)
	periodIdx := indexOf(header, names.Period)
	dateIdx := -1
	if names.Date != "" {
		dateIdx = indexOf(header, names.Date)
	}
	if storeIdx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, names.Store)
	}
	if periodIdx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, names.Period)
	}

	body := rows[1:]
	metricIdx := make([]int, 0, len(header))
	for i, col := range header {
		if i == storeIdx || i == periodIdx || i == dateIdx || col == "" {
			continue
		}
		if !numericColumn(body, i) {
			logging.Debug().Str("column", col).Msg("非数值列，忽略")
			continue
		}
		metricIdx = append(metricIdx, i)
	}

	ds := model.NewDataset(dateIdx >= 0)
	for _, i := range metricIdx {
		ds.AddColumn(header[i])
	}

	for n, row := range body {
		store := strings.TrimSpace(cell(row, storeIdx))
		period := strings.TrimSpace(cell(row, periodIdx))
		if store == "" && period == "" {
			continue
		}
		r := &model.Record{
			StoreID: store,
			Period:  period,
			Metrics: make(map[string]float64, len(metricIdx)),
		}
		if dateIdx >= 0 {
			date, err := NormalizeDate(cell(row, dateIdx))
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", n+2, err)
			}
			r.Date = date
		}
		for _, i := range metricIdx {
			v, found, _ := parser.ParseNumber(cell(row, i))
			if found {
				r.Metrics[header[i]] = v
			}
		}
		ds.Records = append(ds.Records, r)
	}
	return ds, nil
}

// NormalizeDate 统一日期为 YYYYMMDD，支持 20250301、2025-03-01、2025/3/1 及带时间的写法
func NormalizeDate(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}
	if i := strings.IndexAny(text, " T"); i > 0 {
		text = text[:i]
	}

	parts := strings.FieldsFunc(text, func(r rune) bool { return r == '-' || r == '/' || r == '.' })
	if len(parts) == 1 {
		if len(text) == 8 {
			if _, err := strconv.Atoi(text); err == nil {
				return text, nil
			}
		}
		return "", fmt.Errorf("invalid date %q", text)
	}
	if len(parts) != 3 {
		return "", fmt.Errorf("invalid date %q", text)
	}

	var nums [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return "", fmt.Errorf("invalid date %q", text)
		}
		nums[i] = v
	}
	if nums[0] < 1000 || nums[1] < 1 || nums[1] > 12 || nums[2] < 1 || nums[2] > 31 {
		return "", fmt.Errorf("invalid date %q", text)
	}
	return fmt.Sprintf("%04d%02d%02d", nums[0], nums[1], nums[2]), nil
}

// LoadSheet 加载普通二维表（如目标表），数值列自动识别
func LoadSheet(path, name string) (*model.Sheet, error) {
	rows, err := ReadRows(path)
	if err != nil {
		return nil, err
	}
	return BuildSheet(name, rows), nil
}

// BuildSheet 由二维表构建 Sheet：非空单元格全部为数值的列按数值列读取，其余为文本列
func BuildSheet(name string, rows [][]string) *model.Sheet {
	s := &model.Sheet{Name: name}
	if len(rows) == 0 {
		return s
	}
	body := rows[1:]
	for i, h := range rows[0] {
		s.Columns = append(s.Columns, model.Column{
			Name: parser.NormalizeColumnName(h),
			Text: !numericColumn(body, i),
		})
	}
	for _, row := range body {
		out := make([]any, len(s.Columns))
		for i, c := range s.Columns {
			text := strings.TrimSpace(cell(row, i))
			if text == "" {
				continue
			}
			if c.Text {
				out[i] = text
				continue
			}
			v, _, _ := parser.ParseNumber(text)
			out[i] = v
		}
		s.Rows = append(s.Rows, out)
	}
	return s
}

func numericColumn(rows [][]string, idx int) bool {
	for _, row := range rows {
		if _, _, err := parser.ParseNumber(cell(row, idx)); err != nil {
			return false
		}
	}
	return true
}

func indexOf(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
