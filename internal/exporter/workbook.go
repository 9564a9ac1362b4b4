package exporter

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"salesboard/internal/model"
)

// 工作表名最长 31 个字符
const maxSheetName = 31

// Options 导出选项
type Options struct {
	// Progress 每写完一个工作表回调一次
	Progress func(ProgressEvent)
}

// Export 把输出表逐个写成工作表，表头加粗并冻结首行
//
// 数值 NaN 写为空单元格。
func Export(sheets []*model.Sheet, opts Options) (*excelize.File, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheet to export")
	}

	f := excelize.NewFile()
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, sheet := range sheets {
		name := sheetName(sheet.Name)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				_ = f.Close()
				return nil, fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to create sheet %s: %w", name, err)
		}

		if err := writeSheet(f, name, sheet, headerStyle); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to write sheet %s: %w", name, err)
		}
		reportProgress(opts.Progress, i+1, len(sheets), name)
	}

	f.SetActiveSheet(0)
	return f, nil
}

func writeSheet(f *excelize.File, name string, sheet *model.Sheet, headerStyle int) error {
	header := make([]any, len(sheet.Columns))
	for i, c := range sheet.Columns {
		header[i] = c.Name
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return err
	}
	if len(sheet.Columns) > 0 {
		if err := f.SetRowStyle(name, 1, 1, headerStyle); err != nil {
			return err
		}
	}

	for r, row := range sheet.Rows {
		values := make([]any, len(row))
		for i, v := range row {
			values[i] = cellValue(v)
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, cell, &values); err != nil {
			return err
		}
	}

	if len(sheet.Columns) > 0 {
		last, _ := excelize.ColumnNumberToName(len(sheet.Columns))
		if err := f.SetColWidth(name, "A", last, 16); err != nil {
			return err
		}
	}
	return f.SetPanes(name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func cellValue(v any) any {
	if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return nil
	}
	return v
}

func sheetName(name string) string {
	runes := []rune(name)
	if len(runes) > maxSheetName {
		return string(runes[:maxSheetName])
	}
	return name
}

// WriteFile 导出到文件，目录不存在时自动创建
func WriteFile(path string, sheets []*model.Sheet, opts Options) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := Export(sheets, opts)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
