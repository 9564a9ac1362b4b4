package store

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"

	"salesboard/internal/model"
)

// ErrTableNotFound 表不存在
var ErrTableNotFound = errors.New("table not found")

// TableInfo 报表输出表概况
type TableInfo struct {
	Name    string `json:"name"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// ReplaceTables 在同一事务内整表替换：先删除同名表再重建并写入
//
// 任一表写入失败时整体回滚，不会留下部分结果。NaN 写为 NULL。
func (s *Store) ReplaceTables(sheets ...*model.Sheet) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, sheet := range sheets {
		if internalTables[sheet.Name] {
			return fmt.Errorf("table name %s is reserved", sheet.Name)
		}
		if err := replaceTable(tx, sheet); err != nil {
			return fmt.Errorf("failed to write table %s: %w", sheet.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func replaceTable(tx *sql.Tx, sheet *model.Sheet) error {
	table := quoteIdent(sheet.Name)
	if _, err := tx.Exec("DROP TABLE IF EXISTS " + table); err != nil {
		return err
	}
	if len(sheet.Columns) == 0 {
		return errors.New("no columns")
	}

	defs := make([]string, len(sheet.Columns))
	cols := make([]string, len(sheet.Columns))
	marks := make([]string, len(sheet.Columns))
	for i, c := range sheet.Columns {
		typ := "REAL"
		if c.Text {
			typ = "TEXT"
		}
		cols[i] = quoteIdent(c.Name)
		defs[i] = cols[i] + " " + typ
		marks[i] = "?"
	}
	if _, err := tx.Exec(fmt.Sprintf("CREATE TABLE %s (%s)", table, strings.Join(defs, ", "))); err != nil {
		return err
	}

	stmt, err := tx.Prepare(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), strings.Join(marks, ", ")))
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(sheet.Columns))
	for n, row := range sheet.Rows {
		for i := range args {
			args[i] = nil
			if i < len(row) {
				args[i] = sqlValue(row[i])
			}
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", n+1, err)
		}
	}
	return nil
}

func sqlValue(v any) any {
	if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return nil
	}
	return v
}

// ReadTable 读取整张表；INTEGER/REAL 等数值列读为 float64，其余读为 string，NULL 为 nil
func (s *Store) ReadTable(name string) (*model.Sheet, error) {
	ok, err := s.HasTable(name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}

	rows, err := s.db.Query("SELECT * FROM " + quoteIdent(name))
	if err != nil {
		return nil, fmt.Errorf("failed to query table %s: %w", name, err)
	}
	defer rows.Close()

	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to get column types: %w", err)
	}
	sheet := &model.Sheet{Name: name}
	for _, ct := range types {
		sheet.Columns = append(sheet.Columns, model.Column{
			Name: ct.Name(),
			Text: !numericType(ct.DatabaseTypeName()),
		})
	}

	for rows.Next() {
		raw := make([]any, len(types))
		ptrs := make([]any, len(types))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan table %s: %w", name, err)
		}
		row := make([]any, len(types))
		for i, v := range raw {
			row[i] = cellValue(v, sheet.Columns[i].Text)
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate table %s: %w", name, err)
	}
	return sheet, nil
}

func numericType(t string) bool {
	switch strings.ToUpper(t) {
	case "REAL", "INTEGER", "INT", "BIGINT", "NUMERIC", "FLOAT", "DOUBLE", "DECIMAL":
		return true
	}
	return false
}

func cellValue(v any, text bool) any {
	switch x := v.(type) {
	case nil:
		return nil
	case []byte:
		return string(x)
	case int64:
		if text {
			return fmt.Sprint(x)
		}
		return float64(x)
	case float64:
		if text {
			return fmt.Sprint(x)
		}
		return x
	}
	return v
}

// HasTable 判断表是否存在
func (s *Store) HasTable(name string) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(1) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", name, err)
	}
	return n > 0, nil
}

// ListTables 列出报表输出表（不含内部表），按名称排序
func (s *Store) ListTables() ([]TableInfo, error) {
	rows, err := s.db.Query(`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query tables failed: %w", err)
	}
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan tables failed: %w", err)
		}
		if !internalTables[name] {
			names = append(names, name)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tables failed: %w", err)
	}

	out := make([]TableInfo, 0, len(names))
	for _, name := range names {
		info := TableInfo{Name: name}
		if err := s.db.QueryRow("SELECT COUNT(1) FROM " + quoteIdent(name)).Scan(&info.Rows); err != nil {
			return nil, fmt.Errorf("count table %s failed: %w", name, err)
		}
		cols, err := s.db.Query("SELECT * FROM " + quoteIdent(name) + " LIMIT 0")
		if err != nil {
			return nil, fmt.Errorf("query table %s failed: %w", name, err)
		}
		colNames, err := cols.Columns()
		cols.Close()
		if err != nil {
			return nil, fmt.Errorf("columns of %s failed: %w", name, err)
		}
		info.Columns = len(colNames)
		out = append(out, info)
	}
	return out, nil
}
