package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"salesboard/internal/model"
)

// ErrRunNotFound 运行记录不存在
var ErrRunNotFound = errors.New("run not found")

// CreateRunLog 创建运行日志，返回 run id
func (s *Store) CreateRunLog(kind, inputFile, supplementalFile string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(`
		INSERT INTO run_logs (id, kind, input_file, supplemental_file, status)
		VALUES (?, ?, ?, ?, ?)
	`, id, kind, inputFile, supplementalFile, model.RunStatusProcessing)
	if err != nil {
		return "", fmt.Errorf("failed to create run log: %w", err)
	}
	return id, nil
}

// FinishRunLog 完成运行日志更新
func (s *Store) FinishRunLog(run *model.RunLog) error {
	res, err := s.db.Exec(`
		UPDATE run_logs SET
			status = ?,
			total_records = ?,
			total_stores = ?,
			retained_stores = ?,
			current_period = ?,
			tables_written = ?,
			error_message = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, run.Status, run.TotalRecords, run.TotalStores, run.RetainedStores,
		run.CurrentPeriod, run.TablesWritten, run.ErrorMessage, run.ID)
	if err != nil {
		return fmt.Errorf("failed to update run log: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, run.ID)
	}
	return nil
}

const runLogColumns = `
	id, kind, input_file, supplemental_file, status,
	total_records, total_stores, retained_stores,
	current_period, tables_written, error_message,
	started_at, completed_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRunLog(row rowScanner) (*model.RunLog, error) {
	var (
		run       model.RunLog
		started   sql.NullTime
		completed sql.NullTime
	)
	if err := row.Scan(
		&run.ID, &run.Kind, &run.InputFile, &run.SupplementalFile, &run.Status,
		&run.TotalRecords, &run.TotalStores, &run.RetainedStores,
		&run.CurrentPeriod, &run.TablesWritten, &run.ErrorMessage,
		&started, &completed,
	); err != nil {
		return nil, err
	}
	if started.Valid {
		run.StartedAt = started.Time
	}
	if completed.Valid {
		t := completed.Time
		run.CompletedAt = &t
	}
	return &run, nil
}

// GetRunLog 按 id 查询运行日志
func (s *Store) GetRunLog(id string) (*model.RunLog, error) {
	row := s.db.QueryRow(`SELECT `+runLogColumns+` FROM run_logs WHERE id = ?`, id)
	run, err := scanRunLog(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
		}
		return nil, fmt.Errorf("failed to query run log: %w", err)
	}
	return run, nil
}

// ListRunLogs 最近的运行日志（按开始时间倒序），limit <= 0 时返回全部
func (s *Store) ListRunLogs(limit int) ([]*model.RunLog, error) {
	query := `SELECT ` + runLogColumns + ` FROM run_logs ORDER BY started_at DESC, rowid DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query run logs failed: %w", err)
	}
	defer rows.Close()

	var out []*model.RunLog
	for rows.Next() {
		run, err := scanRunLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run log failed: %w", err)
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run logs failed: %w", err)
	}
	return out, nil
}
