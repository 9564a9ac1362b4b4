package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// 元信息键
const (
	MetaLastRunID      = "last_run_id"
	MetaCurrentPeriod  = "current_period"
	MetaAssignmentKind = "assignment_kind"
)

// ErrMetaNotFound 元信息不存在
var ErrMetaNotFound = errors.New("meta key not found")

// GetMeta 获取元信息
func (s *Store) GetMeta(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM meta WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: %s", ErrMetaNotFound, key)
		}
		return "", err
	}
	return value, nil
}

// SetMeta 设置元信息
func (s *Store) SetMeta(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = ?, updated_at = CURRENT_TIMESTAMP
	`, key, value, value)
	if err != nil {
		return fmt.Errorf("failed to set meta %s: %w", key, err)
	}
	return nil
}

// GetAllMeta 获取所有元信息
func (s *Store) GetAllMeta() (map[string]string, error) {
	rows, err := s.db.Query("SELECT key, value FROM meta")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		meta[key] = value
	}

	return meta, rows.Err()
}
