// Package logging 提供基于 zerolog 的结构化日志
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger 全局日志实例
var Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

// 当前打开的日志文件
var logFile *os.File

// Config 日志参数，由配置文件 [log] 段转换而来
type Config struct {
	Level  string
	Pretty bool   // 控制台输出为可读格式，否则为 JSON
	File   string // 另外以 JSON 追加写入的日志文件；空表示不写文件
}

// ParseLevel 解析日志级别，空串视为 info
func ParseLevel(s string) (zerolog.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(s)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}

// Init 按配置重建全局日志，控制台输出到 stderr
func Init(cfg Config) error {
	return InitWithWriter(cfg, os.Stderr)
}

// InitWithWriter 同 Init，控制台部分输出到 w
//
// 级别无法解析时按 info 处理；配置校验阶段应已拒绝非法级别。
func InitWithWriter(cfg Config, w io.Writer) error {
	if err := Close(); err != nil {
		return err
	}

	var console io.Writer = w
	if cfg.Pretty {
		console = zerolog.ConsoleWriter{Out: w, TimeFormat: time.DateTime}
	}

	output := console
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logFile = f
		output = zerolog.MultiLevelWriter(console, f)
	}

	level, _ := ParseLevel(cfg.Level)
	Logger = zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()
	return nil
}

// Close 关闭日志文件（如有）
func Close() error {
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

// Component 带 component 字段的子日志
func Component(name string) zerolog.Logger {
	return Logger.With().Str("component", name).Logger()
}

func Debug() *zerolog.Event {
	return Logger.Debug()
}

func Info() *zerolog.Event {
	return Logger.Info()
}

func Warn() *zerolog.Event {
	return Logger.Warn()
}

func Error() *zerolog.Event {
	return Logger.Error()
}
