// Package pipeline 串联加载、报表计算、持久化与导出，并记录运行日志
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"salesboard/internal/config"
	"salesboard/internal/exporter"
	"salesboard/internal/importer"
	"salesboard/internal/logging"
	"salesboard/internal/model"
	"salesboard/internal/service/goal"
	"salesboard/internal/service/report"
	"salesboard/internal/store"
)

// 导出文件名
const (
	ResultWorkbook = "result.xlsx"
	GoalWorkbook   = "goal.xlsx"
)

// ErrNoInput 未指定输入文件
var ErrNoInput = errors.New("input file is required")

// RunRequest 报表运行参数，留空的字段取配置值
type RunRequest struct {
	InputFile        string `json:"inputFile"`
	SupplementalFile string `json:"supplementalFile"`
	OutputDir        string `json:"outputDir"`
}

// GoalRequest 目标分解参数
type GoalRequest struct {
	GoalFile  string `json:"goalFile"`
	OutputDir string `json:"outputDir"`
}

// Runner 流水线执行器；同一时刻只执行一次运行
type Runner struct {
	cfg   *config.AppConfig
	store *store.Store
	mu    sync.Mutex
}

// NewRunner 创建执行器
func NewRunner(cfg *config.AppConfig, st *store.Store) *Runner {
	return &Runner{cfg: cfg, store: st}
}

// Run 执行一次报表运行：加载 -> 合并补充数据 -> 计算 -> 整表写入 -> 导出
func (r *Runner) Run(ctx context.Context, req RunRequest) (*model.RunLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if req.InputFile == "" {
		req.InputFile = r.cfg.SalesPath()
	}
	if req.SupplementalFile == "" {
		req.SupplementalFile = r.cfg.SupplementalDataPath
	}
	if req.OutputDir == "" {
		req.OutputDir = r.cfg.OutputDir
	}
	if req.InputFile == "" {
		return nil, ErrNoInput
	}

	id, err := r.store.CreateRunLog(model.RunKindReport, req.InputFile, req.SupplementalFile)
	if err != nil {
		return nil, err
	}
	run := &model.RunLog{
		ID:               id,
		Kind:             model.RunKindReport,
		InputFile:        req.InputFile,
		SupplementalFile: req.SupplementalFile,
	}

	start := time.Now()
	runErr := r.runReport(ctx, req, run)
	return r.finish(run, runErr, start)
}

func (r *Runner) runReport(ctx context.Context, req RunRequest, run *model.RunLog) error {
	names := r.cfg.Columns

	ds, err := importer.LoadFile(req.InputFile, names)
	if err != nil {
		return fmt.Errorf("load input: %w", err)
	}
	if req.SupplementalFile != "" {
		supp, err := importer.LoadFile(req.SupplementalFile, names)
		if err != nil {
			return fmt.Errorf("load supplemental: %w", err)
		}
		ds, err = importer.MergeSupplemental(ds, supp, r.cfg.Taxonomy.MergeSuffix)
		if err != nil {
			return fmt.Errorf("merge supplemental: %w", err)
		}
	}

	res, err := report.NewEngine(r.cfg.ReportOptions()).Run(ctx, ds)
	if err != nil {
		return err
	}

	run.TotalRecords = res.Records
	run.TotalStores = res.Stores
	run.CurrentPeriod = res.Full.Assignment.Current.Raw
	if res.Retained != nil {
		run.RetainedStores = len(res.Retained.YearOverYear.Rows)
	}

	sheets := res.Sheets()
	if err := r.store.ReplaceTables(sheets...); err != nil {
		return fmt.Errorf("persist: %w", err)
	}
	run.TablesWritten = len(sheets)

	if err := r.store.SetMeta(store.MetaCurrentPeriod, run.CurrentPeriod); err != nil {
		return err
	}
	if err := r.store.SetMeta(store.MetaAssignmentKind, res.Full.Assignment.Kind.String()); err != nil {
		return err
	}

	if req.OutputDir != "" {
		if err := r.export(filepath.Join(req.OutputDir, ResultWorkbook), sheets); err != nil {
			return err
		}
	}
	return nil
}

// Goal 执行目标分解：读取期数与同比数据，结合目标表写入目标分解
func (r *Runner) Goal(ctx context.Context, req GoalRequest) (*model.RunLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if req.GoalFile == "" {
		req.GoalFile = r.cfg.GoalDataPath
	}
	if req.OutputDir == "" {
		req.OutputDir = r.cfg.OutputDir
	}

	source := req.GoalFile
	if source == "" {
		source = r.cfg.Goal.Table
	}
	id, err := r.store.CreateRunLog(model.RunKindGoal, source, "")
	if err != nil {
		return nil, err
	}
	run := &model.RunLog{ID: id, Kind: model.RunKindGoal, InputFile: source}

	start := time.Now()
	runErr := r.runGoal(ctx, req, run)
	return r.finish(run, runErr, start)
}

func (r *Runner) runGoal(ctx context.Context, req GoalRequest, run *model.RunLog) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	periods, err := r.store.ReadTable(report.TablePeriods)
	if err != nil {
		return fmt.Errorf("read periods: %w", err)
	}
	current, err := goal.CurrentPeriod(periods)
	if err != nil {
		return err
	}
	sales, err := r.store.ReadTable(report.TableYearOverYear)
	if err != nil {
		return fmt.Errorf("read sales: %w", err)
	}

	var goals *model.Sheet
	if req.GoalFile != "" {
		goals, err = importer.LoadSheet(req.GoalFile, r.cfg.Goal.Table)
	} else {
		goals, err = r.store.ReadTable(r.cfg.Goal.Table)
	}
	if err != nil {
		return fmt.Errorf("read goals: %w", err)
	}

	out, err := goal.Apportion(sales, goals, current, goal.Options{
		StoreColumn: r.cfg.Columns.Store,
		Metrics:     r.cfg.Goal.Metrics,
		Pools:       r.cfg.Goal.Pools,
	})
	if err != nil {
		return err
	}

	run.CurrentPeriod = current.Raw
	run.TotalStores = len(out.Rows)
	if err := r.store.ReplaceTables(out); err != nil {
		return fmt.Errorf("persist: %w", err)
	}
	run.TablesWritten = 1

	if req.OutputDir != "" {
		return r.export(filepath.Join(req.OutputDir, GoalWorkbook), []*model.Sheet{out})
	}
	return nil
}

func (r *Runner) export(path string, sheets []*model.Sheet) error {
	err := exporter.WriteFile(path, sheets, exporter.Options{
		Progress: func(ev exporter.ProgressEvent) {
			logging.Debug().Int("percent", ev.Percent).Str("sheet", ev.Sheet).Msg("写入工作表")
		},
	})
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	logging.Info().Str("path", path).Int("sheets", len(sheets)).Msg("导出完成")
	return nil
}

// finish 写回运行结果；运行失败时仍记录日志并返回原始错误
func (r *Runner) finish(run *model.RunLog, runErr error, start time.Time) (*model.RunLog, error) {
	run.Status = model.RunStatusSuccess
	if runErr != nil {
		run.Status = model.RunStatusFailed
		run.ErrorMessage = runErr.Error()
	}

	if err := r.store.FinishRunLog(run); err != nil {
		logging.Error().Err(err).Str("run_id", run.ID).Msg("更新运行日志失败")
		if runErr == nil {
			return nil, err
		}
	}
	if runErr == nil {
		if err := r.store.SetMeta(store.MetaLastRunID, run.ID); err != nil {
			return nil, err
		}
	}

	var event *zerolog.Event
	if runErr != nil {
		event = logging.Error().Err(runErr)
	} else {
		event = logging.Info()
	}
	event.
		Str("run_id", run.ID).
		Str("kind", run.Kind).
		Str("status", run.Status).
		Int("stores", run.TotalStores).
		Int("tables", run.TablesWritten).
		Dur("elapsed", time.Since(start)).
		Msg("运行结束")

	if runErr != nil {
		return run, runErr
	}

	saved, err := r.store.GetRunLog(run.ID)
	if err != nil {
		return run, nil
	}
	return saved, nil
}
