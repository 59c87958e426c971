package runner

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"vaconvert/internal/engine"
	"vaconvert/internal/model"
	"vaconvert/internal/remap"
	"vaconvert/internal/store"
	"vaconvert/internal/tableio"
)

// 进度事件类型
const (
	EventStart = "start"
	EventInfo  = "info"
	EventDone  = "done"
	EventError = "error"
)

// ProgressEvent 进度事件
type ProgressEvent struct {
	Type      string      `json:"type"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Runner 文件级转换协调器：读表、调用引擎、写表、登记运行记录
type Runner struct {
	store   *store.Store
	logger  *zap.Logger
	workers int
}

// New 创建 Runner，st 为 nil 时不登记运行记录
func New(st *store.Store, logger *zap.Logger, workers int) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{store: st, logger: logger, workers: workers}
}

// ConvertOptions 转换选项
type ConvertOptions struct {
	TrainPath   string
	TestPath    string // 可选
	OutPath     string // 为空时在输入旁生成
	TestOutPath string
	Format      model.Format
	CutoffMode  model.CutoffMode
	Scheme      model.Scheme
	CauseColumn string
}

// ConvertReport 转换完成报告
type ConvertReport struct {
	RunID       string            `json:"runId"`
	TrainOut    string            `json:"trainOut"`
	TestOut     string            `json:"testOut,omitempty"`
	Diagnostics model.Diagnostics `json:"diagnostics"`
	Duration    time.Duration     `json:"duration"`
}

// RemapOptions 重编码选项
type RemapOptions struct {
	InputPath string
	OutPath   string
	Labels    remap.Labels
	Scheme    model.Scheme
}

// RemapReport 重编码完成报告
type RemapReport struct {
	RunID        string        `json:"runId"`
	Out          string        `json:"out"`
	Rows         int           `json:"rows"`
	Columns      int           `json:"columns"`
	Unrecognized []string      `json:"unrecognized,omitempty"`
	Duration     time.Duration `json:"duration"`
}

// OutputPath 在输入文件旁派生输出路径，如 train.csv -> train_converted.csv
func OutputPath(input, suffix string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_" + suffix + ext
}

// Convert 异步执行转换，返回进度通道
func (r *Runner) Convert(ctx context.Context, opts ConvertOptions) <-chan ProgressEvent {
	ch := make(chan ProgressEvent, 16)
	go func() {
		defer close(ch)
		emit := func(e ProgressEvent) { r.sendProgress(ctx, ch, e) }
		report, err := r.runConvert(ctx, opts, emit)
		if err != nil {
			emit(ProgressEvent{Type: EventError, Message: err.Error(), Data: errorData(err)})
			return
		}
		emit(ProgressEvent{Type: EventDone, Message: "转换完成", Data: report})
	}()
	return ch
}

// ConvertSync 同步执行转换
func (r *Runner) ConvertSync(ctx context.Context, opts ConvertOptions) (*ConvertReport, error) {
	return r.runConvert(ctx, opts, func(ProgressEvent) {})
}

// Remap 异步执行重编码，返回进度通道
func (r *Runner) Remap(ctx context.Context, opts RemapOptions) <-chan ProgressEvent {
	ch := make(chan ProgressEvent, 16)
	go func() {
		defer close(ch)
		emit := func(e ProgressEvent) { r.sendProgress(ctx, ch, e) }
		report, err := r.runRemap(ctx, opts, emit)
		if err != nil {
			emit(ProgressEvent{Type: EventError, Message: err.Error(), Data: errorData(err)})
			return
		}
		emit(ProgressEvent{Type: EventDone, Message: "重编码完成", Data: report})
	}()
	return ch
}

// RemapSync 同步执行重编码
func (r *Runner) RemapSync(ctx context.Context, opts RemapOptions) (*RemapReport, error) {
	return r.runRemap(ctx, opts, func(ProgressEvent) {})
}

func (r *Runner) runConvert(ctx context.Context, opts ConvertOptions, emit func(ProgressEvent)) (*ConvertReport, error) {
	start := time.Now()
	runID := uuid.NewString()

	if opts.OutPath == "" {
		opts.OutPath = OutputPath(opts.TrainPath, "converted")
	}
	if opts.TestPath != "" && opts.TestOutPath == "" {
		opts.TestOutPath = OutputPath(opts.TestPath, "converted")
	}

	r.beginRun(&store.Run{
		ID:         runID,
		Kind:       store.KindConvert,
		Format:     string(opts.Format),
		CutoffMode: string(opts.CutoffMode),
		Scheme:     string(opts.Scheme),
		InputName:  filepath.Base(opts.TrainPath),
		TestName:   baseName(opts.TestPath),
	})

	emit(ProgressEvent{
		Type:    EventStart,
		Message: "开始转换",
		Data: map[string]string{
			"runId":    runID,
			"filename": filepath.Base(opts.TrainPath),
			"format":   string(opts.Format),
		},
		Timestamp: time.Now(),
	})

	report, err := r.convert(ctx, opts, emit)
	if err != nil {
		r.failRun(runID, err)
		return nil, err
	}
	report.RunID = runID
	report.Duration = time.Since(start)

	if r.store != nil {
		if err := r.store.CompleteRun(runID, report.Diagnostics); err != nil {
			r.logger.Warn("failed to record run", zap.String("run", runID), zap.Error(err))
		}
	}
	return report, nil
}

func (r *Runner) convert(ctx context.Context, opts ConvertOptions, emit func(ProgressEvent)) (*ConvertReport, error) {
	train, err := tableio.ReadFile(opts.TrainPath)
	if err != nil {
		return nil, err
	}
	emit(info(fmt.Sprintf("读取训练集 %d 行 %d 列", train.Len(), train.Width()), nil))

	var test *model.Table
	if opts.TestPath != "" {
		if test, err = tableio.ReadFile(opts.TestPath); err != nil {
			return nil, err
		}
		emit(info(fmt.Sprintf("读取测试集 %d 行", test.Len()), nil))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err := engine.Convert(train, test, engine.Config{
		Format:      opts.Format,
		CutoffMode:  opts.CutoffMode,
		CauseColumn: opts.CauseColumn,
		Scheme:      opts.Scheme,
		Workers:     r.workers,
		Logger:      r.logger,
	})
	if err != nil {
		return nil, err
	}
	for _, n := range res.Diagnostics.Notices {
		emit(info(n, nil))
	}
	if len(res.Diagnostics.Unresolved) > 0 {
		emit(info(fmt.Sprintf("%d 个单元格未能转换", len(res.Diagnostics.Unresolved)), nil))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := tableio.WriteFile(opts.OutPath, res.Train); err != nil {
		return nil, err
	}
	report := &ConvertReport{TrainOut: opts.OutPath, Diagnostics: res.Diagnostics}
	if res.Test != nil {
		if err := tableio.WriteFile(opts.TestOutPath, res.Test); err != nil {
			return nil, err
		}
		report.TestOut = opts.TestOutPath
	}
	emit(info("写出转换结果", map[string]string{"trainOut": report.TrainOut, "testOut": report.TestOut}))
	return report, nil
}

func (r *Runner) runRemap(ctx context.Context, opts RemapOptions, emit func(ProgressEvent)) (*RemapReport, error) {
	start := time.Now()
	runID := uuid.NewString()

	if opts.OutPath == "" {
		opts.OutPath = OutputPath(opts.InputPath, "remapped")
	}

	r.beginRun(&store.Run{
		ID:        runID,
		Kind:      store.KindRemap,
		Scheme:    string(opts.Scheme),
		InputName: filepath.Base(opts.InputPath),
	})
	emit(ProgressEvent{
		Type:      EventStart,
		Message:   "开始重编码",
		Data:      map[string]string{"runId": runID, "filename": filepath.Base(opts.InputPath)},
		Timestamp: time.Now(),
	})

	report, err := r.remap(ctx, opts, emit)
	if err != nil {
		r.failRun(runID, err)
		return nil, err
	}
	report.RunID = runID
	report.Duration = time.Since(start)

	if r.store != nil {
		if err := r.store.CompleteRemap(runID, report.Rows, report.Columns, report.Unrecognized); err != nil {
			r.logger.Warn("failed to record run", zap.String("run", runID), zap.Error(err))
		}
	}
	r.logger.Info("remap finished",
		zap.String("run", runID),
		zap.Int("rows", report.Rows),
		zap.Strings("unrecognized", report.Unrecognized),
	)
	return report, nil
}

func (r *Runner) remap(ctx context.Context, opts RemapOptions, emit func(ProgressEvent)) (*RemapReport, error) {
	t, err := tableio.ReadFile(opts.InputPath)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err := remap.Remap(t, opts.Labels, opts.Scheme)
	if err != nil {
		return nil, err
	}
	for _, col := range res.Unrecognized {
		emit(info(fmt.Sprintf("列 %s 含未识别取值，保持原样", col), nil))
	}

	if err := tableio.WriteFile(opts.OutPath, res.Table); err != nil {
		return nil, err
	}
	return &RemapReport{
		Out:          opts.OutPath,
		Rows:         res.Table.Len(),
		Columns:      res.Table.Width(),
		Unrecognized: res.Unrecognized,
	}, nil
}

func (r *Runner) beginRun(run *store.Run) {
	if r.store == nil {
		return
	}
	if err := r.store.CreateRun(run); err != nil {
		r.logger.Warn("failed to create run record", zap.String("run", run.ID), zap.Error(err))
	}
}

func (r *Runner) failRun(id string, cause error) {
	r.logger.Error("run failed", zap.String("run", id), zap.Error(cause))
	if r.store == nil {
		return
	}
	if err := r.store.FailRun(id, cause.Error()); err != nil {
		r.logger.Warn("failed to record run failure", zap.String("run", id), zap.Error(err))
	}
}

// sendProgress 发送进度事件，接收方退出后放弃
func (r *Runner) sendProgress(ctx context.Context, ch chan ProgressEvent, event ProgressEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case ch <- event:
	case <-ctx.Done():
	}
}

func info(msg string, data interface{}) ProgressEvent {
	return ProgressEvent{Type: EventInfo, Message: msg, Data: data, Timestamp: time.Now()}
}

// IsInputError 判断是否为输入数据或参数问题（对应 HTTP 400）
func IsInputError(err error) bool {
	for _, target := range []error{
		model.ErrDuplicateID,
		model.ErrLabelsUnspecified,
		model.ErrMissingField,
		model.ErrColumnMismatch,
		model.ErrUnknownCutoff,
		model.ErrUnknownFormat,
		model.ErrUnsupportedFormat,
		model.ErrUnknownScheme,
		model.ErrEmptyTable,
		model.ErrDuplicateColumn,
		tableio.ErrUnsupportedFile,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func errorData(err error) map[string]bool {
	return map[string]bool{"inputError": IsInputError(err)}
}

func baseName(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Base(path)
}
