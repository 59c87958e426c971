package engine

import (
	"fmt"
	"runtime"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"vaconvert/internal/model"
	"vaconvert/internal/rules"
	"vaconvert/internal/schema"
)

// DefaultCauseColumn PHMRC 数据中的死因标签列
const DefaultCauseColumn = "gs_text34"

// OutputIDHeader 输出表首列表头
const OutputIDHeader = "ID"

// Config 转换配置
type Config struct {
	Format      model.Format
	CutoffMode  model.CutoffMode
	CauseColumn string
	Scheme      model.Scheme
	// Workers 逐列并行的最大协程数，<=0 时取 GOMAXPROCS
	Workers int
	Logger  *zap.Logger
}

// Result 转换结果，Test 在未提供测试集时为 nil
type Result struct {
	Train       *model.Table
	Test        *model.Table
	Diagnostics model.Diagnostics
}

// Convert 将训练集（及可选测试集）转换为三值症状指标表
// 两个分区先拼接再统一定位字段、计算自适应阈值，最后按训练集原始行数拆分
func Convert(train, test *model.Table, cfg Config) (*Result, error) {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.CutoffMode == "" {
		cfg.CutoffMode = model.CutoffDefault
	}
	if !cfg.CutoffMode.Valid() {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownCutoff, cfg.CutoffMode)
	}
	if cfg.Scheme == "" {
		cfg.Scheme = model.SchemeLegacy
	}
	if cfg.CauseColumn == "" {
		cfg.CauseColumn = DefaultCauseColumn
	}

	rs, err := rules.Load(cfg.Format)
	if err != nil {
		return nil, err
	}

	if train == nil || train.Width() == 0 {
		return nil, fmt.Errorf("training table: %w", model.ErrEmptyTable)
	}
	if test != nil && !train.SameHeader(test) {
		return nil, model.ErrColumnMismatch
	}
	combined := model.Concat(train, test)

	sc, err := schema.Locate(combined.Header, rs, cfg.CauseColumn)
	if err != nil {
		return nil, err
	}

	diag := model.Diagnostics{
		Format:     cfg.Format,
		CutoffMode: cfg.CutoffMode,
		TrainRows:  train.Len(),
		TestRows:   test.Len(),
		Thresholds: make(map[string]float64),
	}

	ids, err := recordIDs(combined, sc)
	if err != nil {
		return nil, err
	}
	if sc.SyntheticIDs {
		diag.SyntheticIDs = true
		diag.Notices = append(diag.Notices, fmt.Sprintf("first column is %q; identifiers replaced by row position", schema.RowIndexHeader))
		cfg.Logger.Warn("synthesizing record identifiers from row position",
			zap.String("header", schema.RowIndexHeader))
	}

	labels := combined.Column(sc.Cause)
	cols, thresholds, err := buildColumns(combined, sc, rs, labels, cfg)
	if err != nil {
		return nil, err
	}
	for k, v := range thresholds {
		diag.Thresholds[k] = v
	}

	rec := reconcile(ids, labels, cols, reconcileOptions{
		idHeader:     OutputIDHeader,
		labelHeader:  sc.Name(sc.Cause),
		excluded:     rs.Excluded(),
		forceMissing: rs.ForceMissing,
		scheme:       cfg.Scheme,
	})
	diag.Columns = rec.table.Width() - 2
	diag.Counts = rec.counts
	diag.Unresolved = rec.unresolved
	if rec.forced > 0 {
		diag.Notices = append(diag.Notices, fmt.Sprintf("%d unresolved cells set to missing", rec.forced))
	}

	res := &Result{
		Train:       rec.table.SliceRows(0, train.Len()),
		Diagnostics: diag,
	}
	if test != nil {
		res.Test = rec.table.SliceRows(train.Len(), rec.table.Len())
	}

	cfg.Logger.Info("conversion finished",
		zap.String("format", string(cfg.Format)),
		zap.String("cutoff", string(cfg.CutoffMode)),
		zap.Int("train_rows", res.Train.Len()),
		zap.Int("test_rows", res.Test.Len()),
		zap.Int("columns", diag.Columns),
		zap.Int("yes", diag.Counts.Yes),
		zap.Int("no", diag.Counts.No),
		zap.Int("missing", diag.Counts.Missing),
		zap.Int("unresolved", diag.Counts.Unresolved),
	)
	return res, nil
}

// recordIDs 取记录标识；首列为行号列时用 1 起始的行序号
func recordIDs(t *model.Table, sc *schema.Schema) ([]string, error) {
	if sc.SyntheticIDs {
		ids := make([]string, t.Len())
		for i := range ids {
			ids[i] = strconv.Itoa(i + 1)
		}
		return ids, nil
	}
	if err := t.CheckUniqueIDs(); err != nil {
		return nil, err
	}
	return t.IDs(), nil
}

// buildColumns 逐列并行计算基础转换与派生规则；每个任务只写自己的槽位
func buildColumns(t *model.Table, sc *schema.Schema, rs *rules.RuleSet, labels []string, cfg Config) ([]outputColumn, map[string]float64, error) {
	derivations := rs.Derivations()
	derived := make(map[string]bool, len(derivations))
	for _, r := range derivations {
		derived[r.Column] = true
	}

	// 标识列与死因列即使落在症状区间内也不作为症状输出
	var passIdx []int
	for _, idx := range sc.Symptoms() {
		if idx == 0 || idx == sc.Cause {
			continue
		}
		if !derived[sc.Name(idx)] {
			passIdx = append(passIdx, idx)
		}
	}

	cols := make([]outputColumn, len(passIdx)+len(derivations))
	thresholds := make([]float64, len(derivations))
	isCutoff := make([]bool, len(derivations))

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	var g errgroup.Group
	g.SetLimit(workers)

	for slot, idx := range passIdx {
		g.Go(func() error {
			cols[slot] = outputColumn{
				name: sc.Name(idx),
				base: convertBase(t.Column(idx)),
			}
			return nil
		})
	}

	adaptive := cfg.CutoffMode == model.CutoffAdaptive
	for k, r := range derivations {
		slot := len(passIdx) + k
		g.Go(func() error {
			src, ok := sc.Index(r.Source())
			if !ok {
				return fmt.Errorf("%w: %s (rule %s)", model.ErrMissingField, r.Source(), r.Column)
			}
			values := t.Column(src)
			col := outputColumn{name: r.Column, base: convertBase(values)}

			switch r.Kind {
			case rules.KindCutoff:
				threshold := r.Threshold
				if adaptive && r.Adaptive {
					if adapted, ok := adaptiveThreshold(r, values, labels); ok {
						threshold = adapted
					}
				}
				col.derived = applyCutoff(r, values, threshold)
				thresholds[k] = threshold
				isCutoff[k] = true
			case rules.KindGroup:
				var second []string
				if r.Second != "" {
					idx, ok := sc.Index(r.Second)
					if !ok {
						return fmt.Errorf("%w: %s (rule %s)", model.ErrMissingField, r.Second, r.Column)
					}
					second = t.Column(idx)
				}
				col.derived = applyGroup(r, values, second)
			}
			cols[slot] = col
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	byColumn := make(map[string]float64)
	for k, r := range derivations {
		if isCutoff[k] {
			byColumn[r.Column] = thresholds[k]
		}
	}
	return cols, byColumn, nil
}
