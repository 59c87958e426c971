package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"vaconvert/internal/model"
)

// ErrRunNotFound 转换记录不存在
var ErrRunNotFound = errors.New("run not found")

// 运行状态
const (
	StatusProcessing = "processing"
	StatusDone       = "done"
	StatusFailed     = "failed"
)

// 运行类型
const (
	KindConvert = "convert"
	KindRemap   = "remap"
)

// Run 一次转换或重编码的记录
type Run struct {
	ID           string             `json:"id"`
	Kind         string             `json:"kind"`
	Format       string             `json:"format,omitempty"`
	CutoffMode   string             `json:"cutoffMode,omitempty"`
	Scheme       string             `json:"scheme"`
	InputName    string             `json:"inputName"`
	TestName     string             `json:"testName,omitempty"`
	TrainRows    int                `json:"trainRows"`
	TestRows     int                `json:"testRows"`
	Columns      int                `json:"columns"`
	Counts       model.Counts       `json:"counts"`
	Unrecognized []string           `json:"unrecognized,omitempty"`
	Thresholds   map[string]float64 `json:"thresholds,omitempty"`
	Status       string             `json:"status"`
	ErrorMessage string             `json:"errorMessage,omitempty"`
	CreatedAt    time.Time          `json:"createdAt"`
	CompletedAt  *time.Time         `json:"completedAt,omitempty"`
}

// CreateRun 创建运行记录，状态为 processing
func (s *Store) CreateRun(run *Run) error {
	_, err := s.db.Exec(`
		INSERT INTO conversion_runs (id, kind, format, cutoff_mode, scheme, input_name, test_name, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Kind, run.Format, run.CutoffMode, run.Scheme, run.InputName, run.TestName, StatusProcessing)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	run.Status = StatusProcessing
	return nil
}

// CompleteRun 写入转换诊断并标记完成
func (s *Store) CompleteRun(id string, diag model.Diagnostics) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE conversion_runs SET
			train_rows = ?,
			test_rows = ?,
			columns = ?,
			yes_cells = ?,
			no_cells = ?,
			missing_cells = ?,
			unresolved = ?,
			status = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, diag.TrainRows, diag.TestRows, diag.Columns,
		diag.Counts.Yes, diag.Counts.No, diag.Counts.Missing, diag.Counts.Unresolved,
		StatusDone, id)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}

	if len(diag.Thresholds) > 0 {
		stmt, err := tx.Prepare(`INSERT OR REPLACE INTO run_thresholds (run_id, column, threshold) VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for column, threshold := range diag.Thresholds {
			if _, err := stmt.Exec(id, column, threshold); err != nil {
				return fmt.Errorf("failed to insert threshold %s: %w", column, err)
			}
		}
	}

	return tx.Commit()
}

// CompleteRemap 写入重编码结果并标记完成
func (s *Store) CompleteRemap(id string, rows, columns int, unrecognized []string) error {
	res, err := s.db.Exec(`
		UPDATE conversion_runs SET
			train_rows = ?,
			columns = ?,
			unrecognized = ?,
			status = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, rows, columns, strings.Join(unrecognized, "\n"), StatusDone, id)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}

// FailRun 标记失败
func (s *Store) FailRun(id, message string) error {
	_, err := s.db.Exec(`
		UPDATE conversion_runs SET status = ?, error_message = ?, completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, StatusFailed, message, id)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

const runColumns = `id, kind, format, cutoff_mode, scheme, input_name, test_name,
	train_rows, test_rows, columns, yes_cells, no_cells, missing_cells, unresolved,
	unrecognized, status, error_message, created_at, completed_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(sc rowScanner) (*Run, error) {
	var (
		r            Run
		unrecognized string
		completedAt  sql.NullTime
	)
	err := sc.Scan(&r.ID, &r.Kind, &r.Format, &r.CutoffMode, &r.Scheme, &r.InputName, &r.TestName,
		&r.TrainRows, &r.TestRows, &r.Columns,
		&r.Counts.Yes, &r.Counts.No, &r.Counts.Missing, &r.Counts.Unresolved,
		&unrecognized, &r.Status, &r.ErrorMessage, &r.CreatedAt, &completedAt)
	if err != nil {
		return nil, err
	}
	if unrecognized != "" {
		r.Unrecognized = strings.Split(unrecognized, "\n")
	}
	if completedAt.Valid {
		t := completedAt.Time
		r.CompletedAt = &t
	}
	return &r, nil
}

// GetRun 按 ID 查询，含阈值明细
func (s *Store) GetRun(id string) (*Run, error) {
	run, err := scanRun(s.db.QueryRow(`SELECT `+runColumns+` FROM conversion_runs WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
		}
		return nil, fmt.Errorf("failed to query run: %w", err)
	}

	rows, err := s.db.Query(`SELECT column, threshold FROM run_thresholds WHERE run_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query thresholds: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			column    string
			threshold float64
		)
		if err := rows.Scan(&column, &threshold); err != nil {
			return nil, err
		}
		if run.Thresholds == nil {
			run.Thresholds = make(map[string]float64)
		}
		run.Thresholds[column] = threshold
	}
	return run, rows.Err()
}

// ListRuns 最近的运行记录，按创建时间倒序
func (s *Store) ListRuns(limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`SELECT `+runColumns+` FROM conversion_runs ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var out []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

// CountRuns 按状态统计
func (s *Store) CountRuns() (map[string]int, error) {
	rows, err := s.db.Query(`SELECT status, COUNT(*) FROM conversion_runs GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count runs: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[status] = n
	}
	return out, rows.Err()
}
