package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaconvert/internal/model"
)

func TestNew_ForeignKeysEnforced(t *testing.T) {
	st := newTestStore(t)

	var fk int
	require.NoError(t, st.db.QueryRow("PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)

	_, err := st.db.Exec(`INSERT INTO run_thresholds (run_id, column, threshold) VALUES (?, ?, ?)`, "ghost", "a2_01", 0.5)
	assert.Error(t, err)
}

func TestRunThresholds_CascadeOnDelete(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.CreateRun(&Run{ID: "r1", Kind: KindConvert, Format: "adult"}))
	require.NoError(t, st.CompleteRun("r1", model.Diagnostics{
		Thresholds: map[string]float64{"a2_01": 12, "a2_03": 30},
	}))

	var n int
	require.NoError(t, st.db.QueryRow(`SELECT COUNT(*) FROM run_thresholds WHERE run_id = ?`, "r1").Scan(&n))
	require.Equal(t, 2, n)

	_, err := st.db.Exec(`DELETE FROM conversion_runs WHERE id = ?`, "r1")
	require.NoError(t, err)
	require.NoError(t, st.db.QueryRow(`SELECT COUNT(*) FROM run_thresholds WHERE run_id = ?`, "r1").Scan(&n))
	assert.Equal(t, 0, n)
}
