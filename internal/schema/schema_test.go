package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaconvert/internal/model"
	"vaconvert/internal/rules"
)

func testRuleSet() *rules.RuleSet {
	return &rules.RuleSet{
		Format: model.FormatAdult,
		Fields: rules.Fields{Age: "age", Sex: "sex", First: "s1", Last: "s4"},
		Rules: []rules.Rule{
			{Column: "s2_face", Kind: rules.KindGroup, Field: "s2", Second: "s3", Yes: []string{"Face"}},
		},
	}
}

func TestLocate(t *testing.T) {
	header := []string{"id", "cause", " sex ", "age", "s1", "s2", "s3", "s4", "free_text"}
	sc, err := Locate(header, testRuleSet(), "cause")
	require.NoError(t, err)

	assert.False(t, sc.SyntheticIDs)
	assert.Equal(t, 1, sc.Cause)
	assert.Equal(t, 2, sc.Sex)
	assert.Equal(t, 3, sc.Age)
	assert.Equal(t, []int{4, 5, 6, 7}, sc.Symptoms())
	assert.Equal(t, "sex", sc.Name(2))

	idx, ok := sc.Index("s3")
	assert.True(t, ok)
	assert.Equal(t, 6, idx)
}

func TestLocate_ReportsAllMissing(t *testing.T) {
	header := []string{"id", "cause", "sex", "s1", "s4"}
	_, err := Locate(header, testRuleSet(), "cause")
	require.ErrorIs(t, err, model.ErrMissingField)
	for _, name := range []string{"age", "s2", "s3"} {
		assert.Contains(t, err.Error(), name)
	}
}

func TestLocate_CauseColumn(t *testing.T) {
	header := []string{"id", "sex", "age", "s1", "s2", "s3", "s4"}
	_, err := Locate(header, testRuleSet(), "cause")
	require.ErrorIs(t, err, model.ErrMissingField)
	assert.Contains(t, err.Error(), "cause")
}

func TestLocate_ReversedRange(t *testing.T) {
	header := []string{"id", "cause", "sex", "age", "s4", "s2", "s3", "s1"}
	_, err := Locate(header, testRuleSet(), "cause")
	assert.ErrorIs(t, err, model.ErrMissingField)
}

func TestLocate_RowIndexHeader(t *testing.T) {
	header := []string{"X", "cause", "sex", "age", "s1", "s2", "s3", "s4"}
	sc, err := Locate(header, testRuleSet(), "cause")
	require.NoError(t, err)
	assert.True(t, sc.SyntheticIDs)
}

func TestLocate_EmptyFirstHeaderIsRowIndex(t *testing.T) {
	header := []string{"", "cause", "sex", "age", "s1", "s2", "s3", "s4"}
	sc, err := Locate(header, testRuleSet(), "cause")
	require.NoError(t, err)
	assert.True(t, sc.SyntheticIDs)
}

func TestLocate_DuplicateColumn(t *testing.T) {
	header := []string{"id", "cause", "sex", "age", "s1", "s2", "s3", " s2", "s4"}
	_, err := Locate(header, testRuleSet(), "cause")
	require.ErrorIs(t, err, model.ErrDuplicateColumn)
	assert.Contains(t, err.Error(), `"s2" (columns 6 and 8)`)
}

func TestLocate_CauseInsideRange(t *testing.T) {
	header := []string{"id", "sex", "age", "s1", "s2", "cause", "s3", "s4"}
	sc, err := Locate(header, testRuleSet(), "cause")
	require.NoError(t, err)
	assert.Equal(t, 5, sc.Cause)
	assert.Contains(t, sc.Symptoms(), sc.Cause)
}
