package remap

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaconvert/internal/model"
)

func exampleLabels() Labels {
	return Labels{Yes: []string{"Yes"}, No: []string{"No"}, Missing: []string{"Don't know"}}
}

func TestRemap_LegacyExample(t *testing.T) {
	in := model.NewTable([]string{"ID", "q1"}, [][]string{{"d1", "Don't know"}, {"d2", "No"}})

	res, err := Remap(in, exampleLabels(), model.SchemeLegacy)
	require.NoError(t, err)
	assert.Equal(t, []string{".", ""}, res.Table.Column(1))
	assert.Empty(t, res.Unrecognized)
	assert.Equal(t, "Don't know", in.Rows[0][1], "input must not be modified")
}

func TestRemap_ShortScheme(t *testing.T) {
	in := model.NewTable([]string{"ID", "q1"}, [][]string{{"d1", "Yes"}, {"d2", "No"}, {"d3", "Don't know"}})

	res, err := Remap(in, exampleLabels(), model.SchemeShort)
	require.NoError(t, err)
	assert.Equal(t, []string{"y", "n", "-"}, res.Table.Column(1))
}

func TestRemap_UnrecognizedColumnLeftAlone(t *testing.T) {
	in := model.NewTable(
		[]string{"ID", "q1", "q2"},
		[][]string{{"d1", "Yes", "Maybe"}, {"d2", "No", "Yes"}},
	)

	res, err := Remap(in, exampleLabels(), model.SchemeLegacy)
	require.NoError(t, err)
	assert.Equal(t, []string{"q2"}, res.Unrecognized)
	assert.Equal(t, []string{"Maybe", "Yes"}, res.Table.Column(2))
	assert.Equal(t, []string{"Y", ""}, res.Table.Column(1))
}

func TestRemap_IdempotentOnCanonicalTokens(t *testing.T) {
	in := model.NewTable(
		[]string{"ID", "q1", "q2"},
		[][]string{{"d1", "Yes", "Don't know"}, {"d2", "No", "Yes"}},
	)

	first, err := Remap(in, exampleLabels(), model.SchemeLegacy)
	require.NoError(t, err)
	second, err := Remap(first.Table, exampleLabels(), model.SchemeLegacy)
	require.NoError(t, err)

	if diff := cmp.Diff(first.Table.Rows, second.Table.Rows); diff != "" {
		t.Fatalf("second pass changed values (-first +second):\n%s", diff)
	}
	assert.Equal(t, []string{"q1", "q2"}, second.Unrecognized)
}

func TestRemap_Errors(t *testing.T) {
	dup := model.NewTable([]string{"ID"}, [][]string{{"d1"}, {"d1"}})
	_, err := Remap(dup, exampleLabels(), model.SchemeLegacy)
	assert.ErrorIs(t, err, model.ErrDuplicateID)

	ok := model.NewTable([]string{"ID", "q"}, [][]string{{"d1", "Yes"}})
	for name, labels := range map[string]Labels{
		"no yes":     {No: []string{"No"}, Missing: []string{""}},
		"no no":      {Yes: []string{"Yes"}, Missing: []string{""}},
		"no missing": {Yes: []string{"Yes"}, No: []string{"No"}},
	} {
		_, err := Remap(ok, labels, model.SchemeLegacy)
		assert.ErrorIs(t, err, model.ErrLabelsUnspecified, name)
	}

	_, err = Remap(ok, exampleLabels(), "morse")
	assert.ErrorIs(t, err, model.ErrUnknownScheme)
}
