package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaconvert/internal/model"
)

func TestLoad_ImplementedFormats(t *testing.T) {
	for _, f := range []model.Format{model.FormatAdult, model.FormatChild} {
		rs, err := Load(f)
		require.NoError(t, err, "format %s", f)
		assert.Equal(t, f, rs.Format)
		assert.NotEmpty(t, rs.Derivations())
		assert.NotEmpty(t, rs.Excluded())
	}
}

func TestLoad_Neonate(t *testing.T) {
	_, err := Load(model.FormatNeonate)
	assert.ErrorIs(t, err, model.ErrUnsupportedFormat)

	_, err = Load("elderly")
	assert.ErrorIs(t, err, model.ErrUnknownFormat)
}

func TestLoad_ReturnsIndependentCopies(t *testing.T) {
	a, err := Load(model.FormatAdult)
	require.NoError(t, err)
	a.Rules[0].Yes = append(a.Rules[0].Yes, "mutated")
	a.Rules = a.Rules[:1]

	b, err := Load(model.FormatAdult)
	require.NoError(t, err)
	assert.Greater(t, len(b.Rules), 1)
	assert.NotContains(t, b.Rules[0].Yes, "mutated")
}

func TestCatalogInvariants(t *testing.T) {
	for _, f := range []model.Format{model.FormatAdult, model.FormatChild} {
		rs, err := Load(f)
		require.NoError(t, err)

		excluded := rs.Excluded()
		for _, r := range rs.Rules {
			if r.Derives() {
				assert.False(t, excluded[r.Column], "%s: derived column %s is also excluded", f, r.Column)
			}
			if r.Adaptive {
				assert.Equal(t, KindCutoff, r.Kind, "%s: adaptive flag on non-cutoff rule %s", f, r.Column)
			}
			if r.Second != "" {
				assert.True(t, excluded[r.Second], "%s: second field %s of %s should be excluded", f, r.Second, r.Column)
			}
		}
	}
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]string{
		"unknown kind": `
format: adult
fields: {age: a, sex: s, first: f, last: l}
rules:
  - column: x
    kind: bogus
`,
		"duplicate column": `
format: adult
fields: {age: a, sex: s, first: f, last: l}
rules:
  - {column: x, kind: pass}
  - {column: x, kind: exclude}
`,
		"overlapping sets": `
format: adult
fields: {age: a, sex: s, first: f, last: l}
rules:
  - column: x
    kind: group
    yes: ["A"]
    no: ["A"]
`,
		"unknown key": `
format: adult
fields: {age: a, sex: s, first: f, last: l}
rules:
  - {column: x, kind: pass, treshold: 3}
`,
		"missing fields": `
format: adult
rules: []
`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestSourceFields(t *testing.T) {
	rs := &RuleSet{Rules: []Rule{
		{Column: "b_face", Kind: KindGroup, Field: "b", Second: "c", Yes: []string{"Face"}},
		{Column: "a", Kind: KindCutoff, Threshold: 1},
		{Column: "z", Kind: KindExclude},
		{Column: "y", Kind: KindPass},
	}}
	assert.Equal(t, []string{"a", "b", "c"}, rs.SourceFields())
}
