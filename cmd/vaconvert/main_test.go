package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaconvert/internal/rules"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "absent.toml")))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRulesCommand_JSON(t *testing.T) {
	out, err := execute(t, "rules", "--format", "child", "--output", "json")
	require.NoError(t, err)

	var rs rules.RuleSet
	require.NoError(t, json.Unmarshal([]byte(out), &rs))
	assert.Equal(t, "child", string(rs.Format))
	assert.NotEmpty(t, rs.Rules)
}

func TestRulesCommand_Neonate(t *testing.T) {
	_, err := execute(t, "rules", "--format", "neonate", "--output", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "neonate")
}

func TestRemapCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.csv")
	require.NoError(t, os.WriteFile(in, []byte("id,q1\na,Yes\nb,Nope\nc,No\n"), 0644))
	outPath := filepath.Join(dir, "out.csv")

	out, err := execute(t, "remap", "--input", in, "--out", outPath,
		"--yes", "Yes", "--no", "No", "--no", "Nope", "--missing", "", "--data-type", "short", "--record=false")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+outPath)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "id,q1\na,y\nb,n\nc,n\n", strings.ReplaceAll(string(data), "\r\n", "\n"))
}
