package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, info, err := LoadConfigWithInfo(filepath.Join(t.TempDir(), "none.toml"))
	require.NoError(t, err)
	assert.False(t, info.FromFile)
	assert.Equal(t, DefaultConfig().Convert, cfg.Convert)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	doc := `
[server]
port = 8088

[convert]
format = "child"
cutoff_mode = "adaptive"

[remap]
missing = ["Don't know", "DK"]
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))
	t.Setenv("VACONVERT_CAUSE_COLUMN", "gs_text46")

	cfg, info, err := LoadConfigWithInfo(path)
	require.NoError(t, err)
	assert.True(t, info.FromFile)
	assert.True(t, info.PortSpecified)
	assert.Equal(t, 8088, cfg.Server.Port)
	assert.Equal(t, "child", cfg.Convert.Format)
	assert.Equal(t, "adaptive", cfg.Convert.CutoffMode)
	assert.Equal(t, "gs_text46", cfg.Convert.CauseColumn)
	assert.Equal(t, []string{"Don't know", "DK"}, cfg.Remap.Missing)
	// 未出现的键保留默认值
	assert.Equal(t, "legacy", cfg.Convert.Scheme)
	assert.Equal(t, []string{"Yes"}, cfg.Remap.Yes)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	cfg := DefaultConfig()
	cfg.Data.DataDir = "/var/lib/vaconvert"
	require.NoError(t, SaveConfig(cfg, path))

	got, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/vaconvert", got.Data.DataDir)
	assert.Equal(t, "/var/lib/vaconvert", ResolveDataDir(got))
}

func TestEnsureDataDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Data.DataDir = t.TempDir()

	dir, err := EnsureDataDir(cfg)
	require.NoError(t, err)
	for _, sub := range []string{"uploads", "exports"} {
		st, err := os.Stat(filepath.Join(dir, sub))
		require.NoError(t, err)
		assert.True(t, st.IsDir())
	}
}
