package v1

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeExport(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("newid\n1\n"), 0o644))
	return path
}

func TestDownloadStore_TakeIsOneTime(t *testing.T) {
	s := newDownloadStore()
	path := writeExport(t, "train.csv")

	token := s.put(path, "train_converted.csv", time.Minute)
	require.NotEmpty(t, token)

	item, ok := s.take(token)
	require.True(t, ok)
	assert.Equal(t, path, item.filePath)
	assert.Equal(t, "train_converted.csv", item.filename)

	_, ok = s.take(token)
	assert.False(t, ok)

	_, ok = s.take("unknown")
	assert.False(t, ok)
}

func TestDownloadStore_ExpiredEntryRemovesFile(t *testing.T) {
	s := newDownloadStore()
	stale := writeExport(t, "stale.csv")
	fresh := writeExport(t, "fresh.csv")

	staleToken := s.put(stale, "stale.csv", -time.Second)
	freshToken := s.put(fresh, "fresh.csv", time.Minute)
	assert.NotEqual(t, staleToken, freshToken)

	_, err := os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(fresh)
	assert.NoError(t, err)

	_, ok := s.take(staleToken)
	assert.False(t, ok)
	_, ok = s.take(freshToken)
	assert.True(t, ok)
}
