package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaconvert/internal/model"
)

func TestLocate(t *testing.T) {
	for _, f := range []model.Format{model.FormatAdult, model.FormatChild, model.FormatNeonate} {
		u, err := Locate(f)
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(u, ".csv"), u)
		assert.Contains(t, u, strings.ToUpper(string(f)))
	}
	_, err := Locate("elderly")
	assert.ErrorIs(t, err, model.ErrUnknownFormat)
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/adult.csv" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("newid,gs_text34\n1,Stroke\n"))
	}))
	defer srv.Close()

	dst := filepath.Join(t.TempDir(), "raw", "adult.csv")
	f := NewFetcher(5 * time.Second)

	n, err := f.Fetch(context.Background(), srv.URL+"/adult.csv", dst)
	require.NoError(t, err)
	assert.EqualValues(t, 25, n)
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "newid,gs_text34\n1,Stroke\n", string(data))

	_, err = f.Fetch(context.Background(), srv.URL+"/child.csv", filepath.Join(t.TempDir(), "child.csv"))
	assert.Error(t, err)
}
