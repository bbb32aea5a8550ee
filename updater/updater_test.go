package updater

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewer(t *testing.T) {
	tests := []struct {
		latest, current string
		want            bool
	}{
		{"1.2.0", "1.1.9", true},
		{"v1.2.0", "1.2.0", false},
		{"1.10.0", "1.9.0", true},
		{"1.0.0", "1.0.0-rc1", true},
		{"0.9.0", "1.0.0", false},
	}
	for _, tt := range tests {
		t.Run(tt.latest+"_vs_"+tt.current, func(t *testing.T) {
			got, err := Newer(tt.latest, tt.current)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Newer("latest", "1.0.0")
	assert.ErrorIs(t, err, ErrBadVersion)
	_, err = Newer("1.0.0", "")
	assert.ErrorIs(t, err, ErrBadVersion)
}

func serve(t *testing.T, rel Release, gotPath *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(rel)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheckFindsUpdate(t *testing.T) {
	var path string
	srv := serve(t, Release{LatestVersion: "2.0.0", DownloadPath: "https://example.com/w.tar.gz"}, &path)

	c := New(srv.URL+"/", "1.0.0", nil)
	c.GOOS, c.GOARCH = "linux", "amd64"

	rel, ok, err := c.Check(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/w.tar.gz", rel.DownloadPath)
	assert.Equal(t, "/linux/1.0.0/amd64", path)
}

func TestCheckUpToDate(t *testing.T) {
	var path string
	srv := serve(t, Release{LatestVersion: "1.0.0"}, &path)

	_, ok, err := New(srv.URL, "1.0.0", nil).Check(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckSkipsDevBuilds(t *testing.T) {
	var path string
	srv := serve(t, Release{LatestVersion: "9.9.9"}, &path)

	_, ok, err := New(srv.URL, DevVersion, nil).Check(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, path)
}

func TestCheckServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, ok, err := New(srv.URL, "1.0.0", nil).Check(context.Background())
	assert.Error(t, err)
	assert.False(t, ok)
}
