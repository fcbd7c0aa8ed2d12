package config_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/releasecheck/pkg/cli/config"
	"github.com/m-mizutani/releasecheck/pkg/domain/types"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "repos.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadWatchList(t *testing.T) {
	path := writeFile(t, `
[[repository]]
name = "celeo/github_release_check"
current = "v0.1.0"

[[repository]]
name = "m-mizutani/goerr"
exclude_prereleases = true
exclude_drafts = true
`)

	list, err := config.LoadWatchList(path)
	gt.NoError(t, err)
	gt.Number(t, len(list.Repositories)).Equal(2)

	gt.Value(t, list.Repositories[0]).Equal(config.WatchedRepository{
		Name:    "celeo/github_release_check",
		Current: "v0.1.0",
	})
	gt.Value(t, list.Repositories[1]).Equal(config.WatchedRepository{
		Name:               "m-mizutani/goerr",
		ExcludeDrafts:      true,
		ExcludePrereleases: true,
	})
}

func TestLoadWatchList_Error(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := config.LoadWatchList(filepath.Join(t.TempDir(), "nope.toml"))
		gt.Error(t, err)
	})

	t.Run("invalid TOML", func(t *testing.T) {
		_, err := config.LoadWatchList(writeFile(t, "[[repository]\nname ="))
		gt.Error(t, err)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := config.LoadWatchList(writeFile(t, "[[repository]]\ncurrent = \"v1.0.0\"\n"))
		gt.Error(t, err)
	})
}

func TestGitHub_NewClient(t *testing.T) {
	t.Run("api root without trailing slash", func(t *testing.T) {
		cfg := config.GitHub{APIRoot: "https://github.example.com/api/v3"}
		_, err := cfg.NewClient()
		gt.Error(t, err)
	})

	t.Run("valid configuration", func(t *testing.T) {
		cfg := config.GitHub{APIRoot: "https://github.example.com/api/v3/", Token: "abc"}
		client, err := cfg.NewClient()
		gt.NoError(t, err)
		gt.Value(t, client).NotNil()
	})

	t.Run("stalled upstream hits the timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer server.Close()

		cfg := config.GitHub{APIRoot: server.URL + "/", Timeout: 50 * time.Millisecond}
		client, err := cfg.NewClient()
		gt.NoError(t, err)

		started := time.Now()
		_, err = client.ListReleases(context.Background(), "owner/repo", 1, 100)
		gt.Error(t, err)
		gt.True(t, errors.Is(err, types.ErrTransport))
		gt.True(t, time.Since(started) < time.Second)
	})

	t.Run("flags include timeout", func(t *testing.T) {
		var cfg config.GitHub
		names := map[string]bool{}
		for _, flag := range cfg.Flags() {
			if f, ok := flag.(interface{ Names() []string }); ok {
				names[f.Names()[0]] = true
			}
		}
		gt.True(t, names["github-timeout"])
	})
}
