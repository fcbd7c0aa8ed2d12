package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/releasecheck/pkg/domain/model"
	"github.com/m-mizutani/releasecheck/pkg/domain/types"
	githubinfra "github.com/m-mizutani/releasecheck/pkg/infra/github"
	"github.com/m-mizutani/releasecheck/pkg/usecase"
)

// fakeGitHub serves the releases endpoint from a fixed list of tags, split
// into pages the way GitHub does, with a Link header when there is more than
// one page.
type fakeGitHub struct {
	mu    sync.Mutex
	tags  map[string][]string
	pages []int
}

func (f *fakeGitHub) requestedPages() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.pages...)
}

func (f *fakeGitHub) handler() http.Handler {
	router := chi.NewRouter()
	router.Get("/repos/{owner}/{repo}/releases", func(w http.ResponseWriter, r *http.Request) {
		tags, ok := f.tags[chi.URLParam(r, "owner")+"/"+chi.URLParam(r, "repo")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Not Found"}`))
			return
		}

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

		f.mu.Lock()
		f.pages = append(f.pages, page)
		f.mu.Unlock()

		last := (len(tags) + perPage - 1) / perPage
		if last > 1 {
			base := "http://" + r.Host + r.URL.Path
			w.Header().Set("Link", fmt.Sprintf(`<%s?per_page=%d&page=%d>; rel="next", <%s?per_page=%d&page=%d>; rel="last"`,
				base, perPage, page+1, base, perPage, last))
		}

		start := (page - 1) * perPage
		end := min(start+perPage, len(tags))
		releases := []model.Release{}
		for i := start; i < end; i++ {
			releases = append(releases, model.Release{ID: int64(i), TagName: tags[i]})
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(releases)
	})
	return router
}

func TestReleaseUseCase_WithFakeGitHub(t *testing.T) {
	var tags []string
	for i := 0; i < 250; i++ {
		tags = append(tags, fmt.Sprintf("v1.%d.0", i))
	}
	tags = append(tags, "not-a-version")

	fake := &fakeGitHub{tags: map[string][]string{
		"owner/many":  tags,
		"owner/empty": {},
	}}
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	client, err := githubinfra.NewClient(githubinfra.WithAPIRoot(server.URL + "/"))
	gt.NoError(t, err)
	uc := usecase.NewRelease(client)
	ctx := context.Background()

	t.Run("walks all three pages", func(t *testing.T) {
		versions, err := uc.ListVersions(ctx, "owner/many")
		gt.NoError(t, err)
		gt.Value(t, versions).Equal(tags)
		gt.Value(t, fake.requestedPages()).Equal([]int{1, 2, 3})
	})

	t.Run("latest version across pages", func(t *testing.T) {
		latest, err := uc.LatestVersion(ctx, "owner/many", model.ReleaseFilter{})
		gt.NoError(t, err)
		gt.Value(t, latest).Equal("1.249.0")
	})

	t.Run("empty repository", func(t *testing.T) {
		versions, err := uc.ListVersions(ctx, "owner/empty")
		gt.NoError(t, err)
		gt.Number(t, len(versions)).Equal(0)

		_, err = uc.LatestVersion(ctx, "owner/empty", model.ReleaseFilter{})
		gt.True(t, errors.Is(err, types.ErrNoReleases))
	})

	t.Run("unknown repository", func(t *testing.T) {
		_, err := uc.ListReleases(ctx, "owner/missing")
		gt.True(t, errors.Is(err, types.ErrRepositoryNotFound))
	})
}
