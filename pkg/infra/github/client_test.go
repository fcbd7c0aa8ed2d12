package github_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/releasecheck/pkg/domain/types"
	githubinfra "github.com/m-mizutani/releasecheck/pkg/infra/github"
)

func TestClient_ListReleases_Success(t *testing.T) {
	var gotReq *http.Request
	router := chi.NewRouter()
	router.Get("/api/v3/repos/{owner}/{repo}/releases", func(w http.ResponseWriter, r *http.Request) {
		gotReq = r
		gt.Value(t, chi.URLParam(r, "owner")).Equal("celeo")
		gt.Value(t, chi.URLParam(r, "repo")).Equal("github_release_check")

		w.Header().Set("Link", `<http://example.com/api/v3/repos/celeo/github_release_check/releases?per_page=100&page=2>; rel="last"`)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[{"id":1,"tag_name":"v1.0.0","name":"First","draft":false,"prerelease":true,"published_at":"2021-01-01T00:00:00Z"},{"tag_name":"v0.1.0"}]`))
	})
	server := httptest.NewServer(router)
	defer server.Close()

	client, err := githubinfra.NewClient(
		githubinfra.WithAPIRoot(server.URL+"/api/v3/"),
		githubinfra.WithToken("abcdef"),
	)
	gt.NoError(t, err)

	resp, err := client.ListReleases(context.Background(), "celeo/github_release_check", 1, 100)
	gt.NoError(t, err)

	gt.Value(t, resp.StatusCode).Equal(http.StatusOK)
	gt.True(t, resp.IsSuccess())
	gt.Number(t, len(resp.Releases)).Equal(2)
	gt.Value(t, resp.Releases[0].TagName).Equal("v1.0.0")
	gt.Value(t, resp.Releases[0].Name).Equal("First")
	gt.True(t, resp.Releases[0].Prerelease)
	gt.Value(t, resp.Releases[0].PublishedAt).Equal("2021-01-01T00:00:00Z")
	gt.Value(t, resp.Releases[1].TagName).Equal("v0.1.0")
	gt.String(t, resp.Header.Get("Link")).Contains(`rel="last"`)

	gt.Value(t, gotReq).NotNil()
	gt.Value(t, gotReq.URL.Query().Get("page")).Equal("1")
	gt.Value(t, gotReq.URL.Query().Get("per_page")).Equal("100")
	gt.Value(t, gotReq.Header.Get("Accept")).Equal(types.AcceptHeader)
	gt.Value(t, gotReq.Header.Get("User-Agent")).Equal(types.UserAgent)
	gt.Value(t, gotReq.Header.Get("Authorization")).Equal("Bearer abcdef")
}

func TestClient_ListReleases_Unauthenticated(t *testing.T) {
	var authHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client, err := githubinfra.NewClient(githubinfra.WithAPIRoot(server.URL + "/"))
	gt.NoError(t, err)

	resp, err := client.ListReleases(context.Background(), "owner/repo", 3, 100)
	gt.NoError(t, err)
	gt.Number(t, len(resp.Releases)).Equal(0)
	gt.Value(t, authHeader).Equal("")
}

func TestClient_ListReleases_ErrorStatus(t *testing.T) {
	statuses := []int{
		http.StatusNotFound,
		http.StatusUnauthorized,
		http.StatusForbidden,
		http.StatusInternalServerError,
	}

	for _, status := range statuses {
		t.Run(http.StatusText(status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
				_, _ = w.Write([]byte(`{"message":"nope"}`))
			}))
			defer server.Close()

			client, err := githubinfra.NewClient(githubinfra.WithAPIRoot(server.URL + "/"))
			gt.NoError(t, err)

			resp, err := client.ListReleases(context.Background(), "owner/repo", 1, 100)
			gt.NoError(t, err)
			gt.Value(t, resp.StatusCode).Equal(status)
			gt.False(t, resp.IsSuccess())
			gt.Number(t, len(resp.Releases)).Equal(0)
		})
	}
}

func TestClient_ListReleases_InvalidBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"not":"an array"}`))
	}))
	defer server.Close()

	client, err := githubinfra.NewClient(githubinfra.WithAPIRoot(server.URL + "/"))
	gt.NoError(t, err)

	resp, err := client.ListReleases(context.Background(), "owner/repo", 1, 100)
	gt.Error(t, err)
	gt.Value(t, resp).Nil()
	gt.True(t, errors.Is(err, types.ErrDecodeBody))
}

func TestClient_ListReleases_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	apiRoot := server.URL + "/"
	server.Close()

	client, err := githubinfra.NewClient(githubinfra.WithAPIRoot(apiRoot))
	gt.NoError(t, err)

	_, err = client.ListReleases(context.Background(), "owner/repo", 1, 100)
	gt.Error(t, err)
	gt.True(t, errors.Is(err, types.ErrTransport))
}

func TestClient_ListReleases_Canceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client, err := githubinfra.NewClient(githubinfra.WithAPIRoot(server.URL + "/"))
	gt.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = client.ListReleases(ctx, "owner/repo", 1, 100)
	gt.Error(t, err)
	gt.True(t, errors.Is(err, context.Canceled))
}

func TestNewClient_InvalidToken(t *testing.T) {
	client, err := githubinfra.NewClient(githubinfra.WithToken("abc\ndef"))
	gt.Error(t, err)
	gt.Value(t, client).Nil()
	gt.True(t, errors.Is(err, types.ErrInvalidHeaderValue))
}

func TestNewClient_APIRootWithoutSlash(t *testing.T) {
	client, err := githubinfra.NewClient(githubinfra.WithAPIRoot("https://github.example.com/api/v3"))
	gt.Error(t, err)
	gt.Value(t, client).Nil()
}

func TestClient_ListReleases_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	client, err := githubinfra.NewClient(
		githubinfra.WithAPIRoot(server.URL+"/"),
		githubinfra.WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond}),
	)
	gt.NoError(t, err)

	started := time.Now()
	_, err = client.ListReleases(context.Background(), "owner/repo", 1, 100)
	gt.Error(t, err)
	gt.True(t, errors.Is(err, types.ErrTransport))
	gt.True(t, time.Since(started) < time.Second)
}
