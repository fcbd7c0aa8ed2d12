package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/releasecheck/pkg/domain/interfaces"
	"github.com/m-mizutani/releasecheck/pkg/domain/model"
	"github.com/m-mizutani/releasecheck/pkg/domain/types"
	"golang.org/x/net/http/httpguts"
)

type client struct {
	githubClient *github.Client
}

type config struct {
	httpClient *http.Client
	apiRoot    string
	token      string
}

// Option is a functional option for Client configuration
type Option func(*config)

// WithAPIRoot sets the REST API root. It is used as a literal prefix of
// request URLs and therefore must end with a slash.
func WithAPIRoot(apiRoot string) Option {
	return func(c *config) {
		c.apiRoot = apiRoot
	}
}

// WithToken sets the access token sent as a bearer token. Without a token
// only public repositories can be read.
func WithToken(token string) Option {
	return func(c *config) {
		c.token = token
	}
}

// WithHTTPClient replaces the underlying HTTP client (transport, TLS, timeout)
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *config) {
		c.httpClient = httpClient
	}
}

// NewClient creates a new GitHub REST API client
func NewClient(opts ...Option) (interfaces.GitHubClient, error) {
	cfg := &config{
		httpClient: http.DefaultClient,
		apiRoot:    types.DefaultAPIRoot,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if err := validateHeaders(cfg.token); err != nil {
		return nil, err
	}

	baseURL, err := url.Parse(cfg.apiRoot)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid GitHub API root", goerr.V("api_root", cfg.apiRoot))
	}
	if !strings.HasSuffix(baseURL.Path, "/") {
		return nil, goerr.New("GitHub API root must end with a slash", goerr.V("api_root", cfg.apiRoot))
	}

	githubClient := github.NewClient(cfg.httpClient)
	if cfg.token != "" {
		githubClient = githubClient.WithAuthToken(cfg.token)
	}
	githubClient.BaseURL = baseURL
	githubClient.UserAgent = types.UserAgent

	return &client{
		githubClient: githubClient,
	}, nil
}

// validateHeaders checks that every value sent with a request can be encoded
// as an HTTP header field.
func validateHeaders(token string) error {
	headers := http.Header{}
	headers.Set("User-Agent", types.UserAgent)
	headers.Set("Accept", types.AcceptHeader)
	if token != "" {
		headers.Set("Authorization", "Bearer "+token)
	}

	for key, values := range headers {
		for _, v := range values {
			if !httpguts.ValidHeaderFieldValue(v) {
				// The value itself is not included because it may be a credential.
				return goerr.Wrap(types.ErrInvalidHeaderValue, "header value can not be encoded",
					goerr.V("header", key))
			}
		}
	}

	return nil
}

// ListReleases requests one page of releases. Error statuses are returned as
// a response so that the caller can classify them.
func (c *client) ListReleases(ctx context.Context, repository string, page, perPage int) (*model.ReleasesResponse, error) {
	query := url.Values{}
	query.Set("per_page", strconv.Itoa(perPage))
	query.Set("page", strconv.Itoa(page))
	endpoint := "repos/" + repository + "/releases?" + query.Encode()

	req, err := c.githubClient.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, goerr.Wrap(fmt.Errorf("%w: %w", types.ErrTransport, err), "failed to build request",
			goerr.V("endpoint", endpoint))
	}
	req.Header.Set("Accept", types.AcceptHeader)

	var releases []*model.Release
	resp, err := c.githubClient.Do(ctx, req, &releases)
	if err != nil {
		if resp == nil || ctx.Err() != nil {
			return nil, goerr.Wrap(fmt.Errorf("%w: %w", types.ErrTransport, err), "failed to send request",
				goerr.V("endpoint", endpoint), goerr.V("page", page))
		}

		result := &model.ReleasesResponse{
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
		}
		if !result.IsSuccess() {
			return result, nil
		}

		var accepted *github.AcceptedError
		if errors.As(err, &accepted) {
			return result, nil
		}

		return nil, goerr.Wrap(fmt.Errorf("%w: %w", types.ErrDecodeBody, err), "failed to decode releases",
			goerr.V("endpoint", endpoint), goerr.V("page", page))
	}

	return &model.ReleasesResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Releases:   releases,
	}, nil
}
