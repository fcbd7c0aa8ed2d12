package config

import (
	"net/http"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/releasecheck/pkg/domain/interfaces"
	"github.com/m-mizutani/releasecheck/pkg/domain/types"
	githubinfra "github.com/m-mizutani/releasecheck/pkg/infra/github"
	"github.com/urfave/cli/v3"
)

// GitHub holds GitHub API configuration
type GitHub struct {
	APIRoot string
	Token   string `masq:"secret"`
	Timeout time.Duration
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-api-root",
			Usage:       "GitHub REST API root, must end with a slash (e.g. https://github.example.com/api/v3/)",
			Value:       types.DefaultAPIRoot,
			Destination: &c.APIRoot,
			Sources:     cli.EnvVars("RELEASECHECK_GITHUB_API_ROOT"),
		},
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub access token, required for private repositories",
			Destination: &c.Token,
			Sources:     cli.EnvVars("RELEASECHECK_GITHUB_TOKEN", "GITHUB_TOKEN"),
		},
		&cli.DurationFlag{
			Name:        "github-timeout",
			Usage:       "Timeout of each GitHub API request, 0 disables it",
			Value:       30 * time.Second,
			Destination: &c.Timeout,
			Sources:     cli.EnvVars("RELEASECHECK_GITHUB_TIMEOUT"),
		},
	}
}

// NewClient builds a GitHub client from the configuration
func (c *GitHub) NewClient() (interfaces.GitHubClient, error) {
	if !strings.HasSuffix(c.APIRoot, "/") {
		return nil, goerr.New("GitHub API root must end with a slash", goerr.V("api_root", c.APIRoot))
	}

	opts := []githubinfra.Option{
		githubinfra.WithAPIRoot(c.APIRoot),
		githubinfra.WithHTTPClient(&http.Client{Timeout: c.Timeout}),
	}
	if c.Token != "" {
		opts = append(opts, githubinfra.WithToken(c.Token))
	}

	client, err := githubinfra.NewClient(opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub client", goerr.V("api_root", c.APIRoot))
	}
	return client, nil
}
