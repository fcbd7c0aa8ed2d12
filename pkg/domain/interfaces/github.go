package interfaces

import (
	"context"

	"github.com/m-mizutani/releasecheck/pkg/domain/model"
)

// GitHubClient defines operations for interacting with GitHub API
type GitHubClient interface {
	// ListReleases requests one page of the releases of repository ("owner/repo").
	// A non-success status is reported through the response, not as an error.
	ListReleases(ctx context.Context, repository string, page, perPage int) (*model.ReleasesResponse, error)
}
