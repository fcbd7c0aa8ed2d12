package interfaces

import (
	"context"

	"github.com/m-mizutani/releasecheck/pkg/domain/model"
)

// ReleaseUseCase defines release lookup operations
type ReleaseUseCase interface {
	// ListReleases returns every release of the repository in the order the API returned them
	ListReleases(ctx context.Context, repository string) ([]*model.Release, error)

	// ListVersions returns the tag names of every release of the repository
	ListVersions(ctx context.Context, repository string) ([]string, error)

	// LatestVersion returns the highest semantic version among the repository releases
	LatestVersion(ctx context.Context, repository string, filter model.ReleaseFilter) (string, error)
}
