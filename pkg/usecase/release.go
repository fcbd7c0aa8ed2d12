package usecase

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/releasecheck/pkg/domain/interfaces"
	"github.com/m-mizutani/releasecheck/pkg/domain/model"
	"github.com/m-mizutani/releasecheck/pkg/domain/types"
	"github.com/m-mizutani/releasecheck/pkg/utils/pagination"
)

type releaseUseCase struct {
	githubClient interfaces.GitHubClient
}

// NewRelease creates a new instance of ReleaseUseCase
func NewRelease(githubClient interfaces.GitHubClient) interfaces.ReleaseUseCase {
	return &releaseUseCase{
		githubClient: githubClient,
	}
}

// ListReleases walks every page of the releases endpoint and returns the
// releases in request order.
//
// The last page number is taken from the Link header of the first response
// only. A first response without Link header is treated as the only page.
func (uc *releaseUseCase) ListReleases(ctx context.Context, repository string) ([]*model.Release, error) {
	logger := ctxlog.From(ctx).With("lookup_id", uuid.NewString(), "repository", repository)
	ctx = ctxlog.With(ctx, logger)

	var (
		releases []*model.Release
		lastPage int
		probed   bool
		known    bool
	)

	for page := 1; ; page++ {
		logger.Debug("Querying releases",
			"page", page,
			"per_page", types.ReleasesPerPage,
			"last_page", lastPageAttr(lastPage, known),
		)

		resp, err := uc.githubClient.ListReleases(ctx, repository, page, types.ReleasesPerPage)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list releases",
				goerr.V("repository", repository), goerr.V("page", page))
		}

		if !resp.IsSuccess() {
			logger.Debug("Got error status from releases endpoint", "status", resp.StatusCode, "page", page)
			return nil, statusError(resp.StatusCode, repository, page)
		}

		releases = append(releases, resp.Releases...)

		if !probed {
			probed = true
			lastPage, known, err = pagination.LastPage(resp.Header)
			if err != nil {
				return nil, goerr.Wrap(err, "failed to read pagination header",
					goerr.V("repository", repository))
			}
		}

		if !known {
			logger.Debug("No pagination header found, assuming a single page")
			break
		}

		logger.Debug("Completed page", "page", page, "last_page", lastPage)
		if page >= lastPage {
			break
		}
	}

	logger.Debug("Listed releases", "count", len(releases))
	return releases, nil
}

// ListVersions returns tag names of all releases in the order received
func (uc *releaseUseCase) ListVersions(ctx context.Context, repository string) ([]string, error) {
	releases, err := uc.ListReleases(ctx, repository)
	if err != nil {
		return nil, err
	}

	versions := make([]string, 0, len(releases))
	for _, release := range releases {
		versions = append(versions, release.TagName)
	}
	return versions, nil
}

// LatestVersion returns the highest semantic version of the repository
func (uc *releaseUseCase) LatestVersion(ctx context.Context, repository string, filter model.ReleaseFilter) (string, error) {
	releases, err := uc.ListReleases(ctx, repository)
	if err != nil {
		return "", err
	}

	latest, err := ResolveLatest(releases, filter)
	if err != nil {
		return "", goerr.Wrap(err, "failed to resolve latest version",
			goerr.V("repository", repository), goerr.V("release_count", len(releases)))
	}

	ctxlog.From(ctx).Debug("Resolved latest version",
		"repository", repository,
		"version", latest,
	)
	return latest, nil
}

func statusError(status int, repository string, page int) error {
	switch status {
	case http.StatusNotFound:
		return goerr.Wrap(types.ErrRepositoryNotFound, "releases endpoint returned 404",
			goerr.V("repository", repository))
	case http.StatusUnauthorized, http.StatusForbidden:
		return goerr.Wrap(&types.AuthenticationError{StatusCode: status}, "releases endpoint rejected credentials",
			goerr.V("repository", repository), goerr.V("status", status))
	default:
		return goerr.Wrap(&types.HTTPResponseError{StatusCode: status}, "releases endpoint returned error status",
			goerr.V("repository", repository), goerr.V("status", status), goerr.V("page", page))
	}
}

func lastPageAttr(lastPage int, known bool) any {
	if !known {
		return "?"
	}
	return lastPage
}
