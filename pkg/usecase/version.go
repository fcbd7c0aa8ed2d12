package usecase

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/releasecheck/pkg/domain/model"
	"github.com/m-mizutani/releasecheck/pkg/domain/types"
)

// ParseTag parses a release tag as a semantic version. A single leading "v"
// is stripped before parsing; partial versions such as "1.2" are rejected.
func ParseTag(tag string) (*semver.Version, error) {
	v, err := semver.StrictNewVersion(strings.TrimPrefix(tag, "v"))
	if err != nil {
		return nil, goerr.Wrap(err, "tag is not a semantic version", goerr.V("tag", tag))
	}
	return v, nil
}

// ResolveLatest returns the highest semantic version among releases.
// Releases whose tag does not parse are skipped. ErrNoReleases is returned
// when nothing is left to choose from.
func ResolveLatest(releases []*model.Release, filter model.ReleaseFilter) (string, error) {
	var latest *semver.Version

	for _, release := range releases {
		if filter.ExcludeDrafts && release.Draft {
			continue
		}
		if filter.ExcludePrereleases && release.Prerelease {
			continue
		}

		v, err := ParseTag(release.TagName)
		if err != nil {
			continue
		}
		if filter.ExcludePrereleases && v.Prerelease() != "" {
			continue
		}

		if latest == nil || v.GreaterThan(latest) {
			latest = v
		}
	}

	if latest == nil {
		return "", goerr.Wrap(types.ErrNoReleases, "no release with a semantic version tag",
			goerr.V("release_count", len(releases)))
	}

	return latest.String(), nil
}
